package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"invalid payload", InvalidPayload("payment", "resource id is not numeric"), KindInvalidPayload},
		{"not found", ResourceNotFound("payment", "payment 10 not found"), KindResourceNotFound},
		{"external", ExternalAPI("gateway", "status 502", errors.New("bad gateway")), KindExternalAPI},
		{"persistence", Persistence("commit", "commit failed", errors.New("conn reset")), KindPersistence},
		{"wrapped", fmt.Errorf("job 1: %w", ResourceNotFound("claim", "x")), KindResourceNotFound},
		{"unclassified", context.DeadlineExceeded, KindAppService},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) {
		t.Fatalf("nil error must not be retried")
	}
	if Retryable(InvalidPayload("payment", "bad id")) {
		t.Fatalf("invalid payload must be dropped")
	}
	for _, err := range []error{
		ResourceNotFound("payment", "x"),
		ExternalAPI("gateway", "x", nil),
		Persistence("commit", "x", nil),
		AppService("payment", "x", nil),
		errors.New("boom"),
	} {
		if !Retryable(err) {
			t.Fatalf("expected %v to be retryable", err)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := Persistence("payment.commit", "commit failed", errors.New("conn reset"))
	if err.Error() != "payment.commit: commit failed: conn reset" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, err.Err) {
		t.Fatalf("expected unwrap to reach the cause")
	}
}
