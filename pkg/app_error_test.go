package pkg

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		e := NewDomainErrorSimple("PLAN_NOT_FOUND", "Plan not found", http.StatusNotFound)
		if e.Error() != "PLAN_NOT_FOUND: Plan not found" {
			t.Fatalf("unexpected message: %s", e.Error())
		}
		if e.HTTPStatus != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", e.HTTPStatus)
		}
	})

	t.Run("wrapped cause is hidden from http body", func(t *testing.T) {
		cause := errors.New("db down")
		e := NewDomainError("INTERNAL_ERROR", "An internal error occurred", cause, http.StatusInternalServerError)
		if !errors.Is(e, cause) {
			t.Fatalf("expected errors.Is to reach the cause")
		}
		body := e.ToHTTPError()
		if body.Code != "INTERNAL_ERROR" || body.Message != "An internal error occurred" {
			t.Fatalf("unexpected body: %+v", body)
		}
	})
}
