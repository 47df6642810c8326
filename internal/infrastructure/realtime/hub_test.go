package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"billing_reconciler/internal/domain/entities"

	"github.com/gorilla/websocket"
)

func TestHub_Publish(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r, r.URL.Query().Get("user_id"))
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user_id=user-1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Sessions("user-1") != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("session was not registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	intent := entities.RealtimeIntent{UserID: "user-1", Event: entities.RealtimeEventRefundCompleted, Payload: map[string]any{"payment_id": "p-1"}}
	if err := hub.Publish(context.Background(), intent); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := hub.Publish(context.Background(), entities.RealtimeIntent{UserID: "user-2", Event: "ignored"}); err != nil {
		t.Fatalf("publish to user without sessions: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got entities.RealtimeIntent
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Event != entities.RealtimeEventRefundCompleted || got.Payload["payment_id"] != "p-1" {
		t.Fatalf("unexpected notice %+v", got)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.Sessions("user-1") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session was not released after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_PublishWithoutUser(t *testing.T) {
	if err := NewHub().Publish(context.Background(), entities.RealtimeIntent{Event: "x"}); !errors.Is(err, ErrMissingUserID) {
		t.Fatalf("expected ErrMissingUserID, got %v", err)
	}
}
