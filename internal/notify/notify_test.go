package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agiseventos/agenda/internal/domain"
)

func TestNewSlackForwarderWithoutURL(t *testing.T) {
	if _, ok := NewSlackForwarder("").(Nop); !ok {
		t.Fatalf("expected Nop forwarder")
	}
}

func TestSlackForwarderPostsMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %s", r.Header.Get("Content-Type"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	company := "Indústria ABC"
	fw := NewSlackForwarder(srv.URL)
	err := fw.Forward(context.Background(),
		domain.User{Name: "João Silva", Company: &company},
		domain.Notification{Title: "Reunião confirmada", Message: "Mesa 15", Type: domain.NotificationSuccess})
	if err != nil {
		t.Fatalf("forward: %v", err)
	}

	text := got["text"]
	for _, want := range []string{":white_check_mark:", "Reunião confirmada", "João Silva (Indústria ABC)", "Mesa 15"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}
}

func TestSlackForwarderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewSlackForwarder(srv.URL).Forward(context.Background(), domain.User{Name: "x"}, domain.Notification{Title: "t"})
	if err == nil {
		t.Fatalf("expected error")
	}
}
