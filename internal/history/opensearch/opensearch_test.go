package opensearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/loykin/upmon/internal/history"
)

func TestOpenSearchSinkSend(t *testing.T) {
	var gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sink := New(srv.URL, "upmon-history")
	e := history.Event{Service: "DS", Status: "offline", PID: 42, OccurredAt: time.Now().UTC()}
	if err := sink.Send(context.Background(), e); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotPath != "/upmon-history/_doc" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	var decoded history.Event
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded.Service != "DS" || decoded.Status != "offline" {
		t.Fatalf("unexpected body: %+v", decoded)
	}
}

func TestOpenSearchSinkErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	sink := New(srv.URL, "idx")
	err := sink.Send(context.Background(), history.Event{Service: "x"})
	if err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}
