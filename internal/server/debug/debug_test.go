package debug

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"respkv/internal/frame"
	"respkv/internal/store"
)

func TestHandleStats(t *testing.T) {
	st := store.New(4)
	st.Set("a", frame.Integer(1))
	st.HSet("b", "f", frame.Integer(2))

	s := NewServer(st)
	req := httptest.NewRequest(http.MethodGet, "/debug/stats", nil)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Keys != 1 || resp.Hashes != 1 {
		t.Fatalf("got %+v, want Keys=1 Hashes=1", resp)
	}
}

func TestListenAndServeRejectsEmptyAddr(t *testing.T) {
	s := NewServer(store.New(4))
	if err := s.ListenAndServe(nil, ""); err == nil { //nolint:staticcheck // nil ctx fine before first select
		t.Fatalf("expected error for empty addr")
	}
}
