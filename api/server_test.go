package api

import (
	"net/http"
	"testing"
)

func TestNewServerSetsTimeouts(t *testing.T) {
	h := http.NotFoundHandler()
	srv := NewServer(":8080", h)

	if srv.Addr != ":8080" {
		t.Fatalf("expected addr :8080, got %s", srv.Addr)
	}
	if srv.ReadHeaderTimeout == 0 || srv.ReadTimeout == 0 || srv.WriteTimeout == 0 || srv.IdleTimeout == 0 {
		t.Fatal("expected every timeout to be set")
	}
}
