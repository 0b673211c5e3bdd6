// internal/server/timeouts_test.go

package server

import (
	"net/http"
	"testing"
)

func TestNewLeavesWriteDeadlineOpenForEventStreams(t *testing.T) {
	srv := New(":8080", http.NotFoundHandler())

	if srv.WriteTimeout != 0 {
		t.Fatalf("WriteTimeout = %v; a write deadline cuts off the group change feed", srv.WriteTimeout)
	}
	if srv.ReadHeaderTimeout == 0 || srv.ReadTimeout == 0 || srv.IdleTimeout == 0 {
		t.Fatalf("read/idle deadlines unset: %+v", srv)
	}
}
