package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lodestone-app/lodestone-backend/internal/platform/ctxutil"
)

func traceRouter(capture *ctxutil.Trace, found *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/ping", func(c *gin.Context) {
		*capture, *found = ctxutil.TraceFrom(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAttachTraceContextGeneratesIDs(t *testing.T) {
	var got ctxutil.Trace
	var ok bool
	r := traceRouter(&got, &ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if !ok || got.TraceID == "" || got.RequestID == "" {
		t.Fatalf("trace data missing from request context: %+v", got)
	}
	if h := w.Header().Get("X-Trace-Id"); h != got.TraceID {
		t.Fatalf("response trace header %q does not match context %q", h, got.TraceID)
	}
	if h := w.Header().Get("X-Request-Id"); h != got.RequestID {
		t.Fatalf("response request header %q does not match context %q", h, got.RequestID)
	}
}

func TestAttachTraceContextKeepsInboundIDs(t *testing.T) {
	var got ctxutil.Trace
	var ok bool
	r := traceRouter(&got, &ok)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Trace-Id", "trace-abc")
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if !ok {
		t.Fatal("trace data missing from request context")
	}
	if got.TraceID != "trace-abc" || got.RequestID != "req-123" {
		t.Fatalf("inbound IDs not preserved: %+v", got)
	}
	if w.Header().Get("X-Trace-Id") != "trace-abc" {
		t.Fatalf("trace header not echoed, got %q", w.Header().Get("X-Trace-Id"))
	}
}
