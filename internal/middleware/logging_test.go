package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atinyakov/restofinder/internal/metrics"
)

func TestWithRequestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(WithRequestLogging(logger))
	r.Get("/teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot?x=1", nil))

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != http.MethodGet {
		t.Errorf("method = %v", fields["method"])
	}
	if fields["uri"] != "/teapot?x=1" {
		t.Errorf("uri = %v", fields["uri"])
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status = %v", fields["status"])
	}
	if fields["bytes"] != int64(len("short and stout")) {
		t.Errorf("bytes = %v", fields["bytes"])
	}
	if id, _ := fields["request_id"].(string); id == "" {
		t.Error("expected request id")
	}
}

func TestWithRequestLogging_ImplicitOK(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := WithRequestLogging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	entries := logs.All()
	if len(entries) != 1 || entries[0].ContextMap()["status"] != int64(http.StatusOK) {
		t.Errorf("expected a single 200 entry, got %+v", entries)
	}
}

func TestWithMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(WithMetrics)
	r.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/things/{id}", "204")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/42", nil))

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("requests counter = %v; want %v", got, before+1)
	}
}
