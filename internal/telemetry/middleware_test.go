package telemetry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-blog-server/internal/telemetry"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func TestTracingMiddleware(t *testing.T) {
	recorder := installRecorder(t)

	handler := telemetry.TracingMiddleware(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, telemetry.TraceID(r.Context()))
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/post/hello", nil))

	require.NotEmpty(t, rec.Header().Get(telemetry.TraceIDHeader))
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "GET /post/hello", spans[0].Name())
	require.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestInit_Disabled(t *testing.T) {
	tel, err := telemetry.Init(context.Background(), telemetry.Config{Enabled: false, ServiceName: "blog"})
	require.NoError(t, err)
	require.NoError(t, tel.Shutdown(context.Background()))
}
