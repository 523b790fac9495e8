package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/eduplatform/backend/internal/interfaces/http/middleware"
)

func setupSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
	})
	return recorder
}

func findAttribute(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_RecordsSpanWithRequestID(t *testing.T) {
	recorder := setupSpanRecorder(t)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Tracing())
	router.Use(middleware.TracingAttributeInjector())
	router.GET("/api/v1/invoices/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/abc", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-trace-1")
	router.ServeHTTP(w, req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	value, ok := findAttribute(spans[0].Attributes(), "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-trace-1", value.AsString())
}

func TestTracing_Disabled(t *testing.T) {
	recorder := setupSpanRecorder(t)

	router := gin.New()
	router.Use(middleware.TracingWithConfig(middleware.TracingConfig{Enabled: false}))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recorder.Ended())
}

func TestSpanErrorMarker_MarksServerErrors(t *testing.T) {
	recorder := setupSpanRecorder(t)

	router := gin.New()
	router.Use(middleware.Tracing())
	router.Use(middleware.SpanErrorMarker())
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	value, ok := findAttribute(spans[0].Attributes(), "error.message")
	require.True(t, ok)
	assert.Equal(t, "Internal Server Error", value.AsString())

	status, ok := findAttribute(spans[0].Attributes(), "http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(http.StatusInternalServerError), status.AsInt64())
}

func TestSpanErrorMarker_MarksClientErrors(t *testing.T) {
	recorder := setupSpanRecorder(t)

	router := gin.New()
	router.Use(middleware.Tracing())
	router.Use(middleware.SpanErrorMarker())
	router.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	value, ok := findAttribute(spans[0].Attributes(), "error.message")
	require.True(t, ok)
	assert.Equal(t, "Not Found", value.AsString())
}

func TestSpanErrorMarker_LeavesSuccessAlone(t *testing.T) {
	recorder := setupSpanRecorder(t)

	router := gin.New()
	router.Use(middleware.Tracing())
	router.Use(middleware.SpanErrorMarker())
	router.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}
