package resource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newRecordingProvider(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, rec
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_Non2xxMarksSpanError(t *testing.T) {
	ts := httptest.NewServer(jsonHandler(t, "/users", http.StatusInternalServerError, "boom", nil))
	defer ts.Close()
	tp, rec := newRecordingProvider(t)

	_, err := newTestClient(t, ts, WithTracerProvider(tp)).ListUsers(context.Background())
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, OpListUsers, span.Name())
	assert.Equal(t, trace.SpanKindClient, span.SpanKind())

	status, ok := spanAttr(span, "http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(http.StatusInternalServerError), status.AsInt64())

	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Contains(t, span.Status().Description, "HTTP 500")
	require.NotEmpty(t, span.Events())
	assert.Equal(t, "exception", span.Events()[0].Name)
}

func TestTracing_SuccessRecordsUserID(t *testing.T) {
	ts := httptest.NewServer(jsonHandler(t, "/posts", http.StatusOK, `[]`, nil))
	defer ts.Close()
	tp, rec := newRecordingProvider(t)

	_, err := newTestClient(t, ts, WithTracerProvider(tp)).ListPostsByUser(context.Background(), 7)
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, OpListPostsByUser, span.Name())
	assert.Equal(t, codes.Unset, span.Status().Code)

	uid, ok := spanAttr(span, "user.id")
	require.True(t, ok)
	assert.Equal(t, int64(7), uid.AsInt64())

	status, ok := spanAttr(span, "http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(http.StatusOK), status.AsInt64())

	u, ok := spanAttr(span, "http.url")
	require.True(t, ok)
	assert.Contains(t, u.AsString(), "/posts?userId=7")
}

func TestTracing_ContextCarriesSpan(t *testing.T) {
	tp, rec := newRecordingProvider(t)
	var seen trace.SpanContext
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = trace.SpanContextFromContext(r.Context())
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Header: make(http.Header), Request: r}, nil
	})}

	c, err := NewHTTPClient("https://api.example.test", WithHTTPClient(hc), WithTracerProvider(tp))
	require.NoError(t, err)
	_, err = c.ListUsers(context.Background())
	require.NoError(t, err)

	require.Len(t, rec.Ended(), 1)
	assert.True(t, seen.IsValid())
	assert.Equal(t, rec.Ended()[0].SpanContext().SpanID(), seen.SpanID())
}
