package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTraceContext_KeepsInboundIDs(t *testing.T) {
	trace := NewTraceContext("trace-1", "req-1")

	assert.Equal(t, "trace-1", trace.TraceID)
	assert.Equal(t, "req-1", trace.RequestID)
	assert.NotEmpty(t, trace.SpanID)
}

func TestNewTraceContext_GeneratesMissingIDs(t *testing.T) {
	trace := NewTraceContext("", "")

	assert.NotEmpty(t, trace.TraceID)
	assert.NotEmpty(t, trace.RequestID)
	assert.NotEqual(t, trace.TraceID, trace.RequestID)
}

func TestWithTrace_RoundTrip(t *testing.T) {
	trace := NewTraceContext("trace-1", "req-1")
	ctx := WithTrace(context.Background(), trace)

	got := GetTrace(ctx)
	require.NotNil(t, got)
	assert.Equal(t, trace, got)

	assert.Nil(t, GetTrace(context.Background()))
}
