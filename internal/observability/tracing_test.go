package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "quorum-test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestStartSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := Tracer
	Tracer = tp.Tracer("quorum-test")
	t.Cleanup(func() { Tracer = prev })

	_, end := StartSpan(context.Background(), "service", "vote.toggle", attribute.String("vote.kind", "answer"))
	end(nil)
	_, end = StartSpan(context.Background(), "repository", "question.get")
	end(errors.New("boom"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "service.vote.toggle", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("vote.kind", "answer"))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, "repository.question.get", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
}
