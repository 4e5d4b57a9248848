package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/otelhelper"
	"github.com/velden/nodion/pkg/registry"
)

func TestExecute_EmitsWorkflowAndNodeSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	reg := registry.NewRegistry(testLogger())

	task := &recordingExecutor{}
	reg.Register(models.NodeTypeTrigger, task)
	reg.Register("task", task)

	// The executor resolves its tracer at construction time, after the
	// recording provider is installed.
	executor := NewExecutor(reg, nil, testLogger())

	_, err := executor.Execute(context.Background(), linearWorkflow(""), nil)
	require.NoError(t, err)

	spans := recorder.Ended()
	names := make([]string, 0, len(spans))

	var nodeAttrs []attribute.KeyValue

	for _, span := range spans {
		names = append(names, span.Name())

		if span.Name() == "workflow.node" && nodeAttrs == nil {
			nodeAttrs = span.Attributes()
		}
	}

	assert.Contains(t, names, "workflow.execute")
	assert.Contains(t, names, "workflow.node")
	assert.Contains(t, nodeAttrs, attribute.String(otelhelper.NodeIDKey, "A"))
	assert.Contains(t, nodeAttrs, attribute.String(otelhelper.NodeTypeKey, models.NodeTypeTrigger))
}
