package observability

import (
	"context"
	"errors"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilObservabilityIsNoop(t *testing.T) {
	var o *Observability

	ctx := context.Background()
	got, done := o.StartStage(ctx, "pdf.render")
	done(errors.New("ignored"))

	assert.Equal(t, ctx, got)
	assert.NoError(t, o.Shutdown(ctx))
}

func TestStartStage_RecordsOnOwnRegistry(t *testing.T) {
	first, err := New("site-functions-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	// A second instance must not collide with the first.
	second, err := New("site-functions-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Shutdown(context.Background()) })

	ctx, done := first.StartStage(context.Background(), "pdf.render")
	assert.NotNil(t, ctx)
	done(nil)

	_, failed := first.StartStage(context.Background(), "report.deliver")
	failed(errors.New("smtp down"))

	families, err := first.Gatherer().Gather()
	require.NoError(t, err)

	names := familyNames(families)
	assert.True(t, containsPrefix(names, "stage_processed"), "gathered: %v", names)
	assert.True(t, containsPrefix(names, "stage_duration"), "gathered: %v", names)

	others, err := second.Gatherer().Gather()
	require.NoError(t, err)
	assert.False(t, containsPrefix(familyNames(others), "stage_processed"))
}

func TestStartStage_RecordsSpans(t *testing.T) {
	o, err := New("site-functions-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Shutdown(context.Background()) })

	recorder := tracetest.NewSpanRecorder()
	o.tracerProvider.RegisterSpanProcessor(recorder)

	_, ok := o.StartStage(context.Background(), "report.render")
	ok(nil)
	_, failed := o.StartStage(context.Background(), "pdf.render")
	failed(errors.New("502 Bad Gateway"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "report.render", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, "pdf.render", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "502 Bad Gateway", spans[1].Status().Description)
}

func TestGatherer_NilIsNil(t *testing.T) {
	var o *Observability
	assert.Nil(t, o.Gatherer())
}

func familyNames(families []*dto.MetricFamily) []string {
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	return names
}

func containsPrefix(names []string, prefix string) bool {
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}
