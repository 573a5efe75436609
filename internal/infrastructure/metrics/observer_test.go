package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestEngineObserver(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	obs, err := NewEngineObserver(provider)
	require.NoError(t, err)

	ctx := context.Background()
	obs.ClassifierFellBack(ctx, "timeout")
	obs.ClassifierFellBack(ctx, "timeout")
	obs.ClassifierCompleted(ctx, valueobject.ClassifierSourceFallback, 3*time.Millisecond)
	obs.EvaluationCompleted(ctx, valueobject.ApprovalStatusApproved, valueobject.ClassifierSourceFallback)
	obs.EvaluationCompleted(ctx, valueobject.ApprovalStatusRejected, valueobject.ClassifierSourceService)

	data := collect(t, reader)

	fallbacks, ok := data["loan_classifier_fallbacks"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, fallbacks.DataPoints, 1)
	assert.EqualValues(t, 2, fallbacks.DataPoints[0].Value)
	reason, _ := fallbacks.DataPoints[0].Attributes.Value(attribute.Key("reason"))
	assert.Equal(t, "timeout", reason.AsString())

	evaluations, ok := data["loan_evaluations"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, evaluations.DataPoints, 2)

	duration, ok := data["loan_classifier_duration"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, duration.DataPoints, 1)
	assert.EqualValues(t, 1, duration.DataPoints[0].Count)
	path, _ := duration.DataPoints[0].Attributes.Value(attribute.Key("path"))
	assert.Equal(t, "fallback", path.AsString())
}
