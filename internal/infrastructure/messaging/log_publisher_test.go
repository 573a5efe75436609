package messaging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loan-decision-service/internal/domain/event"
)

func TestLogPublisher_Publish(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	evt := event.NewApplicationStatusUpdated("app-9", "approved", "rejected", "Fraud suspected", "officer-2", time.Now().UTC())
	require.NoError(t, pub.Publish(context.Background(), evt))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, `"event_type":"`+event.TypeApplicationStatusUpdated+`"`)
	assert.Contains(t, out, `"aggregate_id":"app-9"`)
}
