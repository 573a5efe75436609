package service

import (
	"context"
	"time"

	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

// NoopObserver discards engine telemetry.
type NoopObserver struct{}

func (NoopObserver) ClassifierCompleted(context.Context, valueobject.ClassifierSource, time.Duration) {}

func (NoopObserver) ClassifierFellBack(context.Context, string) {}

func (NoopObserver) EvaluationCompleted(context.Context, valueobject.ApprovalStatus, valueobject.ClassifierSource) {
}
