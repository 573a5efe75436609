package port

import (
	"context"
	"time"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

// Classifier labels an application and scores its risk. The rule-based
// implementation never fails; the service-backed one fails with a
// *model.ServiceError.
type Classifier interface {
	Classify(ctx context.Context, in model.ClassificationInput) (model.ClassificationResult, error)
}

// CompletionRequest is a single prompt sent to a text-completion service.
type CompletionRequest struct {
	System string
	Prompt string
}

// CompletionClient calls an external natural-language model once.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ClassificationCache stores service classifications keyed by a digest of
// the facts they were computed from.
type ClassificationCache interface {
	Get(ctx context.Context, key string) (model.ClassificationResult, bool, error)
	Set(ctx context.Context, key string, result model.ClassificationResult) error
}

// EvaluationObserver receives engine telemetry. Implementations must be safe
// for concurrent use.
type EvaluationObserver interface {
	ClassifierCompleted(ctx context.Context, source valueobject.ClassifierSource, elapsed time.Duration)
	ClassifierFellBack(ctx context.Context, reason string)
	EvaluationCompleted(ctx context.Context, status valueobject.ApprovalStatus, source valueobject.ClassifierSource)
}
