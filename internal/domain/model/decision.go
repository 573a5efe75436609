package model

import (
	"time"

	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

// DecisionResult is the disposition rendered by the decision policy.
type DecisionResult struct {
	ApprovalStatus valueobject.ApprovalStatus
	ApprovalReason string
}

// Evaluation is the complete engine output for one application: the
// classification, the decision and the metrics they were derived from.
type Evaluation struct {
	Classification    ClassificationResult
	Decision          DecisionResult
	DebtToIncomeRatio float64
	Source            valueobject.ClassifierSource
	EvaluatedAt       time.Time
}

// IsZero reports whether the evaluation was never produced.
func (e Evaluation) IsZero() bool {
	return e.Decision.ApprovalStatus.IsZero()
}
