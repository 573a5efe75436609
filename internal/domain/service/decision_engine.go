package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
)

const tracerName = "github.com/bibbank/loan-decision-service/internal/domain/service"

// DecisionEngine sequences one evaluation: validate the facts, compute the
// DTI, classify (service first, rules on failure), then apply the policy. It
// holds no per-application state and is safe for concurrent use.
type DecisionEngine struct {
	classifier *FallbackClassifier
	policy     *DecisionPolicy
	observer   port.EvaluationObserver
	tracer     trace.Tracer
	now        func() time.Time
}

// NewDecisionEngine creates a DecisionEngine. A nil observer discards telemetry.
func NewDecisionEngine(classifier *FallbackClassifier, policy *DecisionPolicy, observer port.EvaluationObserver) *DecisionEngine {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &DecisionEngine{
		classifier: classifier,
		policy:     policy,
		observer:   observer,
		tracer:     otel.Tracer(tracerName),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Evaluate returns the classification and decision for facts. The only error
// it returns is a *model.ValidationError; classification service failures are
// absorbed by the fallback path.
func (e *DecisionEngine) Evaluate(ctx context.Context, facts model.ApplicationFacts) (model.Evaluation, error) {
	ctx, span := e.tracer.Start(ctx, "decision.evaluate")
	defer span.End()

	if err := facts.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid facts")
		return model.Evaluation{}, err
	}

	dti, err := ComputeDTI(facts.MonthlyDebt(), facts.AnnualIncome())
	if err != nil {
		span.SetStatus(codes.Error, "compute dti")
		return model.Evaluation{}, fmt.Errorf("compute dti: %w", err)
	}

	classifyCtx, classifySpan := e.tracer.Start(ctx, "decision.classify")
	classification, source := e.classifier.ClassifyWithSource(classifyCtx, model.ClassificationInput{Facts: facts, DTI: dti})
	classifySpan.SetAttributes(
		attribute.String("classifier.path", source.String()),
		attribute.String("loan.risk_level", classification.RiskLevel.String()),
	)
	classifySpan.End()

	decision := e.policy.Decide(facts, dti, classification)

	span.SetAttributes(
		attribute.String("classifier.path", source.String()),
		attribute.Float64("loan.dti", dti),
		attribute.Int("loan.risk_score", classification.RiskScore),
		attribute.String("loan.approval_status", decision.ApprovalStatus.String()),
	)
	e.observer.EvaluationCompleted(ctx, decision.ApprovalStatus, source)

	return model.Evaluation{
		Classification:    classification,
		Decision:          decision,
		DebtToIncomeRatio: dti,
		Source:            source,
		EvaluatedAt:       e.now(),
	}, nil
}
