package usecase

import (
	"context"

	"github.com/bibbank/loan-decision-service/internal/application/dto"
	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/service"
)

// EvaluateApplicationUseCase runs the decision engine without persisting anything.
type EvaluateApplicationUseCase struct {
	engine *service.DecisionEngine
}

// NewEvaluateApplicationUseCase wires dependencies.
func NewEvaluateApplicationUseCase(engine *service.DecisionEngine) *EvaluateApplicationUseCase {
	return &EvaluateApplicationUseCase{engine: engine}
}

// Execute validates the facts and returns the classification and decision.
// The only error is a *model.ValidationError.
func (uc *EvaluateApplicationUseCase) Execute(ctx context.Context, req dto.EvaluateApplicationRequest) (dto.EvaluationResponse, error) {
	facts, err := model.NewApplicationFacts(toFactsInput(req.ApplicationFacts))
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	eval, err := uc.engine.Evaluate(ctx, facts)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}
	return toEvaluationResponse(eval), nil
}
