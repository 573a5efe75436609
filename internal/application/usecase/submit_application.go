package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/loan-decision-service/internal/application/dto"
	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
	"github.com/bibbank/loan-decision-service/internal/domain/service"
)

// SubmitApplicationUseCase validates, evaluates, stores and announces a new
// loan application.
type SubmitApplicationUseCase struct {
	repo      port.ApplicationRepository
	publisher port.EventPublisher
	engine    *service.DecisionEngine
	logger    *slog.Logger
}

// NewSubmitApplicationUseCase wires dependencies.
func NewSubmitApplicationUseCase(
	repo port.ApplicationRepository,
	publisher port.EventPublisher,
	engine *service.DecisionEngine,
	logger *slog.Logger,
) *SubmitApplicationUseCase {
	return &SubmitApplicationUseCase{
		repo:      repo,
		publisher: publisher,
		engine:    engine,
		logger:    logger,
	}
}

// Execute creates the application, evaluates it and persists the result.
func (uc *SubmitApplicationUseCase) Execute(ctx context.Context, req dto.SubmitApplicationRequest) (dto.ApplicationResponse, error) {
	now := time.Now().UTC()

	// 1. Validate the applicant and the facts together so every bad field is reported.
	applicant := model.Applicant{
		Name:  req.ApplicantName,
		Email: req.ApplicantEmail,
		Phone: req.ApplicantPhone,
	}
	facts, factsErr := model.NewApplicationFacts(toFactsInput(req.ApplicationFacts))
	if err := model.JoinValidationErrors(applicant.Validate(), factsErr); err != nil {
		return dto.ApplicationResponse{}, err
	}

	app, err := model.NewLoanApplication(applicant, facts, req.UserID, now)
	if err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("create application: %w", err)
	}

	// 2. Evaluate.
	eval, err := uc.engine.Evaluate(ctx, facts)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	// 3. Apply the decision.
	app, err = app.ApplyEvaluation(eval, now)
	if err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("apply evaluation: %w", err)
	}

	// 4. Persist.
	if err := uc.repo.Save(ctx, app); err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("save application: %w", err)
	}

	// 5. Publish domain events. The record is already stored, so a broker
	// failure is logged rather than returned.
	if err := uc.publisher.Publish(ctx, app.DomainEvents()...); err != nil {
		uc.logger.ErrorContext(ctx, "failed to publish application events",
			"application_id", app.ID(),
			"error", err,
		)
	}

	uc.logger.InfoContext(ctx, "loan application evaluated",
		"application_id", app.ID(),
		"approval_status", app.ApprovalStatus().String(),
		"classifier_source", eval.Source.String(),
	)
	return toApplicationResponse(app.ClearEvents()), nil
}
