package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/loan-decision-service/internal/application/dto"
	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

// UpdateApplicationStatusUseCase applies a reviewer's disposition to a stored
// application.
type UpdateApplicationStatusUseCase struct {
	repo      port.ApplicationRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewUpdateApplicationStatusUseCase wires dependencies.
func NewUpdateApplicationStatusUseCase(
	repo port.ApplicationRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *UpdateApplicationStatusUseCase {
	return &UpdateApplicationStatusUseCase{repo: repo, publisher: publisher, logger: logger}
}

// Execute loads the application, applies the new status and saves it.
func (uc *UpdateApplicationStatusUseCase) Execute(ctx context.Context, req dto.UpdateStatusRequest) (dto.ApplicationResponse, error) {
	if err := validateApplicationID(req.ApplicationID); err != nil {
		return dto.ApplicationResponse{}, err
	}
	status, err := valueobject.ApprovalStatusFromString(req.Status)
	if err != nil {
		return dto.ApplicationResponse{}, model.NewValidationError("status", "must be one of pending, approved, rejected, under_review")
	}

	app, err := uc.repo.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("find application: %w", err)
	}

	// Only the status change below is published.
	app, err = app.ClearEvents().UpdateStatus(status, req.Reason, req.ReviewedBy, time.Now().UTC())
	if err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("update status: %w", err)
	}

	if err := uc.repo.Save(ctx, app); err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("save application: %w", err)
	}

	if err := uc.publisher.Publish(ctx, app.DomainEvents()...); err != nil {
		uc.logger.ErrorContext(ctx, "failed to publish status update",
			"application_id", app.ID(),
			"error", err,
		)
	}

	return toApplicationResponse(app.ClearEvents()), nil
}
