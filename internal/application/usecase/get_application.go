package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/loan-decision-service/internal/application/dto"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
)

// GetApplicationUseCase retrieves a single loan application.
type GetApplicationUseCase struct {
	repo port.ApplicationRepository
}

// NewGetApplicationUseCase wires dependencies.
func NewGetApplicationUseCase(repo port.ApplicationRepository) *GetApplicationUseCase {
	return &GetApplicationUseCase{repo: repo}
}

// Execute returns the application or port.ErrApplicationNotFound. An
// application outside req.OwnerID is reported as not found.
func (uc *GetApplicationUseCase) Execute(ctx context.Context, req dto.GetApplicationRequest) (dto.ApplicationResponse, error) {
	if err := validateApplicationID(req.ApplicationID); err != nil {
		return dto.ApplicationResponse{}, err
	}
	app, err := uc.repo.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("find application: %w", err)
	}
	if req.OwnerID != "" && app.UserID() != req.OwnerID {
		return dto.ApplicationResponse{}, fmt.Errorf("find application: %w", port.ErrApplicationNotFound)
	}
	return toApplicationResponse(app), nil
}
