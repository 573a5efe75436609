package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/bibbank/loan-decision-service/internal/application/dto"
	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

// ListApplicationsUseCase pages through stored applications.
type ListApplicationsUseCase struct {
	repo port.ApplicationRepository
}

// NewListApplicationsUseCase wires dependencies.
func NewListApplicationsUseCase(repo port.ApplicationRepository) *ListApplicationsUseCase {
	return &ListApplicationsUseCase{repo: repo}
}

// Execute returns one page of applications, newest first, and the total
// number of matches.
func (uc *ListApplicationsUseCase) Execute(ctx context.Context, req dto.ListApplicationsRequest) (dto.ListApplicationsResponse, error) {
	filter := port.ListFilter{UserID: req.UserID, Limit: req.Limit, Offset: req.Offset}

	if s := strings.TrimSpace(req.Status); s != "" && !strings.EqualFold(s, "all") {
		status, err := valueobject.ApprovalStatusFromString(s)
		if err != nil {
			return dto.ListApplicationsResponse{}, model.NewValidationError("status", "must be one of all, pending, approved, rejected, under_review")
		}
		filter.Status = status
	}
	filter = filter.Normalize()

	apps, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return dto.ListApplicationsResponse{}, fmt.Errorf("list applications: %w", err)
	}

	resp := dto.ListApplicationsResponse{
		Applications: make([]dto.ApplicationResponse, 0, len(apps)),
		Total:        total,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	for _, app := range apps {
		resp.Applications = append(resp.Applications, toApplicationResponse(app))
	}
	return resp, nil
}
