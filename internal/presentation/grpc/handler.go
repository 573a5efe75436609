package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/loan-decision-service/internal/application/dto"
	"github.com/bibbank/loan-decision-service/internal/application/usecase"
	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
	"github.com/bibbank/loan-decision-service/pkg/auth"
)

// LoanDecisionHandler implements LoanDecisionServiceServer over the use cases.
type LoanDecisionHandler struct {
	UnimplementedLoanDecisionServiceServer

	evaluate     *usecase.EvaluateApplicationUseCase
	submit       *usecase.SubmitApplicationUseCase
	get          *usecase.GetApplicationUseCase
	list         *usecase.ListApplicationsUseCase
	updateStatus *usecase.UpdateApplicationStatusUseCase
	logger       *slog.Logger
}

// NewLoanDecisionHandler creates a new handler with all use-case dependencies.
func NewLoanDecisionHandler(
	evaluate *usecase.EvaluateApplicationUseCase,
	submit *usecase.SubmitApplicationUseCase,
	get *usecase.GetApplicationUseCase,
	list *usecase.ListApplicationsUseCase,
	updateStatus *usecase.UpdateApplicationStatusUseCase,
	logger *slog.Logger,
) *LoanDecisionHandler {
	return &LoanDecisionHandler{
		evaluate:     evaluate,
		submit:       submit,
		get:          get,
		list:         list,
		updateStatus: updateStatus,
		logger:       logger,
	}
}

func (h *LoanDecisionHandler) EvaluateApplication(ctx context.Context, req *dto.EvaluateApplicationRequest) (*dto.EvaluationResponse, error) {
	resp, err := h.evaluate.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// SubmitApplication ties the application to the authenticated caller, if any.
func (h *LoanDecisionHandler) SubmitApplication(ctx context.Context, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error) {
	in := *req
	in.UserID = ""
	if claims, ok := auth.ClaimsFromContext(ctx); ok {
		in.UserID = claims.UserID.String()
	}
	resp, err := h.submit.Execute(ctx, in)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// GetApplication hides other users' applications from customers.
func (h *LoanDecisionHandler) GetApplication(ctx context.Context, req *dto.GetApplicationRequest) (*dto.ApplicationResponse, error) {
	in := *req
	in.OwnerID = auth.OwnerScope(ctx)
	resp, err := h.get.Execute(ctx, in)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// ListApplications restricts customers to their own applications.
func (h *LoanDecisionHandler) ListApplications(ctx context.Context, req *dto.ListApplicationsRequest) (*dto.ListApplicationsResponse, error) {
	in := *req
	if owner := auth.OwnerScope(ctx); owner != "" {
		in.UserID = owner
	}
	resp, err := h.list.Execute(ctx, in)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

func (h *LoanDecisionHandler) UpdateApplicationStatus(ctx context.Context, req *dto.UpdateStatusRequest) (*dto.ApplicationResponse, error) {
	resp, err := h.updateStatus.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// toStatus maps use-case errors to gRPC status codes. Validation failures
// carry a BadRequest detail naming every offending field.
func (h *LoanDecisionHandler) toStatus(ctx context.Context, err error) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		st := status.New(codes.InvalidArgument, verr.Error())
		br := &errdetails.BadRequest{}
		for _, v := range verr.Violations {
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       v.Field,
				Description: v.Message,
			})
		}
		if detailed, derr := st.WithDetails(br); derr == nil {
			st = detailed
		}
		return st.Err()
	case errors.Is(err, port.ErrApplicationNotFound):
		return status.Error(codes.NotFound, port.ErrApplicationNotFound.Error())
	case errors.Is(err, port.ErrVersionConflict):
		return status.Error(codes.Aborted, "application was modified concurrently, retry")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request deadline exceeded")
	default:
		h.logger.ErrorContext(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
