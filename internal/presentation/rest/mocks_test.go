package rest

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/bibbank/loan-decision-service/internal/application/dto"
)

// --- Mock implementations ---

type mockEvaluator struct {
	executeFunc func(ctx context.Context, req dto.EvaluateApplicationRequest) (dto.EvaluationResponse, error)
}

func (m *mockEvaluator) Execute(ctx context.Context, req dto.EvaluateApplicationRequest) (dto.EvaluationResponse, error) {
	return m.executeFunc(ctx, req)
}

type mockSubmitter struct {
	executeFunc func(ctx context.Context, req dto.SubmitApplicationRequest) (dto.ApplicationResponse, error)
}

func (m *mockSubmitter) Execute(ctx context.Context, req dto.SubmitApplicationRequest) (dto.ApplicationResponse, error) {
	return m.executeFunc(ctx, req)
}

type mockGetter struct {
	executeFunc func(ctx context.Context, req dto.GetApplicationRequest) (dto.ApplicationResponse, error)
}

func (m *mockGetter) Execute(ctx context.Context, req dto.GetApplicationRequest) (dto.ApplicationResponse, error) {
	return m.executeFunc(ctx, req)
}

type mockLister struct {
	executeFunc func(ctx context.Context, req dto.ListApplicationsRequest) (dto.ListApplicationsResponse, error)
}

func (m *mockLister) Execute(ctx context.Context, req dto.ListApplicationsRequest) (dto.ListApplicationsResponse, error) {
	return m.executeFunc(ctx, req)
}

type mockStatusUpdater struct {
	executeFunc func(ctx context.Context, req dto.UpdateStatusRequest) (dto.ApplicationResponse, error)
}

func (m *mockStatusUpdater) Execute(ctx context.Context, req dto.UpdateStatusRequest) (dto.ApplicationResponse, error) {
	return m.executeFunc(ctx, req)
}

type mocks struct {
	evaluate *mockEvaluator
	submit   *mockSubmitter
	get      *mockGetter
	list     *mockLister
	update   *mockStatusUpdater
}

func newMocks() *mocks {
	return &mocks{
		evaluate: &mockEvaluator{executeFunc: func(context.Context, dto.EvaluateApplicationRequest) (dto.EvaluationResponse, error) {
			return dto.EvaluationResponse{}, nil
		}},
		submit: &mockSubmitter{executeFunc: func(context.Context, dto.SubmitApplicationRequest) (dto.ApplicationResponse, error) {
			return dto.ApplicationResponse{}, nil
		}},
		get: &mockGetter{executeFunc: func(context.Context, dto.GetApplicationRequest) (dto.ApplicationResponse, error) {
			return dto.ApplicationResponse{}, nil
		}},
		list: &mockLister{executeFunc: func(context.Context, dto.ListApplicationsRequest) (dto.ListApplicationsResponse, error) {
			return dto.ListApplicationsResponse{}, nil
		}},
		update: &mockStatusUpdater{executeFunc: func(context.Context, dto.UpdateStatusRequest) (dto.ApplicationResponse, error) {
			return dto.ApplicationResponse{}, nil
		}},
	}
}

func (m *mocks) handler() *ApplicationHandler {
	return NewApplicationHandler(m.evaluate, m.submit, m.get, m.list, m.update, testLogger())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}
