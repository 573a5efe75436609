package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-decision-service/internal/application/dto"
	"github.com/bibbank/loan-decision-service/internal/domain/event"
	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
	"github.com/bibbank/loan-decision-service/internal/domain/service"
)

// --- Mock implementations ---

type mockApplicationRepository struct {
	saveFunc     func(ctx context.Context, app model.LoanApplication) error
	findByIDFunc func(ctx context.Context, id string) (model.LoanApplication, error)
	listFunc     func(ctx context.Context, filter port.ListFilter) ([]model.LoanApplication, int, error)
	savedApps    []model.LoanApplication
}

func (m *mockApplicationRepository) Save(ctx context.Context, app model.LoanApplication) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, app)
	}
	m.savedApps = append(m.savedApps, app)
	return nil
}

func (m *mockApplicationRepository) FindByID(ctx context.Context, id string) (model.LoanApplication, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	for i := len(m.savedApps) - 1; i >= 0; i-- {
		if m.savedApps[i].ID() == id {
			return m.savedApps[i].ClearEvents(), nil
		}
	}
	return model.LoanApplication{}, port.ErrApplicationNotFound
}

func (m *mockApplicationRepository) List(ctx context.Context, filter port.ListFilter) ([]model.LoanApplication, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return m.savedApps, len(m.savedApps), nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type failingClassifier struct{}

func (failingClassifier) Classify(context.Context, model.ClassificationInput) (model.ClassificationResult, error) {
	return model.ClassificationResult{}, model.NewServiceError("call failed", errors.New("503 service unavailable"))
}

// --- Fixtures ---

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func newEngine(t *testing.T, primary port.Classifier) *service.DecisionEngine {
	t.Helper()
	classifier := service.NewFallbackClassifier(primary, service.NewRuleClassifier(), nil, testLogger(&bytes.Buffer{}))
	return service.NewDecisionEngine(classifier, service.NewDecisionPolicy(), nil)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(i int) *int { return &i }

func homePurchase() dto.ApplicationFacts {
	return dto.ApplicationFacts{
		LoanPurpose:      "home purchase",
		LoanAmount:       dec("300000"),
		AnnualIncome:     dec("120000"),
		CreditScore:      intPtr(780),
		EmploymentStatus: "employed",
		MonthlyDebt:      dec("1000"),
	}
}

func validSubmitRequest() dto.SubmitApplicationRequest {
	return dto.SubmitApplicationRequest{
		ApplicantName:    "Grace Hopper",
		ApplicantEmail:   "grace@example.com",
		ApplicantPhone:   "555-0100",
		UserID:           "user-42",
		ApplicationFacts: homePurchase(),
	}
}
