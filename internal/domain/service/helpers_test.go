package service_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

// factsOf builds valid facts; annual income is fixed at 120000 so that the
// DTI equals monthlyDebt / 100.
func factsOf(t *testing.T, purpose string, creditScore int, employment string, monthlyDebt int64) model.ApplicationFacts {
	t.Helper()
	amount := decimal.NewFromInt(25000)
	income := decimal.NewFromInt(120000)
	debt := decimal.NewFromInt(monthlyDebt)
	facts, err := model.NewApplicationFacts(model.FactsInput{
		LoanPurpose:      purpose,
		LoanAmount:       &amount,
		AnnualIncome:     &income,
		CreditScore:      &creditScore,
		EmploymentStatus: employment,
		MonthlyDebt:      &debt,
	})
	require.NoError(t, err)
	return facts
}

func homePurchaseFacts(t *testing.T) model.ApplicationFacts {
	t.Helper()
	amount := decimal.NewFromInt(300000)
	income := decimal.NewFromInt(120000)
	debt := decimal.NewFromInt(1000)
	score := 780
	facts, err := model.NewApplicationFacts(model.FactsInput{
		LoanPurpose:      "home purchase",
		LoanAmount:       &amount,
		AnnualIncome:     &income,
		CreditScore:      &score,
		EmploymentStatus: "employed",
		MonthlyDebt:      &debt,
	})
	require.NoError(t, err)
	return facts
}

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type mockClassifier struct {
	ClassifyFunc func(ctx context.Context, in model.ClassificationInput) (model.ClassificationResult, error)
	calls        int
	mu           sync.Mutex
}

func (m *mockClassifier) Classify(ctx context.Context, in model.ClassificationInput) (model.ClassificationResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.ClassifyFunc(ctx, in)
}

type recordingObserver struct {
	mu          sync.Mutex
	completed   []valueobject.ClassifierSource
	fallbacks   []string
	evaluations []valueobject.ApprovalStatus
}

func (o *recordingObserver) ClassifierCompleted(_ context.Context, source valueobject.ClassifierSource, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed = append(o.completed, source)
}

func (o *recordingObserver) ClassifierFellBack(_ context.Context, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks = append(o.fallbacks, reason)
}

func (o *recordingObserver) EvaluationCompleted(_ context.Context, status valueobject.ApprovalStatus, _ valueobject.ClassifierSource) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.evaluations = append(o.evaluations, status)
}

func serviceResult(riskScore int, reportedDTI float64) model.ClassificationResult {
	return model.ClassificationResult{
		LoanType:  valueobject.LoanTypeMortgage,
		RiskLevel: valueobject.RiskLevelLow,
		RiskScore: riskScore,
		Analysis:  "Strong applicant with stable income.",
		Factors: model.Factors{
			DTI:               reportedDTI,
			CreditScoreFactor: valueobject.CreditScoreFactorExcellent,
			IncomeFactor:      valueobject.IncomeFactorHigh,
			EmploymentFactor:  "stable",
		},
	}
}
