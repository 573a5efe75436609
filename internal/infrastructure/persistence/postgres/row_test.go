package postgres

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(i int) *int { return &i }

func newApplication(t *testing.T, withDuration bool) model.LoanApplication {
	t.Helper()
	in := model.FactsInput{
		LoanPurpose:      "New car",
		LoanAmount:       dec("25000"),
		AnnualIncome:     dec("60000"),
		CreditScore:      intPtr(690),
		EmploymentStatus: "self-employed",
		MonthlyDebt:      dec("800"),
	}
	if withDuration {
		in.EmploymentDurationYears = dec("2.5")
	}
	facts, err := model.NewApplicationFacts(in)
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	app, err := model.NewLoanApplication(model.Applicant{
		Name: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0199",
	}, facts, "user-7", now)
	require.NoError(t, err)
	return app
}

func evaluated(t *testing.T, app model.LoanApplication) model.LoanApplication {
	t.Helper()
	at := app.CreatedAt().Add(time.Second)
	app, err := app.ApplyEvaluation(model.Evaluation{
		Classification: model.ClassificationResult{
			LoanType:  valueobject.LoanTypeAuto,
			RiskLevel: valueobject.RiskLevelMedium,
			RiskScore: 35,
			Analysis:  "Fair credit, moderate debt.",
			Factors: model.Factors{
				DTI:               16,
				CreditScoreFactor: valueobject.CreditScoreFactorFair,
				IncomeFactor:      valueobject.IncomeFactorMedium,
				EmploymentFactor:  "self-employed",
			},
		},
		Decision:          model.DecisionResult{ApprovalStatus: valueobject.ApprovalStatusApproved, ApprovalReason: "Meets lending criteria."},
		DebtToIncomeRatio: 16,
		Source:            valueobject.ClassifierSourceFallback,
		EvaluatedAt:       at,
	}, at)
	require.NoError(t, err)
	return app
}

func TestApplicationRow_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		app  func(t *testing.T) model.LoanApplication
	}{
		{name: "pending without duration", app: func(t *testing.T) model.LoanApplication { return newApplication(t, false) }},
		{name: "evaluated with duration", app: func(t *testing.T) model.LoanApplication { return evaluated(t, newApplication(t, true)) }},
		{name: "reviewed", app: func(t *testing.T) model.LoanApplication {
			app := evaluated(t, newApplication(t, true))
			app, err := app.UpdateStatus(valueobject.ApprovalStatusUnderReview, "Manual check", "officer-1", app.UpdatedAt().Add(time.Minute))
			require.NoError(t, err)
			return app
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := tt.app(t)
			row, err := toRow(app)
			require.NoError(t, err)
			assert.Len(t, row.args(), 29)

			got, err := row.toDomain()
			require.NoError(t, err)
			assert.Equal(t, app.Snapshot(), got.Snapshot())
			assert.Empty(t, got.DomainEvents())
		})
	}
}

func TestApplicationRow_PendingHasNullEvaluation(t *testing.T) {
	row, err := toRow(newApplication(t, false))
	require.NoError(t, err)

	assert.Nil(t, row.LoanType)
	assert.Nil(t, row.DecisionStatus)
	assert.Nil(t, row.Factors)
	assert.False(t, row.EmploymentDuration.Valid)
	assert.Nil(t, row.args()[16], "factors must be sent as NULL")
}

func TestApplicationRow_RejectsCorruptColumns(t *testing.T) {
	row, err := toRow(evaluated(t, newApplication(t, true)))
	require.NoError(t, err)

	bad := "bogus"
	tests := []struct {
		name   string
		mutate func(r *applicationRow)
	}{
		{name: "approval status", mutate: func(r *applicationRow) { r.ApprovalStatus = bad }},
		{name: "loan type", mutate: func(r *applicationRow) { r.LoanType = &bad }},
		{name: "source", mutate: func(r *applicationRow) { r.Source = &bad }},
		{name: "factors", mutate: func(r *applicationRow) { r.Factors = []byte("{") }},
		{name: "credit score", mutate: func(r *applicationRow) { r.CreditScore = 10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := row
			tt.mutate(&r)
			_, err := r.toDomain()
			assert.Error(t, err)
		})
	}
}
