package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loan-decision-service/internal/application/dto"
	"github.com/bibbank/loan-decision-service/internal/application/usecase"
	"github.com/bibbank/loan-decision-service/internal/domain/model"
)

func TestEvaluateApplication_Execute(t *testing.T) {
	t.Run("home purchase is approved by the rule path", func(t *testing.T) {
		uc := usecase.NewEvaluateApplicationUseCase(newEngine(t, nil))

		resp, err := uc.Execute(context.Background(), dto.EvaluateApplicationRequest{ApplicationFacts: homePurchase()})
		require.NoError(t, err)

		assert.Equal(t, "mortgage", resp.LoanType)
		assert.Equal(t, "low", resp.RiskLevel)
		assert.Equal(t, 5, resp.RiskScore)
		assert.Equal(t, 10.0, resp.DebtToIncomeRatio)
		assert.Equal(t, "approved", resp.ApprovalStatus)
		assert.Equal(t, "fallback", resp.ClassifierSource)
		assert.Equal(t, "excellent", resp.Factors.CreditScoreFactor)
		assert.Equal(t, "high", resp.Factors.IncomeFactor)
		assert.Equal(t, "stable", resp.Factors.EmploymentFactor)
	})

	t.Run("service outage is invisible to the caller", func(t *testing.T) {
		uc := usecase.NewEvaluateApplicationUseCase(newEngine(t, failingClassifier{}))

		resp, err := uc.Execute(context.Background(), dto.EvaluateApplicationRequest{ApplicationFacts: homePurchase()})
		require.NoError(t, err)
		assert.Equal(t, "approved", resp.ApprovalStatus)
		assert.Equal(t, "fallback", resp.ClassifierSource)
	})

	t.Run("credit score 579 is rejected", func(t *testing.T) {
		facts := homePurchase()
		facts.CreditScore = intPtr(579)
		uc := usecase.NewEvaluateApplicationUseCase(newEngine(t, nil))

		resp, err := uc.Execute(context.Background(), dto.EvaluateApplicationRequest{ApplicationFacts: facts})
		require.NoError(t, err)
		assert.Equal(t, "rejected", resp.ApprovalStatus)
		assert.Contains(t, resp.ApprovalReason, "Credit score too low.")
	})

	t.Run("validation errors name the fields", func(t *testing.T) {
		facts := homePurchase()
		facts.CreditScore = intPtr(900)
		facts.AnnualIncome = dec("0")
		uc := usecase.NewEvaluateApplicationUseCase(newEngine(t, nil))

		_, err := uc.Execute(context.Background(), dto.EvaluateApplicationRequest{ApplicationFacts: facts})

		var verr *model.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"annualIncome", "creditScore"}, verr.Fields())
	})
}
