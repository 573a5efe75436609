package valueobject_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

func TestLoanTypeFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.LoanType
		wantErr  bool
	}{
		{"personal", valueobject.LoanTypePersonal, false},
		{"Mortgage", valueobject.LoanTypeMortgage, false},
		{" auto ", valueobject.LoanTypeAuto, false},
		{"other", valueobject.LoanTypeOther, false},
		{"boat", valueobject.LoanType{}, true},
		{"", valueobject.LoanType{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := valueobject.LoanTypeFromString(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, valueobject.ErrInvalidLoanType)
				assert.True(t, result.IsZero())
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(result))
		})
	}
}

func TestRiskLevelFromString(t *testing.T) {
	level, err := valueobject.RiskLevelFromString("HIGH")
	require.NoError(t, err)
	assert.Equal(t, valueobject.RiskLevelHigh, level)
	assert.Equal(t, "high", level.String())

	_, err = valueobject.RiskLevelFromString("critical")
	assert.ErrorIs(t, err, valueobject.ErrInvalidRiskLevel)
}

func TestApprovalStatus_IsDecision(t *testing.T) {
	assert.False(t, valueobject.ApprovalStatusPending.IsDecision())
	assert.True(t, valueobject.ApprovalStatusApproved.IsDecision())
	assert.True(t, valueobject.ApprovalStatusRejected.IsDecision())
	assert.True(t, valueobject.ApprovalStatusUnderReview.IsDecision())
	assert.False(t, valueobject.ApprovalStatus{}.IsDecision())
}

func TestApprovalStatusFromString(t *testing.T) {
	s, err := valueobject.ApprovalStatusFromString("under_review")
	require.NoError(t, err)
	assert.True(t, s.Equal(valueobject.ApprovalStatusUnderReview))

	_, err = valueobject.ApprovalStatusFromString("all")
	assert.ErrorIs(t, err, valueobject.ErrInvalidApprovalStatus)
}

func TestEmploymentStatus_StabilityFactor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"employed", "stable"},
		{"self-employed", "self-employed"},
		{"self_employed", "self-employed"},
		{"unemployed", "unstable"},
		{"retired", "retired"},
		{"Student", "student"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := valueobject.EmploymentStatusFromString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status.StabilityFactor())
		})
	}

	_, err := valueobject.EmploymentStatusFromString("freelancer")
	assert.ErrorIs(t, err, valueobject.ErrInvalidEmploymentStatus)
}

func TestCreditScoreFactorFromScore(t *testing.T) {
	tests := []struct {
		score    int
		expected valueobject.CreditScoreFactor
	}{
		{850, valueobject.CreditScoreFactorExcellent},
		{750, valueobject.CreditScoreFactorExcellent},
		{749, valueobject.CreditScoreFactorGood},
		{700, valueobject.CreditScoreFactorGood},
		{699, valueobject.CreditScoreFactorFair},
		{600, valueobject.CreditScoreFactorFair},
		{599, valueobject.CreditScoreFactorPoor},
		{300, valueobject.CreditScoreFactorPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, valueobject.CreditScoreFactorFromScore(tt.score), "score %d", tt.score)
	}
}

func TestIncomeFactorFromAnnualIncome(t *testing.T) {
	assert.Equal(t, valueobject.IncomeFactorHigh, valueobject.IncomeFactorFromAnnualIncome(decimal.NewFromInt(100000)))
	assert.Equal(t, valueobject.IncomeFactorMedium, valueobject.IncomeFactorFromAnnualIncome(decimal.RequireFromString("99999.99")))
	assert.Equal(t, valueobject.IncomeFactorMedium, valueobject.IncomeFactorFromAnnualIncome(decimal.NewFromInt(50000)))
	assert.Equal(t, valueobject.IncomeFactorLow, valueobject.IncomeFactorFromAnnualIncome(decimal.NewFromInt(49999)))
}

func TestFactorFromString(t *testing.T) {
	f, err := valueobject.CreditScoreFactorFromString("Good")
	require.NoError(t, err)
	assert.Equal(t, valueobject.CreditScoreFactorGood, f)

	_, err = valueobject.CreditScoreFactorFromString("great")
	assert.ErrorIs(t, err, valueobject.ErrInvalidCreditScoreFactor)

	i, err := valueobject.IncomeFactorFromString("low")
	require.NoError(t, err)
	assert.Equal(t, valueobject.IncomeFactorLow, i)

	_, err = valueobject.IncomeFactorFromString("huge")
	assert.ErrorIs(t, err, valueobject.ErrInvalidIncomeFactor)
}
