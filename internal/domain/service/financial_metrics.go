package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
)

// ErrNonPositiveIncome guards the debt-to-income division.
var ErrNonPositiveIncome = fmt.Errorf("%w: annual income must be greater than 0", model.ErrInvalidInput)

// monthlyDebt / (annualIncome / 12) * 100 == monthlyDebt * 1200 / annualIncome.
// Dividing once keeps thresholds such as 35 and 43 exact.
var dtiScale = decimal.NewFromInt(12 * 100)

// ComputeDTI returns the debt-to-income ratio as a percentage. The result is
// never negative for non-negative debt and may exceed 100.
func ComputeDTI(monthlyDebt, annualIncome decimal.Decimal) (float64, error) {
	if !annualIncome.IsPositive() {
		return 0, ErrNonPositiveIncome
	}
	return monthlyDebt.Mul(dtiScale).Div(annualIncome).InexactFloat64(), nil
}
