package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCreditScoreFactor = errors.New("invalid credit score factor")
	ErrInvalidIncomeFactor      = errors.New("invalid income factor")
)

// ---------------------------------------------------------------------------
// CreditScoreFactor
// ---------------------------------------------------------------------------

// CreditScoreFactor buckets a credit score into a qualitative band.
type CreditScoreFactor struct {
	value string
}

var (
	CreditScoreFactorExcellent = CreditScoreFactor{value: "excellent"}
	CreditScoreFactorGood      = CreditScoreFactor{value: "good"}
	CreditScoreFactorFair      = CreditScoreFactor{value: "fair"}
	CreditScoreFactorPoor      = CreditScoreFactor{value: "poor"}
)

// CreditScoreFactorFromScore derives the band: excellent (>=750),
// good (700-749), fair (600-699), poor (<600).
func CreditScoreFactorFromScore(score int) CreditScoreFactor {
	switch {
	case score >= 750:
		return CreditScoreFactorExcellent
	case score >= 700:
		return CreditScoreFactorGood
	case score >= 600:
		return CreditScoreFactorFair
	default:
		return CreditScoreFactorPoor
	}
}

// CreditScoreFactorFromString parses a credit score factor label.
func CreditScoreFactorFromString(s string) (CreditScoreFactor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "excellent":
		return CreditScoreFactorExcellent, nil
	case "good":
		return CreditScoreFactorGood, nil
	case "fair":
		return CreditScoreFactorFair, nil
	case "poor":
		return CreditScoreFactorPoor, nil
	default:
		return CreditScoreFactor{}, fmt.Errorf("%w: %q", ErrInvalidCreditScoreFactor, s)
	}
}

func (f CreditScoreFactor) String() string { return f.value }

func (f CreditScoreFactor) IsZero() bool { return f.value == "" }

func (f CreditScoreFactor) Equal(other CreditScoreFactor) bool { return f.value == other.value }

// ---------------------------------------------------------------------------
// IncomeFactor
// ---------------------------------------------------------------------------

// IncomeFactor buckets annual income into a qualitative band.
type IncomeFactor struct {
	value string
}

var (
	IncomeFactorHigh   = IncomeFactor{value: "high"}
	IncomeFactorMedium = IncomeFactor{value: "medium"}
	IncomeFactorLow    = IncomeFactor{value: "low"}
)

var (
	highIncomeThreshold   = decimal.NewFromInt(100000)
	mediumIncomeThreshold = decimal.NewFromInt(50000)
)

// IncomeFactorFromAnnualIncome derives the band: high (>=100000),
// medium (>=50000), low otherwise.
func IncomeFactorFromAnnualIncome(annualIncome decimal.Decimal) IncomeFactor {
	switch {
	case annualIncome.GreaterThanOrEqual(highIncomeThreshold):
		return IncomeFactorHigh
	case annualIncome.GreaterThanOrEqual(mediumIncomeThreshold):
		return IncomeFactorMedium
	default:
		return IncomeFactorLow
	}
}

// IncomeFactorFromString parses an income factor label.
func IncomeFactorFromString(s string) (IncomeFactor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return IncomeFactorHigh, nil
	case "medium":
		return IncomeFactorMedium, nil
	case "low":
		return IncomeFactorLow, nil
	default:
		return IncomeFactor{}, fmt.Errorf("%w: %q", ErrInvalidIncomeFactor, s)
	}
}

func (f IncomeFactor) String() string { return f.value }

func (f IncomeFactor) IsZero() bool { return f.value == "" }

func (f IncomeFactor) Equal(other IncomeFactor) bool { return f.value == other.value }
