package model

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

const (
	MinCreditScore = 300
	MaxCreditScore = 850
)

// FactsInput is the raw, applicant-supplied data. Pointer fields are nil when
// the value was not supplied.
type FactsInput struct {
	LoanPurpose             string
	LoanAmount              *decimal.Decimal
	AnnualIncome            *decimal.Decimal
	CreditScore             *int
	EmploymentStatus        string
	EmploymentDurationYears *decimal.Decimal
	MonthlyDebt             *decimal.Decimal
}

// ApplicationFacts holds validated applicant facts. It cannot be modified
// after construction.
type ApplicationFacts struct {
	loanPurpose             string
	loanAmount              decimal.Decimal
	annualIncome            decimal.Decimal
	creditScore             int
	employmentStatus        valueobject.EmploymentStatus
	employmentDurationYears *decimal.Decimal
	monthlyDebt             decimal.Decimal
}

// NewApplicationFacts validates in and returns the immutable facts. Every
// offending field is reported in one *ValidationError.
func NewApplicationFacts(in FactsInput) (ApplicationFacts, error) {
	verr := &ValidationError{}

	purpose := strings.TrimSpace(in.LoanPurpose)
	if purpose == "" {
		verr.add("loanPurpose", "is required")
	}

	switch {
	case in.LoanAmount == nil:
		verr.add("loanAmount", "is required")
	case !in.LoanAmount.IsPositive():
		verr.add("loanAmount", "must be greater than 0")
	}

	switch {
	case in.AnnualIncome == nil:
		verr.add("annualIncome", "is required")
	case !in.AnnualIncome.IsPositive():
		verr.add("annualIncome", "must be greater than 0")
	}

	switch {
	case in.CreditScore == nil:
		verr.add("creditScore", "is required")
	case *in.CreditScore < MinCreditScore || *in.CreditScore > MaxCreditScore:
		verr.add("creditScore", "must be between 300 and 850")
	}

	var employment valueobject.EmploymentStatus
	if strings.TrimSpace(in.EmploymentStatus) == "" {
		verr.add("employmentStatus", "is required")
	} else {
		status, err := valueobject.EmploymentStatusFromString(in.EmploymentStatus)
		if err != nil {
			verr.add("employmentStatus", "must be one of employed, self-employed, unemployed, retired, student")
		}
		employment = status
	}

	if in.EmploymentDurationYears != nil && in.EmploymentDurationYears.IsNegative() {
		verr.add("employmentDurationYears", "must not be negative")
	}

	switch {
	case in.MonthlyDebt == nil:
		verr.add("monthlyDebt", "is required")
	case in.MonthlyDebt.IsNegative():
		verr.add("monthlyDebt", "must not be negative")
	}

	if err := verr.orNil(); err != nil {
		return ApplicationFacts{}, err
	}

	facts := ApplicationFacts{
		loanPurpose:      purpose,
		loanAmount:       *in.LoanAmount,
		annualIncome:     *in.AnnualIncome,
		creditScore:      *in.CreditScore,
		employmentStatus: employment,
		monthlyDebt:      *in.MonthlyDebt,
	}
	if in.EmploymentDurationYears != nil {
		d := *in.EmploymentDurationYears
		facts.employmentDurationYears = &d
	}
	return facts, nil
}

// Validate re-checks the invariants established by NewApplicationFacts. It
// catches zero-value facts that bypassed the constructor.
func (f ApplicationFacts) Validate() error {
	_, err := NewApplicationFacts(f.Input())
	return err
}

// Input returns the facts as a FactsInput, suitable for re-validation or
// transport.
func (f ApplicationFacts) Input() FactsInput {
	in := FactsInput{
		LoanPurpose:      f.loanPurpose,
		EmploymentStatus: f.employmentStatus.String(),
	}
	if !f.IsZero() {
		amount, income, debt, score := f.loanAmount, f.annualIncome, f.monthlyDebt, f.creditScore
		in.LoanAmount, in.AnnualIncome, in.MonthlyDebt, in.CreditScore = &amount, &income, &debt, &score
	}
	if f.employmentDurationYears != nil {
		d := *f.employmentDurationYears
		in.EmploymentDurationYears = &d
	}
	return in
}

// IsZero reports whether the facts were never constructed.
func (f ApplicationFacts) IsZero() bool {
	return f.employmentStatus.IsZero() && f.loanPurpose == ""
}

func (f ApplicationFacts) LoanPurpose() string { return f.loanPurpose }
func (f ApplicationFacts) LoanAmount() decimal.Decimal { return f.loanAmount }
func (f ApplicationFacts) AnnualIncome() decimal.Decimal { return f.annualIncome }
func (f ApplicationFacts) CreditScore() int { return f.creditScore }
func (f ApplicationFacts) EmploymentStatus() valueobject.EmploymentStatus { return f.employmentStatus }
func (f ApplicationFacts) MonthlyDebt() decimal.Decimal { return f.monthlyDebt }

// EmploymentDurationYears returns the employment duration and whether it was supplied.
func (f ApplicationFacts) EmploymentDurationYears() (decimal.Decimal, bool) {
	if f.employmentDurationYears == nil {
		return decimal.Zero, false
	}
	return *f.employmentDurationYears, true
}
