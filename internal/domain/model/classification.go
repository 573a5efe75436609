package model

import (
	"strings"

	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

const (
	MinRiskScore = 0
	MaxRiskScore = 100
)

// ClassificationInput is what a classifier receives: the validated facts and
// the locally computed debt-to-income ratio.
type ClassificationInput struct {
	Facts ApplicationFacts
	DTI   float64
}

// Factors are the qualitative inputs behind a classification.
type Factors struct {
	// DTI as reported by the classifier. Informational only; decisions use
	// the locally computed ratio.
	DTI               float64
	CreditScoreFactor valueobject.CreditScoreFactor
	IncomeFactor      valueobject.IncomeFactor
	EmploymentFactor  string
}

// ClassificationResult is the output contract shared by every classifier.
type ClassificationResult struct {
	LoanType  valueobject.LoanType
	RiskLevel valueobject.RiskLevel
	RiskScore int
	Analysis  string
	Factors   Factors
}

// Validate checks the result against the classifier output contract.
func (r ClassificationResult) Validate() error {
	verr := &ValidationError{}
	if r.LoanType.IsZero() {
		verr.add("loanType", "is required")
	}
	if r.RiskLevel.IsZero() {
		verr.add("riskLevel", "is required")
	}
	if r.RiskScore < MinRiskScore || r.RiskScore > MaxRiskScore {
		verr.add("riskScore", "must be between 0 and 100")
	}
	if strings.TrimSpace(r.Analysis) == "" {
		verr.add("analysis", "must not be empty")
	}
	if r.Factors.DTI < 0 {
		verr.add("factors.dti", "must not be negative")
	}
	if r.Factors.CreditScoreFactor.IsZero() {
		verr.add("factors.creditScoreFactor", "is required")
	}
	if r.Factors.IncomeFactor.IsZero() {
		verr.add("factors.incomeFactor", "is required")
	}
	if strings.TrimSpace(r.Factors.EmploymentFactor) == "" {
		verr.add("factors.employmentFactor", "is required")
	}
	return verr.orNil()
}

// ClampRiskScore bounds a raw score to [0,100].
func ClampRiskScore(score int) int {
	return max(MinRiskScore, min(MaxRiskScore, score))
}
