package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

// loanTypeKeywords is checked top to bottom; the first group with a keyword
// contained in the purpose wins.
var loanTypeKeywords = []struct {
	loanType valueobject.LoanType
	keywords []string
}{
	{valueobject.LoanTypeMortgage, []string{"home", "house", "mortgage", "property"}},
	{valueobject.LoanTypeEducation, []string{"school", "college", "university", "education", "study"}},
	{valueobject.LoanTypeBusiness, []string{"business", "startup", "company", "enterprise"}},
	{valueobject.LoanTypeAuto, []string{"car", "vehicle", "auto"}},
}

const baselineRiskScore = 50

// RuleClassifier is the deterministic classifier used when the external
// service is unavailable. It never fails.
type RuleClassifier struct{}

// NewRuleClassifier creates a new RuleClassifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// Classify implements port.Classifier. The error is always nil.
func (c *RuleClassifier) Classify(_ context.Context, in model.ClassificationInput) (model.ClassificationResult, error) {
	return c.Derive(in), nil
}

// Derive classifies the application from the facts and precomputed DTI.
func (c *RuleClassifier) Derive(in model.ClassificationInput) model.ClassificationResult {
	facts := in.Facts
	level := riskLevel(facts.CreditScore(), in.DTI)

	return model.ClassificationResult{
		LoanType:  inferLoanType(facts.LoanPurpose()),
		RiskLevel: level,
		RiskScore: riskScore(facts.CreditScore(), in.DTI, facts.EmploymentStatus()),
		Analysis: fmt.Sprintf(
			"Based on credit score of %d and debt-to-income ratio of %.1f%%, the application presents a %s risk profile.",
			facts.CreditScore(), in.DTI, level,
		),
		Factors: model.Factors{
			DTI:               in.DTI,
			CreditScoreFactor: valueobject.CreditScoreFactorFromScore(facts.CreditScore()),
			IncomeFactor:      valueobject.IncomeFactorFromAnnualIncome(facts.AnnualIncome()),
			EmploymentFactor:  facts.EmploymentStatus().StabilityFactor(),
		},
	}
}

func inferLoanType(purpose string) valueobject.LoanType {
	p := strings.ToLower(purpose)
	for _, group := range loanTypeKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(p, kw) {
				return group.loanType
			}
		}
	}
	return valueobject.LoanTypePersonal
}

// riskLevel: low needs both a good score and a low DTI; either weakness alone
// makes it high.
func riskLevel(creditScore int, dti float64) valueobject.RiskLevel {
	switch {
	case creditScore >= 700 && dti < 35:
		return valueobject.RiskLevelLow
	case creditScore < 600 || dti > 43:
		return valueobject.RiskLevelHigh
	default:
		return valueobject.RiskLevelMedium
	}
}

// riskScore applies the credit, DTI and employment adjustments to the
// baseline, in that order, and clamps once at the end.
func riskScore(creditScore int, dti float64, employment valueobject.EmploymentStatus) int {
	score := baselineRiskScore
	score += creditScoreAdjustment(creditScore)
	score += dtiAdjustment(dti)
	score += employmentAdjustment(employment)
	return model.ClampRiskScore(score)
}

func creditScoreAdjustment(creditScore int) int {
	switch {
	case creditScore >= 750:
		return -20
	case creditScore >= 700:
		return -15
	case creditScore >= 650:
		return -5
	case creditScore >= 600:
		return 5
	default:
		return 20
	}
}

// dtiAdjustment leaves exactly 35 unadjusted.
func dtiAdjustment(dti float64) int {
	switch {
	case dti < 20:
		return -15
	case dti < 35:
		return -10
	case dti > 43:
		return 15
	case dti > 35:
		return 5
	default:
		return 0
	}
}

func employmentAdjustment(employment valueobject.EmploymentStatus) int {
	switch employment {
	case valueobject.EmploymentStatusEmployed:
		return -10
	case valueobject.EmploymentStatusSelfEmployed:
		return -5
	case valueobject.EmploymentStatusUnemployed:
		return 15
	default:
		return 0
	}
}
