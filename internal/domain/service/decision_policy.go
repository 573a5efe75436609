package service

import (
	"strings"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

const (
	approveReason = "Excellent credit score, low debt-to-income ratio, and low risk score qualify for automatic approval."
	reviewReason  = "Application requires manual review due to borderline qualification metrics."

	lowCreditClause = "Credit score too low."
	highDTIClause   = "Debt-to-income ratio exceeds threshold."
	highRiskClause  = "Risk score too high."
)

// DecisionInput is the subset of signals the policy looks at. DTI is always
// the locally computed ratio.
type DecisionInput struct {
	CreditScore int
	DTI         float64
	RiskScore   int
}

// DecisionRule is one (predicate, outcome, reason) entry of the policy.
type DecisionRule struct {
	Name    string
	Matches func(DecisionInput) bool
	Status  valueobject.ApprovalStatus
	Reason  func(DecisionInput) string
}

// DecisionPolicy evaluates its rules in order and returns on the first match.
// The last rule always matches, so Decide is total.
type DecisionPolicy struct {
	rules []DecisionRule
}

// NewDecisionPolicy creates the standard policy: auto-approve, then
// auto-reject, then manual review. Approve is checked before reject; the two
// cannot both match since approval needs a risk score below 30 and rejection
// one above 80, but the order stays fixed regardless.
func NewDecisionPolicy() *DecisionPolicy {
	return &DecisionPolicy{rules: []DecisionRule{
		{
			Name:    "auto_approve",
			Matches: qualifiesForApproval,
			Status:  valueobject.ApprovalStatusApproved,
			Reason:  func(DecisionInput) string { return approveReason },
		},
		{
			Name:    "auto_reject",
			Matches: func(in DecisionInput) bool { return len(rejectionClauses(in)) > 0 },
			Status:  valueobject.ApprovalStatusRejected,
			Reason:  func(in DecisionInput) string { return strings.Join(rejectionClauses(in), " ") },
		},
		{
			Name:    "under_review",
			Matches: func(DecisionInput) bool { return true },
			Status:  valueobject.ApprovalStatusUnderReview,
			Reason:  func(DecisionInput) string { return reviewReason },
		},
	}}
}

// Rules returns the rules in evaluation order.
func (p *DecisionPolicy) Rules() []DecisionRule {
	out := make([]DecisionRule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Decide renders the disposition for an application.
func (p *DecisionPolicy) Decide(facts model.ApplicationFacts, dti float64, classification model.ClassificationResult) model.DecisionResult {
	return p.DecideInput(DecisionInput{
		CreditScore: facts.CreditScore(),
		DTI:         dti,
		RiskScore:   classification.RiskScore,
	})
}

// DecideInput renders the disposition from raw signals.
func (p *DecisionPolicy) DecideInput(in DecisionInput) model.DecisionResult {
	for _, rule := range p.rules {
		if rule.Matches(in) {
			return model.DecisionResult{ApprovalStatus: rule.Status, ApprovalReason: rule.Reason(in)}
		}
	}
	return model.DecisionResult{ApprovalStatus: valueobject.ApprovalStatusUnderReview, ApprovalReason: reviewReason}
}

func qualifiesForApproval(in DecisionInput) bool {
	return in.CreditScore >= 750 && in.DTI < 30 && in.RiskScore < 30
}

// rejectionClauses lists the triggered rejection reasons in fixed order.
func rejectionClauses(in DecisionInput) []string {
	var clauses []string
	if in.CreditScore < 580 {
		clauses = append(clauses, lowCreditClause)
	}
	if in.DTI > 50 {
		clauses = append(clauses, highDTIClause)
	}
	if in.RiskScore > 80 {
		clauses = append(clauses, highRiskClause)
	}
	return clauses
}
