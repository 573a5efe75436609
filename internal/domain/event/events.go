package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-decision-service/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const aggregateType = "LoanApplication"

const (
	TypeApplicationSubmitted     = "loan_decision.application.submitted"
	TypeApplicationEvaluated     = "loan_decision.application.evaluated"
	TypeApplicationStatusUpdated = "loan_decision.application.status_updated"
)

// ApplicationSubmitted is raised when a new application enters the system.
type ApplicationSubmitted struct {
	events.BaseEvent
	UserID         string          `json:"user_id,omitempty"`
	ApplicantEmail string          `json:"applicant_email"`
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	LoanPurpose    string          `json:"loan_purpose"`
}

func NewApplicationSubmitted(
	applicationID, userID, applicantEmail string,
	loanAmount decimal.Decimal, loanPurpose string, at time.Time,
) ApplicationSubmitted {
	return ApplicationSubmitted{
		BaseEvent:      events.NewBaseEvent(TypeApplicationSubmitted, applicationID, aggregateType, at),
		UserID:         userID,
		ApplicantEmail: applicantEmail,
		LoanAmount:     loanAmount,
		LoanPurpose:    loanPurpose,
	}
}

// ApplicationEvaluated is raised once the decision engine has classified and
// decided an application.
type ApplicationEvaluated struct {
	events.BaseEvent
	LoanType          string  `json:"loan_type"`
	RiskLevel         string  `json:"risk_level"`
	RiskScore         int     `json:"risk_score"`
	DebtToIncomeRatio float64 `json:"debt_to_income_ratio"`
	ApprovalStatus    string  `json:"approval_status"`
	ApprovalReason    string  `json:"approval_reason"`
	ClassifierSource  string  `json:"classifier_source"`
}

func NewApplicationEvaluated(
	applicationID, loanType, riskLevel string, riskScore int, dti float64,
	approvalStatus, approvalReason, source string, at time.Time,
) ApplicationEvaluated {
	return ApplicationEvaluated{
		BaseEvent:         events.NewBaseEvent(TypeApplicationEvaluated, applicationID, aggregateType, at),
		LoanType:          loanType,
		RiskLevel:         riskLevel,
		RiskScore:         riskScore,
		DebtToIncomeRatio: dti,
		ApprovalStatus:    approvalStatus,
		ApprovalReason:    approvalReason,
		ClassifierSource:  source,
	}
}

// ApplicationStatusUpdated is raised when a reviewer overrides the status.
type ApplicationStatusUpdated struct {
	events.BaseEvent
	PreviousStatus string `json:"previous_status"`
	ApprovalStatus string `json:"approval_status"`
	ApprovalReason string `json:"approval_reason"`
	ReviewedBy     string `json:"reviewed_by"`
}

func NewApplicationStatusUpdated(
	applicationID, previousStatus, approvalStatus, approvalReason, reviewedBy string, at time.Time,
) ApplicationStatusUpdated {
	return ApplicationStatusUpdated{
		BaseEvent:      events.NewBaseEvent(TypeApplicationStatusUpdated, applicationID, aggregateType, at),
		PreviousStatus: previousStatus,
		ApprovalStatus: approvalStatus,
		ApprovalReason: approvalReason,
		ReviewedBy:     reviewedBy,
	}
}
