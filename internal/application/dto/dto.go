package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// ApplicationFacts carries the applicant-supplied financial facts. Numeric
// fields are pointers so that an omitted field can be told apart from zero;
// amounts accept JSON numbers or numeric strings.
type ApplicationFacts struct {
	LoanPurpose             string           `json:"loanPurpose"`
	LoanAmount              *decimal.Decimal `json:"loanAmount"`
	AnnualIncome            *decimal.Decimal `json:"annualIncome"`
	CreditScore             *int             `json:"creditScore"`
	EmploymentStatus        string           `json:"employmentStatus"`
	EmploymentDurationYears *decimal.Decimal `json:"employmentDurationYears,omitempty"`
	MonthlyDebt             *decimal.Decimal `json:"monthlyDebt"`
}

// EvaluateApplicationRequest asks for a decision without storing anything.
type EvaluateApplicationRequest struct {
	ApplicationFacts
}

// SubmitApplicationRequest carries a new loan application.
type SubmitApplicationRequest struct {
	ApplicantName  string `json:"applicantName"`
	ApplicantEmail string `json:"applicantEmail"`
	ApplicantPhone string `json:"applicantPhone"`
	// UserID is taken from the authenticated caller, never from the body.
	UserID string `json:"-"`
	ApplicationFacts
}

// GetApplicationRequest identifies a loan application to retrieve.
type GetApplicationRequest struct {
	ApplicationID string `json:"applicationId"`
	// OwnerID, when set, hides applications owned by anyone else. It is
	// filled from the caller's token, never from the request body.
	OwnerID string `json:"-"`
}

// ListApplicationsRequest filters a page of applications. Status "all" or
// empty disables the status filter.
type ListApplicationsRequest struct {
	Status string `json:"status"`
	UserID string `json:"userId"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// UpdateStatusRequest records a reviewer's disposition.
type UpdateStatusRequest struct {
	ApplicationID string `json:"applicationId"`
	Status        string `json:"status"`
	Reason        string `json:"reason"`
	ReviewedBy    string `json:"reviewedBy"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// Factors is the external representation of the classification factors.
type Factors struct {
	DTI               float64 `json:"dti"`
	CreditScoreFactor string  `json:"creditScoreFactor"`
	IncomeFactor      string  `json:"incomeFactor"`
	EmploymentFactor  string  `json:"employmentFactor"`
}

// EvaluationResponse is the engine output: classification plus decision.
type EvaluationResponse struct {
	LoanType          string    `json:"loanType"`
	RiskLevel         string    `json:"riskLevel"`
	RiskScore         int       `json:"riskScore"`
	Analysis          string    `json:"analysis"`
	Factors           Factors   `json:"factors"`
	DebtToIncomeRatio float64   `json:"debtToIncomeRatio"`
	ApprovalStatus    string    `json:"approvalStatus"`
	ApprovalReason    string    `json:"approvalReason"`
	ClassifierSource  string    `json:"classifierSource"`
	EvaluatedAt       time.Time `json:"evaluatedAt"`
}

// ApplicationResponse is the external representation of a stored application.
type ApplicationResponse struct {
	ID                      string           `json:"id"`
	UserID                  string           `json:"userId,omitempty"`
	ApplicantName           string           `json:"applicantName"`
	ApplicantEmail          string           `json:"applicantEmail"`
	ApplicantPhone          string           `json:"applicantPhone"`
	LoanPurpose             string           `json:"loanPurpose"`
	LoanAmount              decimal.Decimal  `json:"loanAmount"`
	AnnualIncome            decimal.Decimal  `json:"annualIncome"`
	CreditScore             int              `json:"creditScore"`
	EmploymentStatus        string           `json:"employmentStatus"`
	EmploymentDurationYears *decimal.Decimal `json:"employmentDurationYears,omitempty"`
	MonthlyDebt             decimal.Decimal  `json:"monthlyDebt"`
	LoanType                string           `json:"loanType,omitempty"`
	RiskLevel               string           `json:"riskLevel,omitempty"`
	RiskScore               int              `json:"riskScore"`
	Analysis                string           `json:"analysis,omitempty"`
	DebtToIncomeRatio       float64          `json:"debtToIncomeRatio"`
	ClassifierSource        string           `json:"classifierSource,omitempty"`
	ApprovalStatus          string           `json:"approvalStatus"`
	ApprovalReason          string           `json:"approvalReason,omitempty"`
	ReviewedBy              string           `json:"reviewedBy,omitempty"`
	ReviewedAt              *time.Time       `json:"reviewedAt,omitempty"`
	Version                 int              `json:"version"`
	CreatedAt               time.Time        `json:"createdAt"`
	UpdatedAt               time.Time        `json:"updatedAt"`
}

// ListApplicationsResponse is one page of applications.
type ListApplicationsResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	Total        int                   `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}
