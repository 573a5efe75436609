package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/loan-decision-service/internal/domain/event"
	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

// DefaultReviewer is recorded when a status update names no reviewer.
const DefaultReviewer = "System"

var (
	ErrAlreadyEvaluated  = errors.New("loan application already evaluated")
	ErrInvalidEvaluation = errors.New("evaluation carries no decision")
	ErrInvalidStatus     = errors.New("approval status is required")
)

// Applicant identifies the person behind an application.
type Applicant struct {
	Name  string
	Email string
	Phone string
}

// Validate checks that every contact field is present.
func (a Applicant) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(a.Name) == "" {
		verr.add("applicantName", "is required")
	}
	switch email := strings.TrimSpace(a.Email); {
	case email == "":
		verr.add("applicantEmail", "is required")
	case !strings.Contains(email, "@"):
		verr.add("applicantEmail", "must be a valid email address")
	}
	if strings.TrimSpace(a.Phone) == "" {
		verr.add("applicantPhone", "is required")
	}
	return verr.orNil()
}

// ---------------------------------------------------------------------------
// LoanApplication aggregate root
// ---------------------------------------------------------------------------

// LoanApplication is an immutable aggregate. Every mutation returns a new copy.
type LoanApplication struct {
	id             string
	userID         string
	applicant      Applicant
	facts          ApplicationFacts
	evaluation     Evaluation
	approvalStatus valueobject.ApprovalStatus
	approvalReason string
	reviewedBy     string
	reviewedAt     *time.Time
	version        int
	createdAt      time.Time
	updatedAt      time.Time
	domainEvents   []event.DomainEvent
}

// LoanApplicationSnapshot is the persisted form of a LoanApplication.
type LoanApplicationSnapshot struct {
	ID             string
	UserID         string
	Applicant      Applicant
	Facts          ApplicationFacts
	Evaluation     Evaluation
	ApprovalStatus valueobject.ApprovalStatus
	ApprovalReason string
	ReviewedBy     string
	ReviewedAt     *time.Time
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewLoanApplication creates a brand-new application in pending status.
// userID is optional and ties the application to an authenticated account.
func NewLoanApplication(applicant Applicant, facts ApplicationFacts, userID string, now time.Time) (LoanApplication, error) {
	if err := JoinValidationErrors(applicant.Validate(), facts.Validate()); err != nil {
		return LoanApplication{}, err
	}

	applicant.Name = strings.TrimSpace(applicant.Name)
	applicant.Email = strings.TrimSpace(applicant.Email)
	applicant.Phone = strings.TrimSpace(applicant.Phone)

	id := uuid.New().String()
	app := LoanApplication{
		id:             id,
		userID:         userID,
		applicant:      applicant,
		facts:          facts,
		approvalStatus: valueobject.ApprovalStatusPending,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}
	app.domainEvents = append(app.domainEvents, event.NewApplicationSubmitted(
		id, userID, applicant.Email, facts.LoanAmount(), facts.LoanPurpose(), now,
	))
	return app, nil
}

// ReconstructLoanApplication rebuilds an aggregate from persistence without side-effects.
func ReconstructLoanApplication(s LoanApplicationSnapshot) LoanApplication {
	return LoanApplication{
		id:             s.ID,
		userID:         s.UserID,
		applicant:      s.Applicant,
		facts:          s.Facts,
		evaluation:     s.Evaluation,
		approvalStatus: s.ApprovalStatus,
		approvalReason: s.ApprovalReason,
		reviewedBy:     s.ReviewedBy,
		reviewedAt:     s.ReviewedAt,
		version:        s.Version,
		createdAt:      s.CreatedAt,
		updatedAt:      s.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions (each returns a new copy)
// ---------------------------------------------------------------------------

// ApplyEvaluation records the engine output and moves the application from
// pending to the decided status. It emits ApplicationEvaluated.
func (a LoanApplication) ApplyEvaluation(eval Evaluation, now time.Time) (LoanApplication, error) {
	if !a.evaluation.IsZero() || !a.approvalStatus.Equal(valueobject.ApprovalStatusPending) {
		return a, ErrAlreadyEvaluated
	}
	if !eval.Decision.ApprovalStatus.IsDecision() {
		return a, ErrInvalidEvaluation
	}

	next := a
	next.evaluation = eval
	next.approvalStatus = eval.Decision.ApprovalStatus
	next.approvalReason = eval.Decision.ApprovalReason
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewApplicationEvaluated(
		a.id,
		eval.Classification.LoanType.String(),
		eval.Classification.RiskLevel.String(),
		eval.Classification.RiskScore,
		eval.DebtToIncomeRatio,
		eval.Decision.ApprovalStatus.String(),
		eval.Decision.ApprovalReason,
		eval.Source.String(),
		now,
	))
	return next, nil
}

// UpdateStatus applies a reviewer's disposition. A blank reviewer is recorded
// as DefaultReviewer; a blank reason keeps the current reason. It emits
// ApplicationStatusUpdated.
func (a LoanApplication) UpdateStatus(status valueobject.ApprovalStatus, reason, reviewer string, now time.Time) (LoanApplication, error) {
	if status.IsZero() {
		return a, ErrInvalidStatus
	}
	reviewer = strings.TrimSpace(reviewer)
	if reviewer == "" {
		reviewer = DefaultReviewer
	}

	next := a
	next.approvalStatus = status
	if r := strings.TrimSpace(reason); r != "" {
		next.approvalReason = r
	}
	next.reviewedBy = reviewer
	reviewedAt := now
	next.reviewedAt = &reviewedAt
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewApplicationStatusUpdated(
		a.id, a.approvalStatus.String(), status.String(), next.approvalReason, reviewer, now,
	))
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (a LoanApplication) ID() string                                 { return a.id }
func (a LoanApplication) UserID() string                             { return a.userID }
func (a LoanApplication) Applicant() Applicant                       { return a.applicant }
func (a LoanApplication) Facts() ApplicationFacts                    { return a.facts }
func (a LoanApplication) Evaluation() Evaluation                     { return a.evaluation }
func (a LoanApplication) ApprovalStatus() valueobject.ApprovalStatus { return a.approvalStatus }
func (a LoanApplication) ApprovalReason() string                     { return a.approvalReason }
func (a LoanApplication) ReviewedBy() string                         { return a.reviewedBy }
func (a LoanApplication) ReviewedAt() *time.Time                     { return a.reviewedAt }
func (a LoanApplication) Version() int                               { return a.version }
func (a LoanApplication) CreatedAt() time.Time                       { return a.createdAt }
func (a LoanApplication) UpdatedAt() time.Time                       { return a.updatedAt }
func (a LoanApplication) DomainEvents() []event.DomainEvent          { return a.domainEvents }

// Snapshot returns the persisted form of the aggregate.
func (a LoanApplication) Snapshot() LoanApplicationSnapshot {
	return LoanApplicationSnapshot{
		ID:             a.id,
		UserID:         a.userID,
		Applicant:      a.applicant,
		Facts:          a.facts,
		Evaluation:     a.evaluation,
		ApprovalStatus: a.approvalStatus,
		ApprovalReason: a.approvalReason,
		ReviewedBy:     a.reviewedBy,
		ReviewedAt:     a.reviewedAt,
		Version:        a.version,
		CreatedAt:      a.createdAt,
		UpdatedAt:      a.updatedAt,
	}
}

// ClearEvents returns a copy with an empty event list (call after publishing).
func (a LoanApplication) ClearEvents() LoanApplication {
	next := a
	next.domainEvents = nil
	return next
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
