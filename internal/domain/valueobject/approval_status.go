package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidApprovalStatus is returned when an approval status label is not recognised.
var ErrInvalidApprovalStatus = errors.New("invalid approval status")

// ApprovalStatus is the disposition of a loan application. Pending is the
// stored default before evaluation; the decision policy only ever produces
// approved, rejected or under_review.
type ApprovalStatus struct {
	value string
}

const (
	approvalStatusPending     = "pending"
	approvalStatusApproved    = "approved"
	approvalStatusRejected    = "rejected"
	approvalStatusUnderReview = "under_review"
)

var (
	ApprovalStatusPending     = ApprovalStatus{value: approvalStatusPending}
	ApprovalStatusApproved    = ApprovalStatus{value: approvalStatusApproved}
	ApprovalStatusRejected    = ApprovalStatus{value: approvalStatusRejected}
	ApprovalStatusUnderReview = ApprovalStatus{value: approvalStatusUnderReview}
)

var validApprovalStatuses = map[string]ApprovalStatus{
	approvalStatusPending:     ApprovalStatusPending,
	approvalStatusApproved:    ApprovalStatusApproved,
	approvalStatusRejected:    ApprovalStatusRejected,
	approvalStatusUnderReview: ApprovalStatusUnderReview,
}

// ApprovalStatusFromString parses an approval status label.
func ApprovalStatusFromString(s string) (ApprovalStatus, error) {
	v, ok := validApprovalStatuses[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return ApprovalStatus{}, fmt.Errorf("%w: %q", ErrInvalidApprovalStatus, s)
	}
	return v, nil
}

// IsDecision reports whether the status is one the decision policy can emit.
func (s ApprovalStatus) IsDecision() bool {
	switch s.value {
	case approvalStatusApproved, approvalStatusRejected, approvalStatusUnderReview:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s ApprovalStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s ApprovalStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s ApprovalStatus) Equal(other ApprovalStatus) bool {
	return s.value == other.value
}
