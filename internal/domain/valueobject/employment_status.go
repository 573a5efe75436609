package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEmploymentStatus is returned when an employment status is not recognised.
var ErrInvalidEmploymentStatus = errors.New("invalid employment status")

// EmploymentStatus describes the applicant's current employment.
type EmploymentStatus struct {
	value string
}

var (
	EmploymentStatusEmployed     = EmploymentStatus{value: "employed"}
	EmploymentStatusSelfEmployed = EmploymentStatus{value: "self-employed"}
	EmploymentStatusUnemployed   = EmploymentStatus{value: "unemployed"}
	EmploymentStatusRetired      = EmploymentStatus{value: "retired"}
	EmploymentStatusStudent      = EmploymentStatus{value: "student"}
)

// EmploymentStatusFromString parses an employment status. "self_employed" is
// accepted as an alias of "self-employed".
func EmploymentStatusFromString(s string) (EmploymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "employed":
		return EmploymentStatusEmployed, nil
	case "self-employed", "self_employed":
		return EmploymentStatusSelfEmployed, nil
	case "unemployed":
		return EmploymentStatusUnemployed, nil
	case "retired":
		return EmploymentStatusRetired, nil
	case "student":
		return EmploymentStatusStudent, nil
	default:
		return EmploymentStatus{}, fmt.Errorf("%w: %q", ErrInvalidEmploymentStatus, s)
	}
}

// StabilityFactor maps the status onto the employment factor reported in a
// classification: employed is stable, unemployed is unstable, the rest pass
// through unchanged.
func (e EmploymentStatus) StabilityFactor() string {
	switch e {
	case EmploymentStatusEmployed:
		return "stable"
	case EmploymentStatusUnemployed:
		return "unstable"
	default:
		return e.value
	}
}

// String returns the wire label.
func (e EmploymentStatus) String() string { return e.value }

// IsZero returns true if the status has not been set.
func (e EmploymentStatus) IsZero() bool { return e.value == "" }

// Equal returns true when both statuses carry the same value.
func (e EmploymentStatus) Equal(other EmploymentStatus) bool { return e.value == other.value }
