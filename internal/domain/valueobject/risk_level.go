package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRiskLevel is returned when a risk level label is not recognised.
var ErrInvalidRiskLevel = errors.New("invalid risk level")

// RiskLevel is an immutable value object representing the coarse risk band
// of an application.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow    = RiskLevel{value: "low"}
	RiskLevelMedium = RiskLevel{value: "medium"}
	RiskLevelHigh   = RiskLevel{value: "high"}
)

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLevelLow, nil
	case "medium":
		return RiskLevelMedium, nil
	case "high":
		return RiskLevelHigh, nil
	default:
		return RiskLevel{}, fmt.Errorf("%w: %q", ErrInvalidRiskLevel, s)
	}
}

// String returns the string representation.
func (r RiskLevel) String() string {
	return r.value
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}
