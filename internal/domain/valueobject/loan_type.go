package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLoanType is returned when a loan type label is not recognised.
var ErrInvalidLoanType = errors.New("invalid loan type")

// LoanType is the category a loan application is classified into.
type LoanType struct {
	value string
}

const (
	loanTypePersonal  = "personal"
	loanTypeBusiness  = "business"
	loanTypeEducation = "education"
	loanTypeMortgage  = "mortgage"
	loanTypeAuto      = "auto"
	loanTypeOther     = "other"
)

var (
	LoanTypePersonal  = LoanType{value: loanTypePersonal}
	LoanTypeBusiness  = LoanType{value: loanTypeBusiness}
	LoanTypeEducation = LoanType{value: loanTypeEducation}
	LoanTypeMortgage  = LoanType{value: loanTypeMortgage}
	LoanTypeAuto      = LoanType{value: loanTypeAuto}
	LoanTypeOther     = LoanType{value: loanTypeOther}
)

var validLoanTypes = map[string]LoanType{
	loanTypePersonal:  LoanTypePersonal,
	loanTypeBusiness:  LoanTypeBusiness,
	loanTypeEducation: LoanTypeEducation,
	loanTypeMortgage:  LoanTypeMortgage,
	loanTypeAuto:      LoanTypeAuto,
	loanTypeOther:     LoanTypeOther,
}

// LoanTypeFromString parses a loan type label. Matching ignores case and
// surrounding whitespace.
func LoanTypeFromString(s string) (LoanType, error) {
	v, ok := validLoanTypes[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return LoanType{}, fmt.Errorf("%w: %q", ErrInvalidLoanType, s)
	}
	return v, nil
}

// String returns the wire label.
func (t LoanType) String() string { return t.value }

// IsZero returns true if the loan type has not been set.
func (t LoanType) IsZero() bool { return t.value == "" }

// Equal returns true when both loan types carry the same value.
func (t LoanType) Equal(other LoanType) bool { return t.value == other.value }
