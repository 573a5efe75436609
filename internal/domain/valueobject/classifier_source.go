package valueobject

import "fmt"

// ClassifierSource records which classification path produced a result.
type ClassifierSource struct {
	value string
}

var (
	ClassifierSourceService  = ClassifierSource{value: "service"}
	ClassifierSourceFallback = ClassifierSource{value: "fallback"}
)

// ClassifierSourceFromString parses a stored classifier source.
func ClassifierSourceFromString(s string) (ClassifierSource, error) {
	switch s {
	case "service":
		return ClassifierSourceService, nil
	case "fallback":
		return ClassifierSourceFallback, nil
	default:
		return ClassifierSource{}, fmt.Errorf("invalid classifier source: %q", s)
	}
}

func (s ClassifierSource) String() string { return s.value }

func (s ClassifierSource) IsZero() bool { return s.value == "" }
