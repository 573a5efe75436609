package classifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

var errNoJSONObject = errors.New("response contains no JSON object")

// payload mirrors the JSON the model is asked for. Pointers tell a missing
// field apart from a zero one.
type payload struct {
	LoanType  *string  `json:"loanType"`
	RiskLevel *string  `json:"riskLevel"`
	RiskScore *float64 `json:"riskScore"`
	Analysis  *string  `json:"analysis"`
	Factors   *struct {
		DTI               *float64 `json:"dti"`
		CreditScoreFactor *string  `json:"creditScoreFactor"`
		IncomeFactor      *string  `json:"incomeFactor"`
		EmploymentFactor  *string  `json:"employmentFactor"`
	} `json:"factors"`
}

// extractPayload decodes the first complete JSON object in text. Prose or
// code fences around the object are ignored.
func extractPayload(text string) (payload, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return payload{}, errNoJSONObject
	}
	var p payload
	if err := json.NewDecoder(bytes.NewReader([]byte(text[start:]))).Decode(&p); err != nil {
		return payload{}, err
	}
	return p, nil
}

// toResult converts the payload into a ClassificationResult, reporting every
// missing or unrecognised field. A fractional risk score is rounded to the
// nearest integer; anything outside [0,100] is rejected.
func (p payload) toResult() (model.ClassificationResult, error) {
	var (
		res  model.ClassificationResult
		errs []error
	)
	violate := func(field, msg string) {
		errs = append(errs, model.NewValidationError(field, msg))
	}

	switch {
	case p.LoanType == nil:
		violate("loanType", "is required")
	default:
		lt, err := valueobject.LoanTypeFromString(*p.LoanType)
		if err != nil {
			violate("loanType", "is not a known loan type")
		}
		res.LoanType = lt
	}

	switch {
	case p.RiskLevel == nil:
		violate("riskLevel", "is required")
	default:
		rl, err := valueobject.RiskLevelFromString(*p.RiskLevel)
		if err != nil {
			violate("riskLevel", "is not a known risk level")
		}
		res.RiskLevel = rl
	}

	switch {
	case p.RiskScore == nil:
		violate("riskScore", "is required")
	case math.IsNaN(*p.RiskScore) || *p.RiskScore < model.MinRiskScore || *p.RiskScore > model.MaxRiskScore:
		violate("riskScore", "must be between 0 and 100")
	default:
		res.RiskScore = int(math.Round(*p.RiskScore))
	}

	if p.Analysis == nil || strings.TrimSpace(*p.Analysis) == "" {
		violate("analysis", "must not be empty")
	} else {
		res.Analysis = strings.TrimSpace(*p.Analysis)
	}

	if p.Factors == nil {
		violate("factors", "is required")
		return res, model.JoinValidationErrors(errs...)
	}
	f := p.Factors
	if f.DTI == nil {
		violate("factors.dti", "is required")
	} else {
		res.Factors.DTI = *f.DTI
	}
	if f.CreditScoreFactor == nil {
		violate("factors.creditScoreFactor", "is required")
	} else if csf, err := valueobject.CreditScoreFactorFromString(*f.CreditScoreFactor); err != nil {
		violate("factors.creditScoreFactor", "is not a known credit score factor")
	} else {
		res.Factors.CreditScoreFactor = csf
	}
	if f.IncomeFactor == nil {
		violate("factors.incomeFactor", "is required")
	} else if inf, err := valueobject.IncomeFactorFromString(*f.IncomeFactor); err != nil {
		violate("factors.incomeFactor", "is not a known income factor")
	} else {
		res.Factors.IncomeFactor = inf
	}
	if f.EmploymentFactor != nil {
		res.Factors.EmploymentFactor = strings.ToLower(strings.TrimSpace(*f.EmploymentFactor))
	}

	if err := model.JoinValidationErrors(errs...); err != nil {
		return res, err
	}
	return res, res.Validate()
}
