package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

// applicationRow is the column-level form of a LoanApplication. Evaluation
// columns are nil until the engine has run.
type applicationRow struct {
	ID, UserID                     string
	Name, Email, Phone             string
	LoanPurpose                    string
	LoanAmount, AnnualIncome       decimal.Decimal
	CreditScore                    int
	EmploymentStatus               string
	EmploymentDuration             decimal.NullDecimal
	MonthlyDebt                    decimal.Decimal
	LoanType, RiskLevel            *string
	RiskScore                      *int
	Analysis                       *string
	Factors                        []byte
	DTI                            *float64
	Source                         *string
	DecisionStatus, DecisionReason *string
	EvaluatedAt                    *time.Time
	ApprovalStatus, ApprovalReason string
	ReviewedBy                     string
	ReviewedAt                     *time.Time
	Version                        int
	CreatedAt, UpdatedAt           time.Time
}

type factorsJSON struct {
	DTI               float64 `json:"dti"`
	CreditScoreFactor string  `json:"creditScoreFactor"`
	IncomeFactor      string  `json:"incomeFactor"`
	EmploymentFactor  string  `json:"employmentFactor"`
}

func toRow(app model.LoanApplication) (applicationRow, error) {
	applicant, facts := app.Applicant(), app.Facts()
	row := applicationRow{
		ID:               app.ID(),
		UserID:           app.UserID(),
		Name:             applicant.Name,
		Email:            applicant.Email,
		Phone:            applicant.Phone,
		LoanPurpose:      facts.LoanPurpose(),
		LoanAmount:       facts.LoanAmount(),
		AnnualIncome:     facts.AnnualIncome(),
		CreditScore:      facts.CreditScore(),
		EmploymentStatus: facts.EmploymentStatus().String(),
		MonthlyDebt:      facts.MonthlyDebt(),
		ApprovalStatus:   app.ApprovalStatus().String(),
		ApprovalReason:   app.ApprovalReason(),
		ReviewedBy:       app.ReviewedBy(),
		ReviewedAt:       app.ReviewedAt(),
		Version:          app.Version(),
		CreatedAt:        app.CreatedAt(),
		UpdatedAt:        app.UpdatedAt(),
	}
	if years, ok := facts.EmploymentDurationYears(); ok {
		row.EmploymentDuration = decimal.NewNullDecimal(years)
	}

	eval := app.Evaluation()
	if eval.IsZero() {
		return row, nil
	}
	c := eval.Classification
	factors, err := json.Marshal(factorsJSON{
		DTI:               c.Factors.DTI,
		CreditScoreFactor: c.Factors.CreditScoreFactor.String(),
		IncomeFactor:      c.Factors.IncomeFactor.String(),
		EmploymentFactor:  c.Factors.EmploymentFactor,
	})
	if err != nil {
		return applicationRow{}, fmt.Errorf("encode factors: %w", err)
	}
	loanType, riskLevel, analysis := c.LoanType.String(), c.RiskLevel.String(), c.Analysis
	score, dti := c.RiskScore, eval.DebtToIncomeRatio
	source := eval.Source.String()
	status, reason := eval.Decision.ApprovalStatus.String(), eval.Decision.ApprovalReason
	evaluatedAt := eval.EvaluatedAt

	row.LoanType, row.RiskLevel, row.RiskScore, row.Analysis = &loanType, &riskLevel, &score, &analysis
	row.Factors = factors
	row.DTI, row.Source = &dti, &source
	row.DecisionStatus, row.DecisionReason, row.EvaluatedAt = &status, &reason, &evaluatedAt
	return row, nil
}

// args returns the values in applicationColumns order.
func (r applicationRow) args() []any {
	var factors any
	if r.Factors != nil {
		factors = r.Factors
	}
	return []any{
		r.ID, r.UserID, r.Name, r.Email, r.Phone,
		r.LoanPurpose, r.LoanAmount, r.AnnualIncome, r.CreditScore,
		r.EmploymentStatus, r.EmploymentDuration, r.MonthlyDebt,
		r.LoanType, r.RiskLevel, r.RiskScore, r.Analysis, factors,
		r.DTI, r.Source, r.DecisionStatus, r.DecisionReason, r.EvaluatedAt,
		r.ApprovalStatus, r.ApprovalReason, r.ReviewedBy, r.ReviewedAt,
		r.Version, r.CreatedAt, r.UpdatedAt,
	}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanApplication(s scannable) (model.LoanApplication, error) {
	var r applicationRow
	err := s.Scan(
		&r.ID, &r.UserID, &r.Name, &r.Email, &r.Phone,
		&r.LoanPurpose, &r.LoanAmount, &r.AnnualIncome, &r.CreditScore,
		&r.EmploymentStatus, &r.EmploymentDuration, &r.MonthlyDebt,
		&r.LoanType, &r.RiskLevel, &r.RiskScore, &r.Analysis, &r.Factors,
		&r.DTI, &r.Source, &r.DecisionStatus, &r.DecisionReason, &r.EvaluatedAt,
		&r.ApprovalStatus, &r.ApprovalReason, &r.ReviewedBy, &r.ReviewedAt,
		&r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("scan loan application: %w", err)
	}
	return r.toDomain()
}

func (r applicationRow) toDomain() (model.LoanApplication, error) {
	in := model.FactsInput{
		LoanPurpose:      r.LoanPurpose,
		LoanAmount:       &r.LoanAmount,
		AnnualIncome:     &r.AnnualIncome,
		CreditScore:      &r.CreditScore,
		EmploymentStatus: r.EmploymentStatus,
		MonthlyDebt:      &r.MonthlyDebt,
	}
	if r.EmploymentDuration.Valid {
		in.EmploymentDurationYears = &r.EmploymentDuration.Decimal
	}
	facts, err := model.NewApplicationFacts(in)
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("load facts for %s: %w", r.ID, err)
	}

	status, err := valueobject.ApprovalStatusFromString(r.ApprovalStatus)
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("parse approval status: %w", err)
	}

	eval, err := r.evaluation()
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("load evaluation for %s: %w", r.ID, err)
	}

	return model.ReconstructLoanApplication(model.LoanApplicationSnapshot{
		ID:             r.ID,
		UserID:         r.UserID,
		Applicant:      model.Applicant{Name: r.Name, Email: r.Email, Phone: r.Phone},
		Facts:          facts,
		Evaluation:     eval,
		ApprovalStatus: status,
		ApprovalReason: r.ApprovalReason,
		ReviewedBy:     r.ReviewedBy,
		ReviewedAt:     r.ReviewedAt,
		Version:        r.Version,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}), nil
}

func (r applicationRow) evaluation() (model.Evaluation, error) {
	if r.DecisionStatus == nil || r.EvaluatedAt == nil {
		return model.Evaluation{}, nil
	}

	var f factorsJSON
	if err := json.Unmarshal(r.Factors, &f); err != nil {
		return model.Evaluation{}, fmt.Errorf("decode factors: %w", err)
	}
	loanType, err := valueobject.LoanTypeFromString(deref(r.LoanType))
	if err != nil {
		return model.Evaluation{}, err
	}
	riskLevel, err := valueobject.RiskLevelFromString(deref(r.RiskLevel))
	if err != nil {
		return model.Evaluation{}, err
	}
	credit, err := valueobject.CreditScoreFactorFromString(f.CreditScoreFactor)
	if err != nil {
		return model.Evaluation{}, err
	}
	income, err := valueobject.IncomeFactorFromString(f.IncomeFactor)
	if err != nil {
		return model.Evaluation{}, err
	}
	source, err := valueobject.ClassifierSourceFromString(deref(r.Source))
	if err != nil {
		return model.Evaluation{}, err
	}
	decision, err := valueobject.ApprovalStatusFromString(*r.DecisionStatus)
	if err != nil {
		return model.Evaluation{}, err
	}

	eval := model.Evaluation{
		Classification: model.ClassificationResult{
			LoanType:  loanType,
			RiskLevel: riskLevel,
			Analysis:  deref(r.Analysis),
			Factors: model.Factors{
				DTI:               f.DTI,
				CreditScoreFactor: credit,
				IncomeFactor:      income,
				EmploymentFactor:  f.EmploymentFactor,
			},
		},
		Decision: model.DecisionResult{
			ApprovalStatus: decision,
			ApprovalReason: deref(r.DecisionReason),
		},
		Source:      source,
		EvaluatedAt: *r.EvaluatedAt,
	}
	if r.RiskScore != nil {
		eval.Classification.RiskScore = *r.RiskScore
	}
	if r.DTI != nil {
		eval.DebtToIncomeRatio = *r.DTI
	}
	return eval, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
