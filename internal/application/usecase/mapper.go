package usecase

import (
	"github.com/google/uuid"

	"github.com/bibbank/loan-decision-service/internal/application/dto"
	"github.com/bibbank/loan-decision-service/internal/domain/model"
)

func toFactsInput(req dto.ApplicationFacts) model.FactsInput {
	return model.FactsInput{
		LoanPurpose:             req.LoanPurpose,
		LoanAmount:              req.LoanAmount,
		AnnualIncome:            req.AnnualIncome,
		CreditScore:             req.CreditScore,
		EmploymentStatus:        req.EmploymentStatus,
		EmploymentDurationYears: req.EmploymentDurationYears,
		MonthlyDebt:             req.MonthlyDebt,
	}
}

func validateApplicationID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.NewValidationError("id", "must be a UUID")
	}
	return nil
}

func toEvaluationResponse(eval model.Evaluation) dto.EvaluationResponse {
	c := eval.Classification
	return dto.EvaluationResponse{
		LoanType:          c.LoanType.String(),
		RiskLevel:         c.RiskLevel.String(),
		RiskScore:         c.RiskScore,
		Analysis:          c.Analysis,
		Factors:           toFactorsResponse(c.Factors),
		DebtToIncomeRatio: eval.DebtToIncomeRatio,
		ApprovalStatus:    eval.Decision.ApprovalStatus.String(),
		ApprovalReason:    eval.Decision.ApprovalReason,
		ClassifierSource:  eval.Source.String(),
		EvaluatedAt:       eval.EvaluatedAt,
	}
}

func toFactorsResponse(f model.Factors) dto.Factors {
	return dto.Factors{
		DTI:               f.DTI,
		CreditScoreFactor: f.CreditScoreFactor.String(),
		IncomeFactor:      f.IncomeFactor.String(),
		EmploymentFactor:  f.EmploymentFactor,
	}
}

func toApplicationResponse(app model.LoanApplication) dto.ApplicationResponse {
	facts := app.Facts()
	eval := app.Evaluation()
	resp := dto.ApplicationResponse{
		ID:                app.ID(),
		UserID:            app.UserID(),
		ApplicantName:     app.Applicant().Name,
		ApplicantEmail:    app.Applicant().Email,
		ApplicantPhone:    app.Applicant().Phone,
		LoanPurpose:       facts.LoanPurpose(),
		LoanAmount:        facts.LoanAmount(),
		AnnualIncome:      facts.AnnualIncome(),
		CreditScore:       facts.CreditScore(),
		EmploymentStatus:  facts.EmploymentStatus().String(),
		MonthlyDebt:       facts.MonthlyDebt(),
		LoanType:          eval.Classification.LoanType.String(),
		RiskLevel:         eval.Classification.RiskLevel.String(),
		RiskScore:         eval.Classification.RiskScore,
		Analysis:          eval.Classification.Analysis,
		DebtToIncomeRatio: eval.DebtToIncomeRatio,
		ClassifierSource:  eval.Source.String(),
		ApprovalStatus:    app.ApprovalStatus().String(),
		ApprovalReason:    app.ApprovalReason(),
		ReviewedBy:        app.ReviewedBy(),
		ReviewedAt:        app.ReviewedAt(),
		Version:           app.Version(),
		CreatedAt:         app.CreatedAt(),
		UpdatedAt:         app.UpdatedAt(),
	}
	if years, ok := facts.EmploymentDurationYears(); ok {
		resp.EmploymentDurationYears = &years
	}
	return resp
}
