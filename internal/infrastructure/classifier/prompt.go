package classifier

import (
	"fmt"
	"strings"

	"github.com/bibbank/loan-decision-service/internal/domain/model"
)

const systemPrompt = "You are a loan classification and risk assessment expert. Always respond with valid JSON only."

// buildPrompt describes the application and restates the rule classifier's
// policy so both paths classify the same way.
func buildPrompt(in model.ClassificationInput) string {
	f := in.Facts

	duration := "Not specified"
	if years, ok := f.EmploymentDurationYears(); ok {
		duration = years.String()
	}

	var b strings.Builder
	b.WriteString("Analyze this loan application and provide a JSON response.\n\n")

	b.WriteString("Application Details:\n")
	fmt.Fprintf(&b, "- Loan Purpose: %s\n", f.LoanPurpose())
	fmt.Fprintf(&b, "- Loan Amount: $%s\n", f.LoanAmount().StringFixed(2))
	fmt.Fprintf(&b, "- Annual Income: $%s\n", f.AnnualIncome().StringFixed(2))
	fmt.Fprintf(&b, "- Credit Score: %d\n", f.CreditScore())
	fmt.Fprintf(&b, "- Employment Status: %s\n", f.EmploymentStatus())
	fmt.Fprintf(&b, "- Employment Duration: %s years\n", duration)
	fmt.Fprintf(&b, "- Monthly Debt: $%s\n", f.MonthlyDebt().StringFixed(2))
	fmt.Fprintf(&b, "- Debt-to-Income Ratio (DTI): %.2f%% (monthly debt / (annual income / 12) * 100)\n\n", in.DTI)

	b.WriteString(`Provide a JSON response with this structure:
{
  "loanType": "personal|business|education|mortgage|auto|other",
  "riskLevel": "low|medium|high",
  "riskScore": <integer between 0 and 100>,
  "analysis": "<analysis in 2-3 sentences>",
  "factors": {
    "dti": <the DTI above>,
    "creditScoreFactor": "excellent|good|fair|poor",
    "incomeFactor": "high|medium|low",
    "employmentFactor": "stable|unstable|self-employed|retired|student"
  }
}

Classification Rules:
- loanType: mortgage for home, house or property purchases; education for school, college or university; business for startups and companies; auto for cars and vehicles; personal for general use.
- riskLevel: low (credit 700+ and DTI < 35%), high (credit < 600 or DTI > 43%), medium otherwise.
- riskScore: weigh credit score 40%, DTI 30%, employment 20%, income 10%. Higher means riskier.
- creditScoreFactor: excellent (750+), good (700-749), fair (600-699), poor (< 600).
- incomeFactor: high (annual income 100000+), medium (50000+), low otherwise.

Respond ONLY with valid JSON.`)

	return b.String()
}
