package eligibility

import (
	"strings"
	"testing"
	"time"

	"github.com/incluo/laudo-agency/internal/docanalysis"
)

func TestBuildAssessmentMarkdown(t *testing.T) {
	req := Request{CandidateName: "Maria Souza", RequestingCompany: "Acme Ltda"}
	a := Assessment{
		Outcome:               OutcomeConfirmed,
		Confidence:            0.8,
		DisabilityType:        docanalysis.TypeAuditory,
		Severity:              SeverityModerate,
		FunctionalLimitations: []string{"Limitação funcional relatada associada a Deficiência Auditiva"},
		LegalJustification:    fixedJustification,
		TechnicalReasoning:    "Documentação apresenta evidência suficiente.",
		EvaluatedAt:           time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC),
	}
	md := BuildAssessmentMarkdown(req, a)

	for _, want := range []string{
		"**CONFIRMED** (confiança 0.8)",
		"Acme Ltda",
		"Deficiência Auditiva",
		fixedJustification.LawReference,
		fixedJustification.DecreeReference,
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}
