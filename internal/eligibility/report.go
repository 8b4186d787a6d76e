package eligibility

import (
	"fmt"
	"strings"
)

// BuildAssessmentMarkdown renders a case-worker summary of one assessment.
func BuildAssessmentMarkdown(req Request, a Assessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Avaliação de Elegibilidade PCD\n\n")
	fmt.Fprintf(&b, "- Candidato: %s\n", req.CandidateName)
	if req.RequestingCompany != "" {
		fmt.Fprintf(&b, "- Empresa solicitante: %s\n", req.RequestingCompany)
	}
	fmt.Fprintf(&b, "- Data: %s\n\n", a.EvaluatedAt.Format("02/01/2006 15:04"))

	fmt.Fprintf(&b, "## Parecer\n\n")
	fmt.Fprintf(&b, "- Resultado: **%s** (confiança %.1f)\n", a.Outcome, a.Confidence)
	if a.DisabilityType != "" {
		fmt.Fprintf(&b, "- Tipo: %s\n", a.DisabilityType.LabelPT())
	}
	if a.Severity != "" {
		fmt.Fprintf(&b, "- Severidade: %s\n", a.Severity)
	}
	if a.RequiresPhysicalEvaluation {
		fmt.Fprintf(&b, "- Requer avaliação presencial\n")
	}
	fmt.Fprintf(&b, "\n%s\n\n", a.TechnicalReasoning)

	appendList(&b, "Limitações Funcionais", a.FunctionalLimitations)
	appendList(&b, "Evidências Clínicas", a.ClinicalEvidence)
	appendList(&b, "Fatores Compensatórios", a.CompensatoryFactors)
	appendList(&b, "Documentação Pendente", a.MissingDocumentation)

	fmt.Fprintf(&b, "## Fundamentação Legal\n\n")
	fmt.Fprintf(&b, "- %s\n", a.LegalJustification.LawReference)
	fmt.Fprintf(&b, "- %s\n", a.LegalJustification.CIFReference)
	fmt.Fprintf(&b, "- %s\n", a.LegalJustification.DecreeReference)
	return b.String()
}

func appendList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}
