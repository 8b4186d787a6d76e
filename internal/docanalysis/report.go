package docanalysis

import (
	"fmt"
	"strings"
)

// BuildSummaryMarkdown renders an operator-facing summary of one analysis.
// The canonical legal document is the Laudo Caracterizador; this summary
// only exists for case-worker review and PDF export.
func BuildSummaryMarkdown(result AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Análise de Documentação PCD\n\n")
	if result.CandidateName != "" {
		fmt.Fprintf(&b, "- Candidato: %s\n", result.CandidateName)
	}
	if result.CandidateCPF != "" {
		fmt.Fprintf(&b, "- CPF: %s\n", result.CandidateCPF)
	}
	fmt.Fprintf(&b, "- Data da análise: %s\n\n", result.AnalyzedAt.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "%s\n\n", result.Disclaimer)

	fmt.Fprintf(&b, "## Resultado\n\n")
	fmt.Fprintf(&b, "- Completude: **%d/100** (%s)\n", result.CompletenessScore, result.DocumentQuality)
	fmt.Fprintf(&b, "- Tipo detectado: **%s**\n", result.DetectedType.LabelPT())
	if len(result.Qualifications) > 0 {
		fmt.Fprintf(&b, "- Especialidades implicadas: %s\n", strings.Join(result.Qualifications, ", "))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Evidências\n\n")
	appendEvidenceLine(&b, "Laudo médico", result.Evidence.HasMedicalReport)
	appendEvidenceLine(&b, "Relatório de especialista", result.Evidence.HasSpecialistReport)
	appendEvidenceLine(&b, "Diagnóstico CID", result.Evidence.HasCIDDiagnosis)
	appendEvidenceLine(&b, "Assinatura com CRM", result.Evidence.HasValidSignature)
	appendEvidenceLine(&b, "Registro profissional (CRM)", result.Evidence.HasValidProfessionalID)
	appendEvidenceLine(&b, "Exames complementares", result.Evidence.HasComplementaryExams)
	appendEvidenceLine(&b, "Critérios CIF", result.Evidence.HasCIFCriteria)
	b.WriteString("\n")

	if len(result.MissingDocuments) > 0 {
		fmt.Fprintf(&b, "## Documentação Pendente\n\n")
		for _, m := range result.MissingDocuments {
			fmt.Fprintf(&b, "- %s\n", m)
		}
		b.WriteString("\n")
	}
	if len(result.UrgencyFlags) > 0 {
		fmt.Fprintf(&b, "## Alertas\n\n")
		for _, u := range result.UrgencyFlags {
			fmt.Fprintf(&b, "- %s\n", u)
		}
		b.WriteString("\n")
	}
	if len(result.Recommendations) > 0 {
		fmt.Fprintf(&b, "## Recomendações\n\n")
		for _, r := range result.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func appendEvidenceLine(b *strings.Builder, label string, present bool) {
	mark := "ausente"
	if present {
		mark = "presente"
	}
	fmt.Fprintf(b, "- %s: %s\n", label, mark)
}
