package docanalysis

import (
	"strings"
	"testing"
	"time"
)

func TestBuildSummaryMarkdown(t *testing.T) {
	result := AnalysisResult{
		CandidateName:     "Maria Souza",
		CompletenessScore: 85,
		DocumentQuality:   TierExcellent,
		DetectedType:      TypeAuditory,
		Evidence:          EvidenceFlags{HasMedicalReport: true},
		MissingDocuments:  []string{MissingCIDDiagnosis},
		UrgencyFlags:      []string{urgencyMissingCID},
		AnalyzedAt:        time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC),
		Disclaimer:        Disclaimer,
	}
	md := BuildSummaryMarkdown(result)

	for _, want := range []string{
		"**85/100**",
		"Deficiência Auditiva",
		"Laudo médico: presente",
		"Relatório de especialista: ausente",
		MissingCIDDiagnosis,
		Disclaimer,
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}
