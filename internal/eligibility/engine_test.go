package eligibility

import (
	"reflect"
	"strings"
	"testing"

	"github.com/incluo/laudo-agency/internal/docanalysis"
)

func TestDecideConfirmed(t *testing.T) {
	e := NewEngine(nil)
	docs := []StructuredDocumentEntry{
		{
			Kind:           KindMedicalReport,
			Content:        "Laudo médico: amputação transtibial direita, CID S88.1, com limitação funcional para deambulação.",
			ProfessionalID: "CRM/SP 123456",
		},
		{
			Kind:           KindSpecialistReport,
			Content:        "Relatório de Ortopedia confirma o quadro e a dificuldade para longas caminhadas.",
			Specialization: "Ortopedia",
		},
	}

	a := e.Decide(docs)
	if a.Outcome != OutcomeConfirmed {
		t.Fatalf("outcome = %s, want CONFIRMED (%s)", a.Outcome, a.TechnicalReasoning)
	}
	if a.Confidence != 0.8 {
		t.Fatalf("confidence = %v, want 0.8", a.Confidence)
	}
	if a.DisabilityType != docanalysis.TypePhysical {
		t.Fatalf("type = %s, want PHYSICAL", a.DisabilityType)
	}
	if a.Severity != SeverityModerate {
		t.Fatalf("severity = %s, want MODERATE", a.Severity)
	}
	if len(a.FunctionalLimitations) == 0 {
		t.Fatal("expected functional limitation findings")
	}
	if len(a.MissingDocumentation) != 0 {
		t.Fatalf("missing = %v, want none", a.MissingDocumentation)
	}
}

func TestDecideIncompleteDocumentation(t *testing.T) {
	e := NewEngine(nil)
	docs := []StructuredDocumentEntry{
		{Kind: KindMedicalReport, Content: "Laudo médico: surdez bilateral, CID H90.3, limitação funcional para comunicação oral."},
	}

	a := e.Decide(docs)
	if a.Outcome != OutcomeIndeterminate {
		t.Fatalf("outcome = %s, want INDETERMINATE", a.Outcome)
	}
	if a.Confidence != 0.3 {
		t.Fatalf("confidence = %v, want 0.3", a.Confidence)
	}
	if !reflect.DeepEqual(a.MissingDocumentation, []string{requiredSpecialistReport}) {
		t.Fatalf("missing = %v, want the specialist report", a.MissingDocumentation)
	}
	// The detected type is still reported even when the decision is
	// suspended for incompleteness.
	if a.DisabilityType != docanalysis.TypeAuditory {
		t.Fatalf("type = %s, want AUDITORY", a.DisabilityType)
	}
}

func TestDecideNoDocumentsRejects(t *testing.T) {
	e := NewEngine(nil)
	a := e.Decide(nil)

	if a.Outcome != OutcomeRejected {
		t.Fatalf("outcome = %s, want REJECTED", a.Outcome)
	}
	if a.Confidence != 0.7 {
		t.Fatalf("confidence = %v, want 0.7", a.Confidence)
	}
	if len(a.MissingDocumentation) != 0 {
		t.Fatalf("missing = %v, want none on the empty request", a.MissingDocumentation)
	}
}

func TestDecideTypeWithoutLimitation(t *testing.T) {
	e := NewEngine(nil)
	docs := []StructuredDocumentEntry{
		{Kind: KindMedicalReport, Content: "Laudo médico: paraplegia, CID G82.2."},
		{Kind: KindSpecialistReport, Content: "Relatório de Neurologia confirma paraplegia."},
	}

	a := e.Decide(docs)
	if a.Outcome != OutcomeIndeterminate {
		t.Fatalf("outcome = %s, want INDETERMINATE", a.Outcome)
	}
	if a.Confidence != 0.6 {
		t.Fatalf("confidence = %v, want 0.6", a.Confidence)
	}
	if !a.RequiresPhysicalEvaluation {
		t.Fatal("expected physical evaluation requirement")
	}
	if a.DisabilityType != docanalysis.TypePhysical {
		t.Fatalf("type = %s, want PHYSICAL", a.DisabilityType)
	}
}

func TestDecideDocumentsWithoutDisabilityEvidence(t *testing.T) {
	e := NewEngine(nil)
	docs := []StructuredDocumentEntry{
		{Kind: KindMedicalReport, Content: "Atestado de saúde ocupacional sem restrições."},
		{Kind: KindSpecialistReport, Content: "Avaliação clínica dentro da normalidade."},
	}

	a := e.Decide(docs)
	if a.Outcome != OutcomeRejected {
		t.Fatalf("outcome = %s, want REJECTED", a.Outcome)
	}
	if a.Confidence != 0.7 {
		t.Fatalf("confidence = %v, want 0.7", a.Confidence)
	}
}

func TestDecideClinicalEvidenceCollection(t *testing.T) {
	e := NewEngine(nil)
	docs := []StructuredDocumentEntry{
		{Kind: KindMedicalReport, Content: "Laudo médico: surdez, CID H90.3, limitação funcional auditiva. Usa aparelho auditivo."},
		{Kind: KindSpecialistReport, Content: "Relatório de Otorrinolaringologia."},
		{Kind: KindComplementaryExams, Content: "Audiometria tonal anexa."},
	}

	a := e.Decide(docs)
	foundCID := false
	foundExams := false
	for _, ev := range a.ClinicalEvidence {
		if strings.Contains(ev, "h90.3") {
			foundCID = true
		}
		if strings.Contains(ev, "Exames complementares") {
			foundExams = true
		}
	}
	if !foundCID {
		t.Fatalf("CID evidence missing: %v", a.ClinicalEvidence)
	}
	if !foundExams {
		t.Fatalf("complementary exam evidence missing: %v", a.ClinicalEvidence)
	}
	if len(a.CompensatoryFactors) != 1 || !strings.Contains(a.CompensatoryFactors[0], "aparelho auditivo") {
		t.Fatalf("compensatory factors = %v", a.CompensatoryFactors)
	}
}

func TestDecideFixedLegalJustification(t *testing.T) {
	e := NewEngine(nil)
	a := e.Decide(nil)
	if a.LegalJustification != fixedJustification {
		t.Fatalf("legal justification drifted: %+v", a.LegalJustification)
	}
	if !strings.Contains(a.LegalJustification.LawReference, "13.146/2015") {
		t.Fatalf("law reference = %q", a.LegalJustification.LawReference)
	}
}

func TestDecideRecoversFromPanic(t *testing.T) {
	e := NewEngine(nil)
	e.classify = func(string) docanalysis.Classification {
		panic("rule table corrupted")
	}
	docs := []StructuredDocumentEntry{
		{Kind: KindMedicalReport, Content: "Laudo médico qualquer."},
	}

	a := e.Decide(docs)
	if a.Outcome != OutcomeIndeterminate {
		t.Fatalf("outcome = %s, want INDETERMINATE", a.Outcome)
	}
	if a.Confidence != 0.1 {
		t.Fatalf("confidence = %v, want 0.1", a.Confidence)
	}
	if !a.RequiresPhysicalEvaluation {
		t.Fatal("degraded assessment must require physical evaluation")
	}
	if !reflect.DeepEqual(a.MissingDocumentation, []string{manualReviewEntry}) {
		t.Fatalf("missing = %v", a.MissingDocumentation)
	}
}
