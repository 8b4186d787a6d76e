package laudo

import (
	"strings"
	"testing"
	"time"

	"github.com/incluo/laudo-agency/internal/docanalysis"
	"github.com/incluo/laudo-agency/internal/eligibility"
)

func fixedGenerator(now time.Time) *Generator {
	return &Generator{
		now:      func() time.Time { return now },
		newToken: func() string { return "ABCD1234" },
	}
}

func confirmedDossier() Dossier {
	birth := time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC)
	return Dossier{
		Candidate: CandidateInfo{
			Name:      "Maria Souza",
			CPF:       "123.456.789-00",
			RG:        "12.345.678-9",
			BirthDate: &birth,
			Position:  "Analista administrativa",
		},
		Medical: MedicalInfo{
			DeficiencyType: docanalysis.TypeAuditory,
			CID:            "H90.3",
			Diagnosis:      "Surdez neurossensorial bilateral",
			Prognosis:      PrognosisPermanent,
			Severity:       eligibility.SeveritySevere,
		},
		Functional: FunctionalAssessment{
			Limitations:           []string{"Comunicação oral limitada em ambientes ruidosos"},
			AssistiveTechnologies: []string{"Aparelho auditivo bilateral"},
		},
		Professional: ProfessionalInfo{
			Name:           "Dr. João Medeiros",
			CRM:            "CRM/SP 123456",
			Specialization: "Otorrinolaringologia",
			IssueDate:      time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		},
		LegalBasis: LegalBasis{Law13146: true, Decree3298: true, CIFModel: true},
	}
}

func TestGenerateIdentifierFormat(t *testing.T) {
	g := fixedGenerator(time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC))
	report := g.Generate(confirmedDossier())

	if report.ID != "LAUDO-ABCD1234-12345678900" {
		t.Fatalf("id = %q", report.ID)
	}
	if len(report.DigitalSignature) != 16 {
		t.Fatalf("signature length = %d, want 16 hex chars", len(report.DigitalSignature))
	}
	if report.DigitalSignature != strings.ToUpper(report.DigitalSignature) {
		t.Fatalf("signature not uppercase: %q", report.DigitalSignature)
	}
}

func TestGenerateValidityWindow(t *testing.T) {
	g := fixedGenerator(time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC))
	report := g.Generate(confirmedDossier())

	wantIssued := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	if !report.Validity.IssuedOn.Equal(wantIssued) {
		t.Fatalf("issued on = %s, want professional issue date", report.Validity.IssuedOn)
	}
	if !report.Validity.ValidUntil.Equal(wantIssued.AddDate(2, 0, 0)) {
		t.Fatalf("valid until = %s, want issue +2y", report.Validity.ValidUntil)
	}
}

func TestGenerateDocumentSections(t *testing.T) {
	g := fixedGenerator(time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC))
	report := g.Generate(confirmedDossier())

	for _, section := range []string{
		"LAUDO CARACTERIZADOR DE DEFICIENCIA",
		headerIdentification,
		headerCandidate,
		headerMedical,
		headerFunctional,
		headerConclusion,
		headerLegal,
		headerProfessional,
	} {
		if !strings.Contains(report.Document, section) {
			t.Fatalf("document missing section %q", section)
		}
	}
	// The section sequence is part of the legal template, not a layout choice.
	prev := -1
	for _, section := range []string{
		headerIdentification,
		headerCandidate,
		headerMedical,
		headerFunctional,
		headerConclusion,
		headerLegal,
		headerProfessional,
	} {
		pos := strings.Index(report.Document, section)
		if pos <= prev {
			t.Fatalf("section %q out of order at %d (previous at %d)", section, pos, prev)
		}
		prev = pos
	}
	for _, citation := range []string{citationLaw13146, citationDecree3298, citationCIF} {
		if !strings.Contains(report.Document, citation) {
			t.Fatalf("document missing citation %q", citation)
		}
	}
	if !strings.Contains(report.Document, "20/08/2026") {
		t.Fatal("issue date not rendered in dd/mm/yyyy")
	}
}

func TestGenerateOmitsAbsentOptionalLines(t *testing.T) {
	d := confirmedDossier()
	d.Candidate.RG = ""
	d.Candidate.BirthDate = nil
	d.Candidate.Position = ""
	d.Medical.Origin = ""

	g := fixedGenerator(time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC))
	report := g.Generate(d)

	for _, label := range []string{"RG:", "Data de nascimento:", "Cargo pretendido:", "Origem:"} {
		if strings.Contains(report.Document, label) {
			t.Fatalf("optional line %q rendered for absent value", label)
		}
	}
}

func TestGenerateLegalCitationsGated(t *testing.T) {
	d := confirmedDossier()
	d.LegalBasis = LegalBasis{Law13146: true}

	g := fixedGenerator(time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC))
	report := g.Generate(d)

	if !strings.Contains(report.Document, citationLaw13146) {
		t.Fatal("law citation missing")
	}
	if strings.Contains(report.Document, citationDecree3298) || strings.Contains(report.Document, citationCIF) {
		t.Fatal("ungated citation rendered")
	}
}

func TestGenerateClassification(t *testing.T) {
	g := fixedGenerator(time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC))
	report := g.Generate(confirmedDossier())

	if !report.Classification.PCDStatus || !report.Classification.QuotaEligible {
		t.Fatalf("classification = %+v", report.Classification)
	}
	if len(report.Classification.WorkRestrictions) != 2 {
		t.Fatalf("restrictions = %v, want the auditory pair", report.Classification.WorkRestrictions)
	}
}

func TestGenerateDeterministicSignature(t *testing.T) {
	now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	first := fixedGenerator(now).Generate(confirmedDossier())
	second := fixedGenerator(now).Generate(confirmedDossier())
	if first.DigitalSignature != second.DigitalSignature {
		t.Fatalf("signature not deterministic: %q vs %q", first.DigitalSignature, second.DigitalSignature)
	}
}

func TestGenerateRecoversFromPanic(t *testing.T) {
	g := &Generator{
		now:      func() time.Time { return time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC) },
		newToken: func() string { panic("token source unavailable") },
	}
	report := g.Generate(confirmedDossier())

	if report.ID != InvalidID {
		t.Fatalf("id = %q, want %q", report.ID, InvalidID)
	}
	if report.Classification.PCDStatus || report.Classification.QuotaEligible {
		t.Fatalf("invalid report must not confer status: %+v", report.Classification)
	}
	if !strings.Contains(report.Document, "LAUDO INVALIDO") {
		t.Fatalf("invalid report body = %q", report.Document)
	}
}

func TestRestrictionsForUnmappedType(t *testing.T) {
	if got := RestrictionsFor(docanalysis.TypeIntellectual); len(got) != 0 {
		t.Fatalf("restrictions = %v, want empty", got)
	}
	got := RestrictionsFor(docanalysis.TypePhysical)
	got[0] = "mutated"
	if RestrictionsFor(docanalysis.TypePhysical)[0] == "mutated" {
		t.Fatal("RestrictionsFor returned shared backing array")
	}
}
