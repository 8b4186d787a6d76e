package laudo

import (
	"time"

	"github.com/incluo/laudo-agency/internal/docanalysis"
	"github.com/incluo/laudo-agency/internal/eligibility"
)

type Prognosis string

const (
	PrognosisTemporary Prognosis = "TEMPORARY"
	PrognosisPermanent Prognosis = "PERMANENT"
)

func (p Prognosis) LabelPT() string {
	if p == PrognosisTemporary {
		return "Temporária"
	}
	return "Permanente"
}

// CandidateInfo identifies the evaluated person. RG, BirthDate and Position
// are optional; their lines are omitted from the rendered document when
// absent.
type CandidateInfo struct {
	Name      string     `json:"name"`
	CPF       string     `json:"cpf"`
	RG        string     `json:"rg,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Position  string     `json:"position,omitempty"`
}

type MedicalInfo struct {
	DeficiencyType docanalysis.DisabilityType `json:"deficiency_type"`
	CID            string                     `json:"cid"`
	Diagnosis      string                     `json:"diagnosis"`
	Prognosis      Prognosis                  `json:"prognosis"`
	Severity       eligibility.SeverityLevel  `json:"severity"`
	Origin         string                     `json:"origin,omitempty"`
}

type FunctionalAssessment struct {
	Limitations           []string `json:"limitations"`
	PreservedFunctions    []string `json:"preserved_functions,omitempty"`
	AdaptiveCapacity      string   `json:"adaptive_capacity,omitempty"`
	AssistiveTechnologies []string `json:"assistive_technologies,omitempty"`
}

type ProfessionalInfo struct {
	Name           string    `json:"name"`
	CRM            string    `json:"crm"`
	Specialization string    `json:"specialization"`
	IssueDate      time.Time `json:"issue_date"`
}

type LegalBasis struct {
	Law13146   bool `json:"law_13146"`
	Decree3298 bool `json:"decree_3298"`
	CIFModel   bool `json:"cif_model"`
}

// Dossier is the confirmed-case bundle required to issue a Laudo
// Caracterizador. The generator is only invoked after confirmation.
type Dossier struct {
	Candidate    CandidateInfo        `json:"candidate"`
	Medical      MedicalInfo          `json:"medical"`
	Functional   FunctionalAssessment `json:"functional"`
	Professional ProfessionalInfo     `json:"professional"`
	LegalBasis   LegalBasis           `json:"legal_basis"`
}

// Classification is the employment-quota classification attached to an
// issued laudo.
type Classification struct {
	PCDStatus        bool     `json:"pcd_status"`
	QuotaEligible    bool     `json:"quota_eligible"`
	WorkRestrictions []string `json:"work_restrictions"`
}

type ValidityPeriod struct {
	IssuedOn   time.Time `json:"issued_on"`
	ValidUntil time.Time `json:"valid_until"`
}

// Report is an issued Laudo Caracterizador. Reports are append-only: a
// regeneration produces a new ID, never an edit.
type Report struct {
	ID               string         `json:"laudo_id"`
	Document         string         `json:"document"`
	Summary          string         `json:"summary"`
	Validity         ValidityPeriod `json:"validity"`
	DigitalSignature string         `json:"digital_signature"`
	IssuedAt         time.Time      `json:"issued_at"`
	Classification   Classification `json:"classification"`
}
