package eligibility

import (
	"time"

	"github.com/incluo/laudo-agency/internal/docanalysis"
)

// DocumentKind tags a structured documentation entry supplied by the
// requesting company or case worker.
type DocumentKind string

const (
	KindMedicalReport      DocumentKind = "MEDICAL_REPORT"
	KindSpecialistReport   DocumentKind = "SPECIALIST_REPORT"
	KindComplementaryExams DocumentKind = "COMPLEMENTARY_EXAMS"
	KindMedicalCertificate DocumentKind = "MEDICAL_CERTIFICATE"
	KindCIFAssessment      DocumentKind = "CIF_ASSESSMENT"
	KindNeuropsychological DocumentKind = "NEUROPSYCHOLOGICAL"
	KindOther              DocumentKind = "OTHER"
)

// StructuredDocumentEntry is a request-scoped input, read-only to the core.
type StructuredDocumentEntry struct {
	Kind           DocumentKind `json:"type"`
	Content        string       `json:"content"`
	IssueDate      *time.Time   `json:"issue_date,omitempty"`
	ProfessionalID string       `json:"professional_id,omitempty"`
	Specialization string       `json:"specialization,omitempty"`
}

type Outcome string

const (
	OutcomeConfirmed     Outcome = "CONFIRMED"
	OutcomeRejected      Outcome = "REJECTED"
	OutcomeIndeterminate Outcome = "INDETERMINATE"
)

// SeverityLevel is only meaningful when the outcome is CONFIRMED.
type SeverityLevel string

const (
	SeverityMild       SeverityLevel = "MILD"
	SeverityModerate   SeverityLevel = "MODERATE"
	SeveritySevere     SeverityLevel = "SEVERE"
	SeverityVerySevere SeverityLevel = "VERY_SEVERE"
)

// LegalJustification is the fixed citation bundle attached to every
// assessment. The wording is part of the legal deliverable; keep it verbatim.
type LegalJustification struct {
	LawReference    string `json:"law_reference"`
	CIFReference    string `json:"cif_reference"`
	DecreeReference string `json:"decree_reference"`
}

// Assessment is the single-use output of one eligibility decision.
type Assessment struct {
	Outcome                    Outcome                    `json:"outcome"`
	Confidence                 float64                    `json:"confidence"`
	DisabilityType             docanalysis.DisabilityType `json:"disability_type,omitempty"`
	Severity                   SeverityLevel              `json:"severity,omitempty"`
	FunctionalLimitations      []string                   `json:"functional_limitations"`
	CompensatoryFactors        []string                   `json:"compensatory_factors"`
	LegalJustification         LegalJustification         `json:"legal_justification"`
	ClinicalEvidence           []string                   `json:"clinical_evidence"`
	MissingDocumentation       []string                   `json:"missing_documentation"`
	TechnicalReasoning         string                     `json:"technical_reasoning"`
	RequiresPhysicalEvaluation bool                       `json:"requires_physical_evaluation"`
	EvaluatedAt                time.Time                  `json:"evaluated_at"`
}

// Request is the envelope accepted by the evaluation surface.
type Request struct {
	CandidateName       string                    `json:"candidate_name"`
	CandidateCPF        string                    `json:"candidate_cpf"`
	Documentation       []StructuredDocumentEntry `json:"documentation_provided"`
	RequestingCompany   string                    `json:"requesting_company,omitempty"`
	UrgencyLevel        string                    `json:"urgency_level,omitempty"`
	PreviousEvaluations []string                  `json:"previous_evaluations,omitempty"`
}
