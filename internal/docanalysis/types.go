package docanalysis

import "time"

const Disclaimer = "Analise documental automatizada de carater preliminar. " +
	"Nao constitui diagnostico medico nem substitui a avaliacao de equipe multiprofissional. " +
	"A caracterizacao definitiva segue a Lei 13.146/2015 e o Decreto 3.298/1999."

const (
	// MaxDocumentChars caps the text handed to keyword evaluation. Longer
	// extractions are truncated and flagged.
	MaxDocumentChars = 200000
	MaxScore         = 100
)

// DisabilityType is the closed set of legally recognized disability
// categories. MULTIPLE is assigned only by the classifier when evidence for
// two or more base types co-occurs; it never appears in the rule table.
type DisabilityType string

const (
	TypePhysical     DisabilityType = "PHYSICAL"
	TypeIntellectual DisabilityType = "INTELLECTUAL"
	TypeAuditory     DisabilityType = "AUDITORY"
	TypeVisual       DisabilityType = "VISUAL"
	TypeMultiple     DisabilityType = "MULTIPLE"
	TypePsychosocial DisabilityType = "PSYCHOSOCIAL"
	TypeUnidentified DisabilityType = "UNIDENTIFIED"
)

// LabelPT returns the Portuguese label used in rendered documents.
func (t DisabilityType) LabelPT() string {
	switch t {
	case TypePhysical:
		return "Deficiência Física"
	case TypeIntellectual:
		return "Deficiência Intelectual"
	case TypeAuditory:
		return "Deficiência Auditiva"
	case TypeVisual:
		return "Deficiência Visual"
	case TypeMultiple:
		return "Deficiência Múltipla"
	case TypePsychosocial:
		return "Deficiência Psicossocial"
	default:
		return "Não identificada"
	}
}

type QualityTier string

const (
	TierExcellent    QualityTier = "EXCELLENT"
	TierGood         QualityTier = "GOOD"
	TierRegular      QualityTier = "REGULAR"
	TierInsufficient QualityTier = "INSUFFICIENT"
)

// ExtractedDocument is the read-only product of the external extraction
// collaborator. CharacterCount always equals len(RawText).
type ExtractedDocument struct {
	RawText        string `json:"raw_text"`
	PageCount      int    `json:"page_count"`
	CharacterCount int    `json:"character_count"`
}

func NewExtractedDocument(rawText string, pageCount int) ExtractedDocument {
	if pageCount < 0 {
		pageCount = 0
	}
	return ExtractedDocument{RawText: rawText, PageCount: pageCount, CharacterCount: len(rawText)}
}

// EvidenceFlags is the fixed boolean evidence set fed to the completeness
// rubric. Flags are derived from text once per analysis and immutable after.
type EvidenceFlags struct {
	HasMedicalReport       bool `json:"has_medical_report"`
	HasSpecialistReport    bool `json:"has_specialist_report"`
	HasCIDDiagnosis        bool `json:"has_cid_diagnosis"`
	HasValidSignature      bool `json:"has_valid_signature"`
	HasValidProfessionalID bool `json:"has_valid_professional_id"`
	HasComplementaryExams  bool `json:"has_complementary_exams"`
	HasCIFCriteria         bool `json:"has_cif_criteria"`
	TypeDetected           bool `json:"type_detected"`
}

// Classification is the pure output of the keyword classifier.
type Classification struct {
	Type                  DisabilityType `json:"type"`
	MatchedQualifications []string       `json:"matched_qualifications"`
	TypeSpecificGaps      []string       `json:"type_specific_gaps"`
	// MatchedBaseTypes lists every base rule that fired, in rule-table
	// order, regardless of which one won the single-type assignment.
	MatchedBaseTypes []DisabilityType `json:"matched_base_types,omitempty"`
}

type MissingDocuments struct {
	Missing      []string `json:"missing"`
	UrgencyFlags []string `json:"urgency_flags"`
}

// AnalysisResult is the single-use output of one document-analysis
// invocation. It is never mutated after construction.
type AnalysisResult struct {
	CandidateName     string          `json:"candidate_name,omitempty"`
	CandidateCPF      string          `json:"candidate_cpf,omitempty"`
	CompletenessScore int             `json:"completeness_score"`
	DocumentQuality   QualityTier     `json:"document_quality"`
	Evidence          EvidenceFlags   `json:"evidence"`
	DetectedType      DisabilityType  `json:"detected_type"`
	Qualifications    []string        `json:"qualifications,omitempty"`
	MissingDocuments  []string        `json:"missing_documents"`
	UrgencyFlags      []string        `json:"urgency_flags"`
	Recommendations   []string        `json:"recommendations,omitempty"`
	LegalCompliance   LegalCompliance `json:"legal_compliance"`
	PageCount         int             `json:"page_count"`
	CharacterCount    int             `json:"character_count"`
	InputTruncated    bool            `json:"input_truncated,omitempty"`
	AnalyzedAt        time.Time       `json:"analyzed_at"`
	Disclaimer        string          `json:"disclaimer"`
}

// LegalCompliance carries the per-criterion flags reviewers check against
// the legal definition of PCD documentation.
type LegalCompliance struct {
	MeetsLaw13146    bool `json:"meets_law_13146"`
	HasCIDReference  bool `json:"has_cid_reference"`
	HasCRMIdentified bool `json:"has_crm_identified"`
	CIFCompatible    bool `json:"cif_compatible"`
}

// AnalyzeRequest is the envelope accepted by the analysis surface. The PDF
// fetch and extraction happen outside the core; Document carries the result.
type AnalyzeRequest struct {
	CandidateName string            `json:"candidate_name"`
	CandidateCPF  string            `json:"candidate_cpf"`
	ExpectedType  DisabilityType    `json:"expected_deficiency_type,omitempty"`
	Document      ExtractedDocument `json:"document"`
}
