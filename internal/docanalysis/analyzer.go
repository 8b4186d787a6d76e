package docanalysis

import (
	"regexp"
	"strings"
	"time"
)

var (
	// CID-10 codes: a chapter letter followed by two digits, optional
	// subdivision (e.g. H90.3). U is skipped to avoid matching provisional
	// codes never used in disability reports.
	cidCodePattern  = regexp.MustCompile(`\b[a-tv-z]\d{2}(\.\d{1,2})?\b`)
	cidLabelPattern = regexp.MustCompile(`\bcid\s*-?\s*10?\b`)
	crmPattern      = regexp.MustCompile(`\bcrm\s*[/:-]?\s*[a-z]{0,2}\s*\.?\s*\d{4,6}\b`)
)

// Analyzer assembles the full document analysis: classification, evidence
// detection, completeness scoring and missing-document resolution. It holds
// only the static rule table and is safe for concurrent use.
type Analyzer struct {
	classifier *Classifier
}

func NewAnalyzer(rules []TypeRule) *Analyzer {
	return &Analyzer{classifier: NewClassifier(rules)}
}

// Analyze never lets an internal fault escape: any panic during evaluation
// degrades to the most conservative result (score 0, INSUFFICIENT, urgency
// flag) so downstream callers always receive a well-typed result.
func (a *Analyzer) Analyze(req AnalyzeRequest) (result AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			result = DegradedResult(req.CandidateName, req.CandidateCPF,
				"Falha interna na análise — revisão manual necessária")
		}
	}()
	return a.analyze(req)
}

func (a *Analyzer) analyze(req AnalyzeRequest) AnalysisResult {
	text := req.Document.RawText
	truncated := false
	if len(text) > MaxDocumentChars {
		text = text[:MaxDocumentChars]
		truncated = true
	}
	if strings.TrimSpace(text) == "" {
		return DegradedResult(req.CandidateName, req.CandidateCPF,
			"Documento sem texto extraível — análise impossível")
	}

	normalized := Normalize(text)
	classification := a.classifier.Classify(text)
	evidence := detectEvidence(normalized, classification)
	score, tier := Score(evidence)
	missing := ResolveMissing(evidence, classification.Type, classification.TypeSpecificGaps, req.ExpectedType)

	result := AnalysisResult{
		CandidateName:     req.CandidateName,
		CandidateCPF:      req.CandidateCPF,
		CompletenessScore: score,
		DocumentQuality:   tier,
		Evidence:          evidence,
		DetectedType:      classification.Type,
		Qualifications:    classification.MatchedQualifications,
		MissingDocuments:  missing.Missing,
		UrgencyFlags:      missing.UrgencyFlags,
		LegalCompliance: LegalCompliance{
			MeetsLaw13146:    evidence.TypeDetected && evidence.HasMedicalReport && evidence.HasCIDDiagnosis,
			HasCIDReference:  evidence.HasCIDDiagnosis,
			HasCRMIdentified: evidence.HasValidProfessionalID,
			CIFCompatible:    evidence.HasCIFCriteria,
		},
		PageCount:      req.Document.PageCount,
		CharacterCount: req.Document.CharacterCount,
		InputTruncated: truncated,
		AnalyzedAt:     time.Now().UTC(),
		Disclaimer:     Disclaimer,
	}
	if tier == TierInsufficient {
		result.Recommendations = append(result.Recommendations,
			"Documentação insuficiente para caracterização — complementar antes de nova análise")
	}
	if len(classification.MatchedQualifications) > 0 && !evidence.HasSpecialistReport {
		result.Recommendations = append(result.Recommendations,
			"Anexar relatório de especialista em "+strings.Join(classification.MatchedQualifications, " ou "))
	}
	return result
}

// detectEvidence scans normalized text for the fixed evidence flag set.
func detectEvidence(normalized string, classification Classification) EvidenceFlags {
	hasCRM := crmPattern.MatchString(normalized)
	specialist := containsAny(normalized, specialistMarkers)
	if !specialist {
		// A named specialization from the winning rule counts as specialist
		// involvement even without the literal word.
		for _, q := range classification.MatchedQualifications {
			if strings.Contains(normalized, strings.ToLower(q)) {
				specialist = true
				break
			}
		}
	}
	return EvidenceFlags{
		HasMedicalReport:       containsAny(normalized, medicalReportMarkers),
		HasSpecialistReport:    specialist,
		HasCIDDiagnosis:        cidLabelPattern.MatchString(normalized) || cidCodePattern.MatchString(normalized),
		HasValidSignature:      hasCRM && containsAny(normalized, signatureMarkers),
		HasValidProfessionalID: hasCRM,
		HasComplementaryExams:  containsAny(normalized, complementaryExamMarkers),
		HasCIFCriteria:         containsAny(normalized, cifMarkers),
		TypeDetected:           classification.Type != TypeUnidentified,
	}
}

// FindCIDCodes returns the distinct CID-10 codes present in the text, in
// order of first appearance.
func FindCIDCodes(text string) []string {
	normalized := Normalize(text)
	seen := map[string]bool{}
	var out []string
	for _, code := range cidCodePattern.FindAllString(normalized, -1) {
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}

// FindLimitationMarkers returns the functional-limitation phrases present in
// the text, in marker-table order.
func FindLimitationMarkers(text string) []string {
	normalized := Normalize(text)
	var out []string
	for _, m := range limitationMarkers {
		if strings.Contains(normalized, m) {
			out = append(out, m)
		}
	}
	return out
}

// DegradedResult is the conservative analysis returned when extraction or
// evaluation failed. The failure is expressed as data, never as an error
// crossing the core boundary.
func DegradedResult(candidateName, candidateCPF, reason string) AnalysisResult {
	return AnalysisResult{
		CandidateName:     candidateName,
		CandidateCPF:      candidateCPF,
		CompletenessScore: 0,
		DocumentQuality:   TierInsufficient,
		DetectedType:      TypeUnidentified,
		MissingDocuments:  []string{MissingMedicalReport},
		UrgencyFlags:      []string{"URGENTE: " + reason},
		Recommendations:   []string{"Reenviar o documento ou encaminhar para revisão manual"},
		AnalyzedAt:        time.Now().UTC(),
		Disclaimer:        Disclaimer,
	}
}
