package eligibility

import (
	"fmt"
	"strings"
	"time"

	"github.com/incluo/laudo-agency/internal/docanalysis"
)

// Required-document literals for the decision step. Distinct from the
// analysis-side list: here absence is judged from document kind tags, not
// from text evidence.
const (
	requiredMedicalReport    = "Laudo médico"
	requiredSpecialistReport = "Relatório de especialista"

	manualReviewEntry = "Revisão manual necessária — falha interna na avaliação automática"
)

// fixedJustification is identical across all assessments. The citations are
// the legal basis of the PCD characterization and must stay verbatim.
var fixedJustification = LegalJustification{
	LawReference:    "Lei nº 13.146/2015, Art. 2º — conceito legal de pessoa com deficiência",
	CIFReference:    "Modelo biopsicossocial da Classificação Internacional de Funcionalidade (CIF/OMS)",
	DecreeReference: "Decreto nº 3.298/1999 — regulamenta a Política Nacional para a Integração da Pessoa Portadora de Deficiência",
}

// Engine derives an eligibility outcome from structured documentation. It
// holds only the static rule table; Decide is safe to call concurrently.
type Engine struct {
	classifier *docanalysis.Classifier

	// classify is a seam for tests exercising the degraded path.
	classify func(text string) docanalysis.Classification
}

func NewEngine(rules []docanalysis.TypeRule) *Engine {
	c := docanalysis.NewClassifier(rules)
	return &Engine{classifier: c, classify: c.Classify}
}

// Decide runs the decision table over the supplied documentation. Internal
// faults never propagate: the engine recovers into the lowest-confidence
// INDETERMINATE assessment flagged for manual review.
func (e *Engine) Decide(docs []StructuredDocumentEntry) (assessment Assessment) {
	defer func() {
		if r := recover(); r != nil {
			assessment = degradedAssessment()
		}
	}()
	return e.decide(docs)
}

func (e *Engine) decide(docs []StructuredDocumentEntry) Assessment {
	hasMedicalReport := false
	hasSpecialistReport := false
	hasComplementaryExams := false
	for _, d := range docs {
		switch d.Kind {
		case KindMedicalReport:
			hasMedicalReport = true
		case KindSpecialistReport:
			hasSpecialistReport = true
		case KindComplementaryExams:
			hasComplementaryExams = true
		}
	}

	detected := docanalysis.TypeUnidentified
	var limitations []string
	var evidence []string
	for _, d := range docs {
		classification := e.classify(d.Content)
		if classification.Type != docanalysis.TypeUnidentified {
			detected = classification.Type
		}
		markers := docanalysis.FindLimitationMarkers(d.Content)
		if len(markers) > 0 {
			limitations = append(limitations, limitationFinding(classification.Type))
		}
		for _, m := range markers {
			evidence = append(evidence, fmt.Sprintf("Menção a %q em %s", m, d.Kind))
		}
		for _, code := range docanalysis.FindCIDCodes(d.Content) {
			evidence = append(evidence, "Código CID identificado: "+code)
		}
	}

	if hasComplementaryExams {
		evidence = append(evidence, "Exames complementares anexados à documentação")
	}

	// The missing list covers incomplete documentation only. When nothing
	// was supplied at all the request falls through to rejection rather
	// than an indeterminate completeness gap.
	var missing []string
	if len(docs) > 0 {
		if !hasMedicalReport {
			missing = append(missing, requiredMedicalReport)
		}
		if !hasSpecialistReport {
			missing = append(missing, requiredSpecialistReport)
		}
	}

	assessment := Assessment{
		LegalJustification:    fixedJustification,
		FunctionalLimitations: limitations,
		ClinicalEvidence:      evidence,
		CompensatoryFactors:   compensatoryFactors(docs),
		MissingDocumentation:  missing,
		EvaluatedAt:           time.Now().UTC(),
	}

	// Decision table, first matching branch wins.
	switch {
	case len(missing) > 0:
		assessment.Outcome = OutcomeIndeterminate
		assessment.Confidence = 0.3
		if detected != docanalysis.TypeUnidentified {
			assessment.DisabilityType = detected
		}
	case detected != docanalysis.TypeUnidentified && len(limitations) > 0:
		assessment.Outcome = OutcomeConfirmed
		assessment.Confidence = 0.8
		assessment.DisabilityType = detected
		assessment.Severity = SeverityModerate
	case len(docs) > 0 && detected != docanalysis.TypeUnidentified:
		assessment.Outcome = OutcomeIndeterminate
		assessment.Confidence = 0.6
		assessment.DisabilityType = detected
		assessment.RequiresPhysicalEvaluation = true
	default:
		assessment.Outcome = OutcomeRejected
		assessment.Confidence = 0.7
	}

	assessment.TechnicalReasoning = technicalReasoning(assessment)
	return assessment
}

// compensatoryMarkers name assistive resources whose mention counts as a
// compensatory factor in the bio-psycho-social reading.
var compensatoryMarkers = []string{
	"prótese",
	"protese",
	"órtese",
	"ortese",
	"aparelho auditivo",
	"implante coclear",
	"tecnologia assistiva",
	"cão-guia",
	"cao-guia",
}

func compensatoryFactors(docs []StructuredDocumentEntry) []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range docs {
		normalized := docanalysis.Normalize(d.Content)
		for _, m := range compensatoryMarkers {
			if seen[m] {
				continue
			}
			if strings.Contains(normalized, m) {
				seen[m] = true
				out = append(out, "Recurso compensatório mencionado: "+m)
			}
		}
	}
	return out
}

func limitationFinding(t docanalysis.DisabilityType) string {
	if t == docanalysis.TypeUnidentified {
		return "Limitação funcional relatada na documentação"
	}
	return fmt.Sprintf("Limitação funcional relatada associada a %s", t.LabelPT())
}

// technicalReasoning selects the outcome template and interpolates the
// detected type, documentation gaps and the physical-evaluation flag.
func technicalReasoning(a Assessment) string {
	switch a.Outcome {
	case OutcomeConfirmed:
		return fmt.Sprintf(
			"Documentação apresenta evidência de %s com limitação funcional relatada, atendendo ao conceito do Art. 2º da Lei 13.146/2015. Severidade estimada: %s.",
			a.DisabilityType.LabelPT(), a.Severity)
	case OutcomeRejected:
		return "Documentação apresentada não evidencia deficiência nos termos da Lei 13.146/2015. Nova avaliação possível mediante documentação complementar."
	default:
		if a.RequiresPhysicalEvaluation {
			return fmt.Sprintf(
				"Evidência de %s sem relato de limitação funcional. Caracterização depende de avaliação presencial por equipe multiprofissional.",
				a.DisabilityType.LabelPT())
		}
		if len(a.MissingDocumentation) > 0 {
			return fmt.Sprintf(
				"Documentação incompleta (%d item(ns) pendente(s)). Decisão suspensa até complementação.",
				len(a.MissingDocumentation))
		}
		return "Avaliação inconclusiva — encaminhar para revisão manual."
	}
}

func degradedAssessment() Assessment {
	return Assessment{
		Outcome:                    OutcomeIndeterminate,
		Confidence:                 0.1,
		LegalJustification:         fixedJustification,
		MissingDocumentation:       []string{manualReviewEntry},
		TechnicalReasoning:         "Falha interna durante a avaliação automática. Resultado conservador emitido; revisão manual obrigatória.",
		RequiresPhysicalEvaluation: true,
		EvaluatedAt:                time.Now().UTC(),
	}
}
