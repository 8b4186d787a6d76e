package docanalysis

import "fmt"

// Required-document literals. These strings travel into reports and case
// files; keep them textually stable.
const (
	MissingMedicalReport  = "Laudo médico"
	MissingCIDDiagnosis   = "Diagnóstico com código CID"
	MissingProfessionalID = "Documento com registro profissional (CRM) do emitente"

	RecommendationIdentifyType = "Solicitar laudo que identifique expressamente o tipo de deficiência"

	urgencyMissingCID       = "URGENTE: diagnóstico CID ausente — documento sem validade para caracterização"
	urgencyUnidentifiedType = "URGENTE: tipo de deficiência não identificado na documentação"
)

// ResolveMissing derives the missing/required document list and urgency
// flags. Rules are evaluated independently and the output order follows the
// rule order below. expectedType may be empty when the caller supplied none.
func ResolveMissing(evidence EvidenceFlags, detected DisabilityType, typeSpecificGaps []string, expectedType DisabilityType) MissingDocuments {
	var out MissingDocuments
	if !evidence.HasMedicalReport {
		out.Missing = append(out.Missing, MissingMedicalReport)
	}
	if !evidence.HasCIDDiagnosis {
		out.Missing = append(out.Missing, MissingCIDDiagnosis)
		out.UrgencyFlags = append(out.UrgencyFlags, urgencyMissingCID)
	}
	if !evidence.HasValidProfessionalID {
		out.Missing = append(out.Missing, MissingProfessionalID)
	}
	out.Missing = append(out.Missing, typeSpecificGaps...)
	if detected == TypeUnidentified {
		out.Missing = append(out.Missing, RecommendationIdentifyType)
		out.UrgencyFlags = append(out.UrgencyFlags, urgencyUnidentifiedType)
	}
	if expectedType != "" && detected != TypeUnidentified && expectedType != detected {
		out.UrgencyFlags = append(out.UrgencyFlags, fmt.Sprintf(
			"Divergência: tipo esperado %s, tipo detectado %s", expectedType, detected))
	}
	return out
}
