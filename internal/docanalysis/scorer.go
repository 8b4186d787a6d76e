package docanalysis

// Scoring rubric. Fixed weights, additive, capped at MaxScore. Reviewers
// depend on these exact values for golden-output compatibility; do not
// rebalance without coordinating with the legal team.
const (
	pointsMedicalReport    = 20
	pointsSpecialistReport = 20
	pointsCIDDiagnosis     = 10
	pointsValidSignature   = 10
	pointsProfessionalID   = 10
	pointsTypeIdentified   = 15
	pointsCIFCriteria      = 5
	pointsComplementary    = 10
)

// Tier thresholds, inclusive lower bounds.
const (
	tierExcellentMin = 85
	tierGoodMin      = 70
	tierRegularMin   = 50
)

// Score applies the completeness rubric over the evidence flags.
func Score(evidence EvidenceFlags) (int, QualityTier) {
	score := 0
	if evidence.HasMedicalReport {
		score += pointsMedicalReport
	}
	if evidence.HasSpecialistReport {
		score += pointsSpecialistReport
	}
	if evidence.HasCIDDiagnosis {
		score += pointsCIDDiagnosis
	}
	if evidence.HasValidSignature {
		score += pointsValidSignature
	}
	if evidence.HasValidProfessionalID {
		score += pointsProfessionalID
	}
	if evidence.TypeDetected {
		score += pointsTypeIdentified
	}
	if evidence.HasCIFCriteria {
		score += pointsCIFCriteria
	}
	if evidence.HasComplementaryExams {
		score += pointsComplementary
	}
	if score > MaxScore {
		score = MaxScore
	}
	return score, TierFor(score)
}

// TierFor maps a completeness score to its quality tier.
func TierFor(score int) QualityTier {
	switch {
	case score >= tierExcellentMin:
		return TierExcellent
	case score >= tierGoodMin:
		return TierGood
	case score >= tierRegularMin:
		return TierRegular
	default:
		return TierInsufficient
	}
}
