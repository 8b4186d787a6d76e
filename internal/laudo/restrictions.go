package laudo

import "github.com/incluo/laudo-agency/internal/docanalysis"

// workRestrictions maps a disability type to the fixed work-restriction
// list carried on the issued laudo. Types without an entry yield an empty
// list; restriction wording is part of the legal deliverable.
var workRestrictions = map[docanalysis.DisabilityType][]string{
	docanalysis.TypePhysical: {
		"Evitar atividades com esforço físico intenso ou levantamento de carga",
		"Garantir acessibilidade física no posto de trabalho",
		"Permitir pausas para mudança de posição",
	},
	docanalysis.TypeVisual: {
		"Evitar atividades que dependam exclusivamente de acuidade visual",
		"Disponibilizar leitor de tela ou material ampliado",
		"Garantir sinalização tátil nos deslocamentos internos",
	},
	docanalysis.TypeAuditory: {
		"Evitar funções que dependam exclusivamente de comunicação sonora",
		"Disponibilizar alarmes visuais e comunicação escrita",
	},
}

// RestrictionsFor returns a copy of the restriction list for the type.
func RestrictionsFor(t docanalysis.DisabilityType) []string {
	r, ok := workRestrictions[t]
	if !ok {
		return []string{}
	}
	return append([]string(nil), r...)
}
