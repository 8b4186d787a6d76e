package docanalysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TypeRule is one entry of the ordered classification table. Rules are
// evaluated first to last; the last rule whose trigger set matches wins the
// single-type assignment. That tie-break is policy, not accident: when more
// than one base type is evidenced the qualifications and exam gaps reflect
// only the winning rule, while the MULTIPLE override is computed separately
// from the match count.
type TypeRule struct {
	Type           DisabilityType
	Triggers       []string
	Qualifications []string
	// ExamTriggers name the mandatory type-specific exams. Empty means the
	// type has no mandatory exam requirement.
	ExamTriggers []string
	ExamGap      string
}

// defaultRules is the compiled-in rule table. All trigger phrases are
// lowercase Portuguese; matching happens on normalized text only.
var defaultRules = []TypeRule{
	{
		Type: TypePhysical,
		Triggers: []string{
			"deficiência física",
			"deficiencia fisica",
			"amputação",
			"amputacao",
			"paraplegia",
			"tetraplegia",
			"paralisia cerebral",
			"nanismo",
			"monoparesia",
			"hemiparesia",
			"ostomia",
			"artrodese",
		},
		Qualifications: []string{"Ortopedia", "Neurologia", "Fisiatria"},
	},
	{
		Type: TypeIntellectual,
		Triggers: []string{
			"deficiência intelectual",
			"deficiencia intelectual",
			"deficiência mental",
			"deficiencia mental",
			"síndrome de down",
			"sindrome de down",
			"transtorno do espectro autista",
			"autismo",
			"funções intelectuais",
			"funcoes intelectuais",
		},
		Qualifications: []string{"Psiquiatria", "Neurologia", "Neuropsicologia"},
	},
	{
		Type: TypeAuditory,
		Triggers: []string{
			"deficiência auditiva",
			"deficiencia auditiva",
			"surdez",
			"perda auditiva",
			"hipoacusia",
			"anacusia",
		},
		Qualifications: []string{"Otorrinolaringologia", "Fonoaudiologia"},
		ExamTriggers: []string{
			"audiometria",
			"bera",
			"potencial evocado auditivo",
			"emissões otoacústicas",
			"emissoes otoacusticas",
		},
		ExamGap: "Exame de audiometria ou potencial evocado auditivo (BERA) não localizado no documento",
	},
	{
		Type: TypeVisual,
		Triggers: []string{
			"deficiência visual",
			"deficiencia visual",
			"cegueira",
			"baixa visão",
			"baixa visao",
			"visão monocular",
			"visao monocular",
			"amaurose",
		},
		Qualifications: []string{"Oftalmologia"},
		ExamTriggers: []string{
			"acuidade visual",
			"campo visual",
			"campimetria",
			"snellen",
		},
		ExamGap: "Exame de acuidade visual ou campimetria não localizado no documento",
	},
	{
		Type: TypePsychosocial,
		Triggers: []string{
			"deficiência psicossocial",
			"deficiencia psicossocial",
			"esquizofrenia",
			"transtorno bipolar",
			"transtorno esquizoafetivo",
			"depressão grave",
			"depressao grave",
		},
		Qualifications: []string{"Psiquiatria", "Psicologia"},
	},
}

// Marker phrase sets used for evidence detection outside the per-type rules.
var (
	medicalReportMarkers = []string{
		"laudo médico",
		"laudo medico",
		"relatório médico",
		"relatorio medico",
		"parecer médico",
		"parecer medico",
		"atestado médico",
		"atestado medico",
	}
	specialistMarkers = []string{
		"especialista",
		"relatório de especialista",
		"relatorio de especialista",
	}
	complementaryExamMarkers = []string{
		"exames complementares",
		"ressonância",
		"ressonancia",
		"tomografia",
		"raio-x",
		"radiografia",
		"eletroencefalograma",
		"eletroneuromiografia",
	}
	cifMarkers = []string{
		"cif",
		"classificação internacional de funcionalidade",
		"classificacao internacional de funcionalidade",
		"funcionalidade",
	}
	signatureMarkers = []string{
		"dr.",
		"dra.",
		"assinatura",
		"médico responsável",
		"medico responsavel",
	}
	limitationMarkers = []string{
		"limitação funcional",
		"limitacao funcional",
		"limitações funcionais",
		"limitacoes funcionais",
		"restrição de participação",
		"restricao de participacao",
		"incapacidade para",
		"dificuldade para",
	}
)

// VocabularyPack is an optional YAML extension of the compiled-in keyword
// sets. Packs only add triggers; they cannot remove rules or change the
// evaluation order, which keeps the tie-break policy stable.
type VocabularyPack struct {
	Types []struct {
		Type         string   `yaml:"type"`
		Triggers     []string `yaml:"triggers"`
		ExamTriggers []string `yaml:"exam_triggers"`
	} `yaml:"types"`
}

// LoadVocabularyPack merges a YAML pack into a copy of the default rule
// table. It is intended to run once at process start; the returned table is
// read-only afterwards.
func LoadVocabularyPack(path string) ([]TypeRule, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary pack: %w", err)
	}
	var pack VocabularyPack
	if err := yaml.Unmarshal(blob, &pack); err != nil {
		return nil, fmt.Errorf("parse vocabulary pack: %w", err)
	}
	rules := CloneRules(defaultRules)
	for _, entry := range pack.Types {
		found := false
		for i := range rules {
			if string(rules[i].Type) != entry.Type {
				continue
			}
			rules[i].Triggers = append(rules[i].Triggers, entry.Triggers...)
			rules[i].ExamTriggers = append(rules[i].ExamTriggers, entry.ExamTriggers...)
			found = true
			break
		}
		if !found {
			return nil, fmt.Errorf("vocabulary pack references unknown type %q", entry.Type)
		}
	}
	return rules, nil
}

// DefaultRules returns a copy of the compiled-in rule table.
func DefaultRules() []TypeRule {
	return CloneRules(defaultRules)
}

func CloneRules(rules []TypeRule) []TypeRule {
	out := make([]TypeRule, len(rules))
	for i, r := range rules {
		out[i] = TypeRule{
			Type:           r.Type,
			Triggers:       append([]string(nil), r.Triggers...),
			Qualifications: append([]string(nil), r.Qualifications...),
			ExamTriggers:   append([]string(nil), r.ExamTriggers...),
			ExamGap:        r.ExamGap,
		}
	}
	return out
}
