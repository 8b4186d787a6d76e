package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/incluo/laudo-agency/internal/eligibility"
)

var validKinds = map[eligibility.DocumentKind]bool{
	eligibility.KindMedicalReport:      true,
	eligibility.KindSpecialistReport:   true,
	eligibility.KindComplementaryExams: true,
	eligibility.KindMedicalCertificate: true,
	eligibility.KindCIFAssessment:      true,
	eligibility.KindNeuropsychological: true,
	eligibility.KindOther:              true,
}

// Parser turns a free-text description of a candidate's documentation into
// a structured eligibility request.
type Parser struct {
	caller LLMCaller
}

func NewParser(caller LLMCaller) *Parser {
	return &Parser{caller: caller}
}

const parsePromptTemplate = `Analise a descrição abaixo de um caso de caracterização PCD e extraia:
- candidate_name: nome do candidato
- candidate_cpf: CPF do candidato (dígitos e pontuação como informados)
- documentation_provided: lista de documentos, cada um com:
  - type: um de MEDICAL_REPORT, SPECIALIST_REPORT, COMPLEMENTARY_EXAMS, MEDICAL_CERTIFICATE, CIF_ASSESSMENT, NEUROPSYCHOLOGICAL, OTHER
  - content: transcrição ou resumo fiel do conteúdo do documento
  - professional_id: registro profissional (CRM etc.) quando citado
  - specialization: especialidade do emitente quando citada

Descrição do caso:
%s`

// Parse extracts a structured request from the free-text description. The
// returned request is ready for the eligibility engine.
func (p *Parser) Parse(ctx context.Context, description string) (eligibility.Request, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return eligibility.Request{}, fmt.Errorf("empty case description")
	}

	var req eligibility.Request
	prompt := fmt.Sprintf(parsePromptTemplate, description)
	err := runJSON(ctx, p.caller, "intake parse", prompt, &req, func() error {
		return validateRequest(req)
	})
	if err != nil {
		return eligibility.Request{}, err
	}
	return req, nil
}

func validateRequest(req eligibility.Request) error {
	var problems []string
	if strings.TrimSpace(req.CandidateName) == "" {
		problems = append(problems, "candidate_name vazio")
	}
	if cpf := strings.TrimSpace(req.CandidateCPF); cpf != "" && countDigits(cpf) != 11 {
		problems = append(problems, fmt.Sprintf("candidate_cpf com %d dígitos, esperados 11", countDigits(cpf)))
	}
	for i, doc := range req.Documentation {
		if !validKinds[doc.Kind] {
			problems = append(problems, fmt.Sprintf("documentation_provided[%d].type inválido: %q", i, doc.Kind))
		}
		if strings.TrimSpace(doc.Content) == "" {
			problems = append(problems, fmt.Sprintf("documentation_provided[%d].content vazio", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
