package intake

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/incluo/laudo-agency/internal/eligibility"
)

type fakeCaller struct {
	responses []string
	errs      []error
	prompts   []string
	i         int
}

func (f *fakeCaller) GenerateJSON(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	idx := f.i
	f.i++
	if idx < len(f.errs) && f.errs[idx] != nil {
		return "", f.errs[idx]
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return "", nil
}

const validIntakeJSON = `{
	"candidate_name": "Maria Souza",
	"candidate_cpf": "123.456.789-00",
	"documentation_provided": [
		{"type": "MEDICAL_REPORT", "content": "Surdez bilateral, CID H90.3, limitação funcional auditiva."},
		{"type": "SPECIALIST_REPORT", "content": "Relatório de Otorrinolaringologia.", "professional_id": "CRM/SP 123456"}
	]
}`

func TestParseStructuresFreeText(t *testing.T) {
	caller := &fakeCaller{responses: []string{validIntakeJSON}}
	p := NewParser(caller)

	req, err := p.Parse(context.Background(), "Candidata Maria Souza apresentou laudo e relatório de especialista.")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if req.CandidateName != "Maria Souza" {
		t.Fatalf("name = %q", req.CandidateName)
	}
	if len(req.Documentation) != 2 {
		t.Fatalf("documentation = %d entries, want 2", len(req.Documentation))
	}
	if req.Documentation[0].Kind != eligibility.KindMedicalReport {
		t.Fatalf("kind = %s", req.Documentation[0].Kind)
	}
}

func TestParsePromptFieldsMatchDecoding(t *testing.T) {
	// The prompt dictates the response shape; a response written exactly to
	// its field names must decode on the first attempt.
	caller := &fakeCaller{responses: []string{validIntakeJSON}}
	p := NewParser(caller)

	req, err := p.Parse(context.Background(), "descrição")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, field := range []string{"candidate_name", "candidate_cpf", "documentation_provided", "type:", "content:", "professional_id:", "specialization:"} {
		if !strings.Contains(caller.prompts[0], field) {
			t.Fatalf("prompt does not name field %q", field)
		}
	}
	if len(caller.prompts) != 1 {
		t.Fatalf("prompt-compliant response took %d attempts, want 1", len(caller.prompts))
	}
	if req.Documentation[0].Kind != eligibility.KindMedicalReport || req.Documentation[1].ProfessionalID == "" {
		t.Fatalf("decoded request dropped prompt fields: %+v", req.Documentation)
	}
}

func TestParseRetriesOnInvalidJSON(t *testing.T) {
	caller := &fakeCaller{responses: []string{"not-json", "```json\n" + validIntakeJSON + "\n```"}}
	p := NewParser(caller)

	req, err := p.Parse(context.Background(), "descrição do caso")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(caller.prompts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(caller.prompts))
	}
	if !strings.Contains(caller.prompts[1], "não era JSON válido") {
		t.Fatalf("retry prompt missing feedback: %q", caller.prompts[1])
	}
	if req.CandidateCPF != "123.456.789-00" {
		t.Fatalf("cpf = %q", req.CandidateCPF)
	}
}

func TestParseRetriesOnValidationFailure(t *testing.T) {
	invalid := `{"candidate_name": "Maria", "documentation_provided": [{"type": "BOGUS", "content": "x"}]}`
	caller := &fakeCaller{responses: []string{invalid, validIntakeJSON}}
	p := NewParser(caller)

	if _, err := p.Parse(context.Background(), "descrição"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(caller.prompts[1], "falhou na validação") {
		t.Fatalf("retry prompt missing validation feedback: %q", caller.prompts[1])
	}
}

func TestParseRejectsMalformedCPF(t *testing.T) {
	short := `{"candidate_name": "Maria", "candidate_cpf": "123.456", "documentation_provided": []}`
	caller := &fakeCaller{responses: []string{short, short, short}}
	p := NewParser(caller)

	_, err := p.Parse(context.Background(), "descrição")
	if err == nil {
		t.Fatal("expected validation failure for malformed CPF")
	}
	if !strings.Contains(err.Error(), "candidate_cpf") {
		t.Fatalf("error does not name the CPF field: %v", err)
	}
}

func TestParseFailsAfterRetries(t *testing.T) {
	caller := &fakeCaller{responses: []string{"a", "b", "c"}}
	p := NewParser(caller)
	if _, err := p.Parse(context.Background(), "descrição"); err == nil {
		t.Fatal("expected parse failure after retries")
	}
}

func TestParseTransportFailure(t *testing.T) {
	boom := errors.New("status code: 500")
	caller := &fakeCaller{errs: []error{boom, boom, boom}}
	p := NewParser(caller)
	if _, err := p.Parse(context.Background(), "descrição"); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestParseRejectsEmptyDescription(t *testing.T) {
	p := NewParser(&fakeCaller{})
	if _, err := p.Parse(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty description")
	}
}

func TestStripCodeFences(t *testing.T) {
	got := stripCodeFences("```json\n{\"a\":1}\n```")
	if got != `{"a":1}` {
		t.Fatalf("stripped = %q", got)
	}
	if got := stripCodeFences(`{"a":1}`); got != `{"a":1}` {
		t.Fatalf("unfenced input altered: %q", got)
	}
}
