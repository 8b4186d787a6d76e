package laudo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Section headers of the Laudo Caracterizador. The plain ASCII spelling,
// wording and order are part of the legal instrument; never reformat them.
const (
	headerIdentification = "IDENTIFICACAO DO LAUDO"
	headerCandidate      = "DADOS DO AVALIADO"
	headerMedical        = "INFORMACOES MEDICAS"
	headerFunctional     = "AVALIACAO FUNCIONAL"
	headerConclusion     = "CONCLUSAO TECNICA"
	headerLegal          = "FUNDAMENTACAO LEGAL"
	headerProfessional   = "RESPONSAVEL TECNICO"

	citationLaw13146   = "Lei nº 13.146/2015 (Estatuto da Pessoa com Deficiência), Art. 2º"
	citationDecree3298 = "Decreto nº 3.298/1999, Arts. 3º e 4º"
	citationCIF        = "Classificação Internacional de Funcionalidade, Incapacidade e Saúde (CIF/OMS)"

	// InvalidID marks a report that failed generation. Such reports carry
	// pcd_status=false and an explanatory body instead of the template.
	InvalidID = "LAUDO-INVALIDO"

	validityYears = 2
	dateLayout    = "02/01/2006"
)

// Generator issues Laudo Caracterizador reports. The clock and token seams
// exist for deterministic tests; production uses the defaults.
type Generator struct {
	now      func() time.Time
	newToken func() string
}

func NewGenerator() *Generator {
	return &Generator{
		now:      time.Now,
		newToken: func() string { return strings.ToUpper(uuid.NewString()[:8]) },
	}
}

// Generate renders the laudo for a confirmed case. Internal faults never
// propagate: the caller receives a clearly-marked invalid report instead.
func (g *Generator) Generate(d Dossier) (report Report) {
	defer func() {
		if r := recover(); r != nil {
			report = invalidReport(g.now().UTC())
		}
	}()
	return g.generate(d)
}

func (g *Generator) generate(d Dossier) Report {
	issuedAt := g.now().UTC()
	issueDate := d.Professional.IssueDate
	if issueDate.IsZero() {
		issueDate = issuedAt
	}
	validity := ValidityPeriod{
		IssuedOn:   issueDate,
		ValidUntil: issueDate.AddDate(validityYears, 0, 0),
	}

	id := fmt.Sprintf("LAUDO-%s-%s", g.newToken(), digitsOnly(d.Candidate.CPF))
	signature := traceabilityToken(id, d.Candidate.CPF, issuedAt)
	restrictions := RestrictionsFor(d.Medical.DeficiencyType)

	return Report{
		ID:               id,
		Document:         renderDocument(d, id, validity, signature),
		Summary:          renderSummary(d, validity),
		Validity:         validity,
		DigitalSignature: signature,
		IssuedAt:         issuedAt,
		Classification: Classification{
			PCDStatus:        true,
			QuotaEligible:    true,
			WorkRestrictions: restrictions,
		},
	}
}

func renderDocument(d Dossier, id string, validity ValidityPeriod, signature string) string {
	var b strings.Builder
	line := func(format string, args ...any) { fmt.Fprintf(&b, format+"\n", args...) }
	optional := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			line("%s: %s", label, value)
		}
	}

	line("LAUDO CARACTERIZADOR DE DEFICIENCIA")
	line("")
	line(headerIdentification)
	line("Numero: %s", id)
	line("Data de emissao: %s", validity.IssuedOn.Format(dateLayout))
	line("Valido ate: %s", validity.ValidUntil.Format(dateLayout))
	line("")

	line(headerCandidate)
	line("Nome: %s", d.Candidate.Name)
	line("CPF: %s", d.Candidate.CPF)
	optional("RG", d.Candidate.RG)
	if d.Candidate.BirthDate != nil {
		line("Data de nascimento: %s", d.Candidate.BirthDate.Format(dateLayout))
	}
	optional("Cargo pretendido", d.Candidate.Position)
	line("")

	line(headerMedical)
	line("Tipo de deficiencia: %s", d.Medical.DeficiencyType.LabelPT())
	line("CID: %s", d.Medical.CID)
	line("Diagnostico: %s", d.Medical.Diagnosis)
	line("Prognostico: %s", d.Medical.Prognosis.LabelPT())
	line("Severidade: %s", d.Medical.Severity)
	optional("Origem", d.Medical.Origin)
	line("")

	line(headerFunctional)
	line("Limitacoes funcionais:")
	for _, l := range d.Functional.Limitations {
		line("  - %s", l)
	}
	if len(d.Functional.PreservedFunctions) > 0 {
		line("Funcoes preservadas:")
		for _, f := range d.Functional.PreservedFunctions {
			line("  - %s", f)
		}
	}
	optional("Capacidade adaptativa", d.Functional.AdaptiveCapacity)
	if len(d.Functional.AssistiveTechnologies) > 0 {
		line("Tecnologias assistivas: %s", strings.Join(d.Functional.AssistiveTechnologies, ", "))
	}
	line("")

	line(headerConclusion)
	line("O(a) avaliado(a) enquadra-se no conceito de pessoa com deficiencia nos termos do Art. 2º da Lei nº 13.146/2015, apresentando %s de carater %s, com as limitacoes funcionais descritas acima. Apto(a) a contratacao pela cota legal prevista no Art. 93 da Lei nº 8.213/1991.",
		strings.ToLower(d.Medical.DeficiencyType.LabelPT()), strings.ToLower(d.Medical.Prognosis.LabelPT()))
	line("")

	line(headerLegal)
	if d.LegalBasis.Law13146 {
		line("- %s", citationLaw13146)
	}
	if d.LegalBasis.Decree3298 {
		line("- %s", citationDecree3298)
	}
	if d.LegalBasis.CIFModel {
		line("- %s", citationCIF)
	}
	line("")

	line(headerProfessional)
	line("Nome: %s", d.Professional.Name)
	line("CRM: %s", d.Professional.CRM)
	line("Especialidade: %s", d.Professional.Specialization)
	line("Assinatura eletronica: %s", signature)
	line("(marcador de rastreabilidade; nao constitui assinatura digital certificada)")

	return b.String()
}

func renderSummary(d Dossier, validity ValidityPeriod) string {
	return fmt.Sprintf("Laudo caracterizador de %s para %s, valido ate %s.",
		strings.ToLower(d.Medical.DeficiencyType.LabelPT()),
		d.Candidate.Name,
		validity.ValidUntil.Format(dateLayout))
}

// traceabilityToken derives a short deterministic marker from the laudo id,
// the candidate identifier and the issuance instant. It provides
// traceability only; it is not a cryptographic signature and offers no
// authenticity guarantee.
func traceabilityToken(id, identifier string, issuedAt time.Time) string {
	sum := sha256.Sum256([]byte(id + digitsOnly(identifier) + issuedAt.Format(time.RFC3339)))
	return strings.ToUpper(hex.EncodeToString(sum[:8]))
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func invalidReport(issuedAt time.Time) Report {
	return Report{
		ID:       InvalidID,
		Document: "LAUDO INVALIDO\n\nFalha interna durante a geracao do laudo. Nenhum documento legal foi emitido; repetir a geracao ou encaminhar para emissao manual.",
		Summary:  "Geracao de laudo falhou; nenhum documento emitido.",
		IssuedAt: issuedAt,
		Classification: Classification{
			PCDStatus:        false,
			QuotaEligible:    false,
			WorkRestrictions: []string{},
		},
	}
}
