// Package httpapi exposes the characterization pipeline over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/incluo/laudo-agency/internal/casestore"
	"github.com/incluo/laudo-agency/internal/docanalysis"
	"github.com/incluo/laudo-agency/internal/eligibility"
	"github.com/incluo/laudo-agency/internal/extractor"
	"github.com/incluo/laudo-agency/internal/laudo"
	"github.com/incluo/laudo-agency/internal/telemetry"
)

const serviceName = "laudo-agency"

// DocumentFetcher downloads and extracts a remote document. The production
// implementation is *extractor.Extractor; tests swap in a stub.
type DocumentFetcher interface {
	FetchAndExtract(ctx context.Context, url string) (extractor.Result, error)
}

// CaseArchive is the persistence seam. Satisfied by *casestore.Store.
type CaseArchive interface {
	SaveAnalysis(result docanalysis.AnalysisResult) (int64, error)
	SaveAssessment(candidateCPF string, a eligibility.Assessment) (int64, error)
	SaveLaudo(candidateCPF string, r laudo.Report) error
	GetLaudo(laudoID string) (laudo.Report, bool, error)
	ListLaudos(cpf string, limit int) ([]casestore.LaudoSummary, error)
	CaseHistory(cpf string) (analyses, assessments, laudos int, err error)
}

type Server struct {
	analyzer  *docanalysis.Analyzer
	engine    *eligibility.Engine
	generator *laudo.Generator
	fetcher   DocumentFetcher
	archive   CaseArchive
	metrics   *telemetry.Metrics
	tracer    trace.Tracer
}

type Config struct {
	Analyzer  *docanalysis.Analyzer
	Engine    *eligibility.Engine
	Generator *laudo.Generator
	Fetcher   DocumentFetcher
	Archive   CaseArchive
	Metrics   *telemetry.Metrics
}

func NewServer(cfg Config) http.Handler {
	s := &Server{
		analyzer:  cfg.Analyzer,
		engine:    cfg.Engine,
		generator: cfg.Generator,
		fetcher:   cfg.Fetcher,
		archive:   cfg.Archive,
		metrics:   cfg.Metrics,
		tracer:    otel.Tracer(serviceName),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/documents/analyze", s.handleAnalyze)
	mux.HandleFunc("/v1/eligibility/evaluate", s.handleEvaluate)
	mux.HandleFunc("/v1/laudos", s.handleLaudos)
	mux.HandleFunc("/v1/laudos/", s.handleLaudoByID)
	mux.HandleFunc("/v1/cases/", s.handleCaseHistory)
	mux.HandleFunc("/v1/health", s.handleHealth)
	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics.Handler())
		return cfg.Metrics.Middleware(serviceName, mux)
	}
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

type analyzeRequest struct {
	CandidateName string                     `json:"candidate_name"`
	CandidateCPF  string                     `json:"candidate_cpf"`
	ExpectedType  docanalysis.DisabilityType `json:"expected_deficiency_type,omitempty"`
	DocumentURL   string                     `json:"document_url,omitempty"`
	Document      *struct {
		RawText   string `json:"raw_text"`
		PageCount int    `json:"page_count"`
	} `json:"document,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	ctx, span := s.tracer.Start(r.Context(), "documents.analyze")
	defer span.End()

	blob, err := readBody(r)
	if err != nil {
		writeError(w, 400, "validation", "unreadable request body")
		return
	}
	var req analyzeRequest
	if err := json.Unmarshal(blob, &req); err != nil {
		writeError(w, 400, "validation", "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.DocumentURL) == "" && req.Document == nil {
		writeError(w, 400, "validation", "document_url or document is required")
		return
	}

	var result docanalysis.AnalysisResult
	switch {
	case req.Document != nil:
		result = s.analyzer.Analyze(docanalysis.AnalyzeRequest{
			CandidateName: req.CandidateName,
			CandidateCPF:  req.CandidateCPF,
			ExpectedType:  req.ExpectedType,
			Document:      docanalysis.NewExtractedDocument(req.Document.RawText, req.Document.PageCount),
		})
	default:
		extracted, fetchErr := s.fetcher.FetchAndExtract(ctx, req.DocumentURL)
		if fetchErr != nil {
			log.Printf("httpapi: extraction failed for cpf=%s: %v", req.CandidateCPF, fetchErr)
			s.recordExtraction("", "error")
			result = docanalysis.DegradedResult(req.CandidateName, req.CandidateCPF,
				"Documento sem texto extraível — análise impossível")
			break
		}
		s.recordExtraction(extracted.Method, "ok")
		result = s.analyzer.Analyze(docanalysis.AnalyzeRequest{
			CandidateName: req.CandidateName,
			CandidateCPF:  req.CandidateCPF,
			ExpectedType:  req.ExpectedType,
			Document:      extracted.Document,
		})
	}

	span.SetAttributes(
		attribute.Int("analysis.score", result.CompletenessScore),
		attribute.String("analysis.tier", string(result.DocumentQuality)),
		attribute.String("analysis.detected_type", string(result.DetectedType)),
	)
	if s.metrics != nil {
		s.metrics.RecordAnalysis(serviceName, string(result.DocumentQuality))
	}
	if s.archive != nil {
		if _, err := s.archive.SaveAnalysis(result); err != nil {
			log.Printf("httpapi: save analysis: %v", err)
		}
	}

	writeJSON(w, 200, map[string]any{
		"ok":               true,
		"result":           result,
		"summary_markdown": docanalysis.BuildSummaryMarkdown(result),
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	_, span := s.tracer.Start(r.Context(), "eligibility.evaluate")
	defer span.End()

	blob, err := readBody(r)
	if err != nil {
		writeError(w, 400, "validation", "unreadable request body")
		return
	}
	var req eligibility.Request
	if err := json.Unmarshal(blob, &req); err != nil {
		writeError(w, 400, "validation", "invalid JSON: "+err.Error())
		return
	}

	assessment := s.engine.Decide(req.Documentation)

	span.SetAttributes(
		attribute.String("assessment.outcome", string(assessment.Outcome)),
		attribute.Float64("assessment.confidence", assessment.Confidence),
	)
	if s.metrics != nil {
		s.metrics.RecordAssessment(serviceName, string(assessment.Outcome))
	}
	if s.archive != nil {
		if _, err := s.archive.SaveAssessment(req.CandidateCPF, assessment); err != nil {
			log.Printf("httpapi: save assessment: %v", err)
		}
	}

	writeJSON(w, 200, map[string]any{
		"ok":                  true,
		"assessment":          assessment,
		"assessment_markdown": eligibility.BuildAssessmentMarkdown(req, assessment),
	})
}

func (s *Server) handleLaudos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleIssueLaudo(w, r)
	case http.MethodGet:
		s.handleListLaudos(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleIssueLaudo(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "laudos.issue")
	defer span.End()

	blob, err := readBody(r)
	if err != nil {
		writeError(w, 400, "validation", "unreadable request body")
		return
	}
	var dossier laudo.Dossier
	if err := json.Unmarshal(blob, &dossier); err != nil {
		writeError(w, 400, "validation", "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(dossier.Candidate.Name) == "" || strings.TrimSpace(dossier.Candidate.CPF) == "" {
		writeError(w, 400, "validation", "candidate name and CPF are required")
		return
	}

	report := s.generator.Generate(dossier)

	span.SetAttributes(
		attribute.String("laudo.id", report.ID),
		attribute.Bool("laudo.pcd_status", report.Classification.PCDStatus),
	)
	if s.metrics != nil {
		s.metrics.RecordLaudo(serviceName, report.Classification.PCDStatus)
	}
	if s.archive != nil && report.ID != laudo.InvalidID {
		if err := s.archive.SaveLaudo(dossier.Candidate.CPF, report); err != nil {
			log.Printf("httpapi: save laudo %s: %v", report.ID, err)
			writeError(w, 500, "internal", "laudo issued but not persisted")
			return
		}
	}

	writeJSON(w, 200, map[string]any{
		"ok":     true,
		"report": report,
	})
}

func (s *Server) handleListLaudos(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, 503, "unavailable", "case archive not configured")
		return
	}
	cpf := strings.TrimSpace(r.URL.Query().Get("cpf"))
	summaries, err := s.archive.ListLaudos(cpf, 0)
	if err != nil {
		writeError(w, 500, "internal", err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{"laudos": summaries})
}

func (s *Server) handleLaudoByID(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	if s.archive == nil {
		writeError(w, 503, "unavailable", "case archive not configured")
		return
	}
	laudoID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/laudos/"), "/")
	if laudoID == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	report, found, err := s.archive.GetLaudo(laudoID)
	if err != nil {
		writeError(w, 500, "internal", err.Error())
		return
	}
	if !found {
		writeError(w, 404, "not_found", "laudo not found: "+laudoID)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "report": report})
}

func (s *Server) handleCaseHistory(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	if s.archive == nil {
		writeError(w, 503, "unavailable", "case archive not configured")
		return
	}
	cpf := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/cases/"), "/")
	if cpf == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	analyses, assessments, laudos, err := s.archive.CaseHistory(cpf)
	if err != nil {
		writeError(w, 500, "internal", err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{
		"ok":            true,
		"candidate_cpf": cpf,
		"analyses":      analyses,
		"assessments":   assessments,
		"laudos":        laudos,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, map[string]any{
		"ok":      true,
		"service": serviceName,
	})
}

func (s *Server) recordExtraction(method, result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordExtraction(serviceName, method, result)
}
