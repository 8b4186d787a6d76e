package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/incluo/laudo-agency/internal/docanalysis"
)

const (
	maxPDFBytes  = 20 * 1024 * 1024
	maxTextRun   = 200000
	fetchTimeout = 30 * time.Second
)

// Result carries the extracted text plus provenance for the analysis layer.
type Result struct {
	Document  docanalysis.ExtractedDocument
	Method    string
	Truncated bool
}

// Extractor fetches a remote document and extracts its text. This is the
// only blocking collaborator in the system; the analysis core never
// performs I/O itself.
type Extractor struct {
	client *http.Client
}

func New() *Extractor {
	return &Extractor{client: &http.Client{Timeout: fetchTimeout}}
}

// FetchAndExtract downloads the document at url and extracts its text. The
// context bounds the full fetch+extract step.
func (e *Extractor) FetchAndExtract(ctx context.Context, url string) (Result, error) {
	blob, err := e.fetch(ctx, url)
	if err != nil {
		return Result{}, err
	}
	return Extract(blob)
}

func (e *Extractor) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch document: status %d", resp.StatusCode)
	}
	blob, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if len(blob) > maxPDFBytes {
		return nil, fmt.Errorf("document too large: over %d bytes", maxPDFBytes)
	}
	return blob, nil
}

// Extract pulls text out of a PDF blob, falling back to a printable-byte
// scan when the blob is not a parseable PDF.
func Extract(blob []byte) (Result, error) {
	if text, pages, err := extractPDFText(blob); err == nil && strings.TrimSpace(text) != "" {
		return newResult(text, pages, "pdf"), nil
	}
	fallback := extractPrintableText(blob)
	if strings.TrimSpace(fallback) == "" {
		return Result{}, errors.New("no extractable text found")
	}
	return newResult(fallback, 0, "byte-fallback"), nil
}

func newResult(text string, pages int, method string) Result {
	truncated := false
	if len(text) > maxTextRun {
		text = text[:maxTextRun]
		truncated = true
	}
	return Result{
		Document:  docanalysis.NewExtractedDocument(text, pages),
		Method:    method,
		Truncated: truncated,
	}
}

// extractPDFText reads the PDF via ledongthuc/pdf. The library panics on
// some malformed files, so the recover converts those into a plain error
// and lets the byte fallback take over.
func extractPDFText(blob []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return "", 0, err
	}
	pages = reader.NumPage()
	content, err := reader.GetPlainText()
	if err != nil {
		return "", pages, err
	}
	raw, err := io.ReadAll(content)
	if err != nil {
		return "", pages, err
	}
	return string(raw), pages, nil
}

// extractPrintableText keeps printable runs of at least 24 characters,
// which filters out binary noise while preserving embedded text streams.
func extractPrintableText(blob []byte) string {
	var runs []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		if len(s) >= 24 {
			runs = append(runs, s)
		}
		b.Reset()
	}
	for _, c := range blob {
		r := rune(c)
		if unicode.IsPrint(r) || r == '\n' || r == '\t' || r == '\r' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return strings.Join(runs, "\n")
}
