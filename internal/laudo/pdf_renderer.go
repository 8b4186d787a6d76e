package laudo

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ChromiumPDFRenderer prints a laudo or a markdown case summary to an A4
// PDF via headless Chromium. The plain-text laudo body is embedded
// verbatim inside a <pre> block so the legal template survives untouched.
type ChromiumPDFRenderer struct {
	chromePath string
}

func NewChromiumPDFRenderer() *ChromiumPDFRenderer {
	return &ChromiumPDFRenderer{chromePath: detectChromePath()}
}

// RenderLaudo renders the canonical laudo document text.
func (r *ChromiumPDFRenderer) RenderLaudo(ctx context.Context, report Report) ([]byte, error) {
	return r.print(ctx, laudoHTML(report))
}

func laudoHTML(report Report) string {
	body := "<pre class='laudo-body'>" + html.EscapeString(report.Document) + "</pre>"
	return buildHTML("Laudo Caracterizador "+html.EscapeString(report.ID), body)
}

// RenderMarkdown renders an operator summary (analysis or assessment).
func (r *ChromiumPDFRenderer) RenderMarkdown(ctx context.Context, title, markdown string) ([]byte, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}
	return r.print(ctx, buildHTML(html.EscapeString(title), content.String()))
}

func (r *ChromiumPDFRenderer) print(ctx context.Context, htmlDoc string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;">` +
				`Pagina <span class="pageNumber"></span> de <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.6).
				WithMarginBottom(0.75).
				WithMarginLeft(0.5).
				WithMarginRight(0.5).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return pdf, nil
}

func buildHTML(title, body string) string {
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + title + "</title>" +
		"<style>" +
		"html,body{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;}" +
		"body{font-family:Georgia,serif;color:#1c1917;max-width:860px;margin:0 auto;padding:1rem;}" +
		".laudo-body{font-family:'Courier New',monospace;font-size:0.85rem;white-space:pre-wrap;}" +
		"h1,h2{font-family:Helvetica,Arial,sans-serif;}" +
		"table{width:100%;border-collapse:collapse;font-size:0.85rem;}" +
		"th,td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;}" +
		"@media print{@page{size:A4;margin:12mm;}body{padding:0;}}" +
		"</style></head><body>" + body + "</body></html>"
}

func detectChromePath() string {
	for _, p := range []string{
		os.Getenv("CHROME_PATH"),
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
	} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
