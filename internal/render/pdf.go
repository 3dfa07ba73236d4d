package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/jonathan/resume-builder/internal/resume"
)

// PageOptions controls the exported artifact's page geometry.
type PageOptions struct {
	Format       string  // "A4" or "Letter"
	MarginInches float64 // uniform margin
	Landscape    bool
}

// DefaultPageOptions is A4 portrait with a 0.4in margin.
func DefaultPageOptions() PageOptions {
	return PageOptions{Format: "A4", MarginInches: 0.4}
}

// paper dimensions in inches, portrait.
var paperSizes = map[string][2]float64{
	"A4":     {8.27, 11.69},
	"Letter": {8.5, 11.0},
}

// ErrExport wraps a rendering/export failure. It is recoverable: callers
// retry or notify the user, the session survives.
type ErrExport struct {
	Err error
}

func (e *ErrExport) Error() string {
	return fmt.Sprintf("pdf export failed: %v", e.Err)
}

func (e *ErrExport) Unwrap() error { return e.Err }

// Exporter produces a downloadable paginated artifact from a document
// snapshot.
type Exporter interface {
	ExportPDF(ctx context.Context, doc *resume.Document, opts PageOptions) ([]byte, error)
}

// ChromePDF exports resumes through a headless Chrome print-to-PDF pass.
// Chrome handles pagination; the stylesheet only asks it to avoid breaking
// inside an entry block.
type ChromePDF struct {
	// ExecPath overrides the Chrome binary location. Empty means the
	// chromedp default lookup.
	ExecPath string
	// Timeout bounds a single export run.
	Timeout time.Duration
}

// NewChromePDF creates an exporter with the default timeout. An empty
// execPath falls back to the CHROME_PATH environment variable, then to the
// chromedp default lookup.
func NewChromePDF(execPath string) *ChromePDF {
	if execPath == "" {
		execPath = os.Getenv("CHROME_PATH")
	}
	return &ChromePDF{
		ExecPath: execPath,
		Timeout:  60 * time.Second,
	}
}

// ExportPDF renders the layout and prints it to a paginated PDF.
func (c *ChromePDF) ExportPDF(ctx context.Context, doc *resume.Document, opts PageOptions) ([]byte, error) {
	html, err := Layout(doc)
	if err != nil {
		return nil, &ErrExport{Err: err}
	}

	size, ok := paperSizes[opts.Format]
	if !ok {
		size = paperSizes["A4"]
	}
	width, height := size[0], size[1]
	if opts.Landscape {
		width, height = height, width
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeout := c.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	// Chrome needs a file URL; a data URL truncates large documents.
	tmpDir, err := os.MkdirTemp("", "resume-export-")
	if err != nil {
		return nil, &ErrExport{Err: err}
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "resume.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, &ErrExport{Err: err}
	}

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			pdf, _, printErr = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(opts.MarginInches).
				WithMarginBottom(opts.MarginInches).
				WithMarginLeft(opts.MarginInches).
				WithMarginRight(opts.MarginInches).
				Do(ctx)
			return printErr
		}),
	)
	if err != nil {
		return nil, &ErrExport{Err: err}
	}
	return pdf, nil
}
