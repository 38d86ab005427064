// Package invoice turns invoice requests into finished PDF documents.
//
// It sits between the CLI and the layout engine: Decode converts a flat
// Request into a models.Invoice, failing with an *InputError for anything
// malformed, and Generator.Generate reviews the invoice, loads the logo,
// renders it onto a PDF surface and writes the result to a sink.
//
// Generation Policy:
//   - Validation is advisory: warnings are returned in Result, never as errors
//   - A logo that cannot be read or drawn is dropped with a warning
//   - A failed write to the sink is fatal and reported as ErrSinkWrite
//   - Nothing is retried; generation is deterministic for a fixed clock
package invoice

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"invoicegen/internal/layout"
	"invoicegen/internal/logger"
	"invoicegen/internal/pdf"
	"invoicegen/pkg/models"
)

// Result describes one generated document.
type Result struct {
	// Filename is the suggested download name of the document.
	Filename string

	// Pages is the number of pages in the document.
	Pages int

	// Warnings lists advisory findings and non-fatal resource problems.
	Warnings []string
}

// Generator renders invoices as PDF documents. It is safe for concurrent use;
// every call builds its own surface and layout state.
type Generator struct {
	cfg    layout.Config
	engine *layout.Engine
	review *Review
	now    func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces the clock used for file names and document metadata.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a generator using the given layout configuration.
func NewGenerator(cfg layout.Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:    cfg,
		engine: layout.NewEngine(cfg),
		review: NewReview(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders inv and writes the PDF to w.
func (g *Generator) Generate(inv *models.Invoice, w io.Writer) (*Result, error) {
	log := logger.WithInvoice("invoice-generator", inv.Metadata.Number)
	log.Info().
		Int("items", len(inv.Items)).
		Str("vat_mode", inv.VATMode.String()).
		Str("locale", inv.Locale.String()).
		Msg("Generating invoice")

	result := &Result{
		Filename: Filename(inv, g.now()),
		Warnings: g.review.Check(inv),
	}

	var logo *layout.Image
	if path := strings.TrimSpace(inv.LogoPath); path != "" {
		img, err := pdf.LoadLogo(path)
		if err != nil {
			log.Warn().Err(err).Str("logo_path", path).Msg("Logo could not be loaded, continuing without it")
			result.Warnings = append(result.Warnings, "logo could not be loaded: "+err.Error())
		} else {
			logo = img
		}
	}

	surface := pdf.NewSurface(g.cfg)
	surface.SetInfo(pdf.DocumentInfo{
		Title:   inv.Locale.Labels().Title + " " + inv.Metadata.Number,
		Author:  inv.Issuer.Address.Name,
		Subject: inv.Client.Address.Name,
		Created: inv.Metadata.IssueDate,
	})

	stats, err := g.engine.Render(inv, logo, surface)
	if err != nil {
		genErr := NewGenerationError("Render", fmt.Errorf("%w: %w", ErrLayoutFailed, err), "")
		genErr.InvoiceNumber = inv.Metadata.Number
		return nil, genErr
	}
	result.Pages = stats.Pages
	result.Warnings = append(result.Warnings, stats.Warnings...)

	if err := surface.Save(w); err != nil {
		log.Error().Err(err).Msg("Failed to write invoice document")
		genErr := NewGenerationError("Save", fmt.Errorf("%w: %w", ErrSinkWrite, err), "")
		genErr.InvoiceNumber = inv.Metadata.Number
		return nil, genErr
	}

	log.Info().
		Int("pages", result.Pages).
		Int("warnings", len(result.Warnings)).
		Str("filename", result.Filename).
		Str("total", inv.Total().StringFixed(2)).
		Msg("Invoice generated")

	return result, nil
}

// Review returns the warnings Generate would report, without rendering.
func (g *Generator) Review(inv *models.Invoice) []string {
	return g.review.Check(inv)
}

var unsafeFilenameChars = regexp.MustCompile(`[/\\:*?"<>|\s]`)

// Filename builds the download name "<Title>_<number>_<YYYYMMDD>.pdf".
// Characters that are unsafe in paths are replaced by "-"; date is the
// generation date.
func Filename(inv *models.Invoice, date time.Time) string {
	prefix := inv.Locale.Labels().Title
	number := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(inv.Metadata.Number), "-")

	parts := []string{prefix}
	if number != "" {
		parts = append(parts, number)
	}
	parts = append(parts, date.Format("20060102"))
	return strings.Join(parts, "_") + ".pdf"
}
