// Package layout computes the paginated layout of an invoice and emits draw
// commands to a Surface.
//
// Rendering runs as a fixed pipeline of stages: page start, header, invoice
// info, client block, items table, totals, notes and payment footer. Each
// stage receives the current Context and returns the updated one, so cursor,
// page and table state are explicit values rather than hidden fields.
package layout

import (
	"fmt"

	"github.com/rs/zerolog"
	"invoicegen/internal/locale"
	"invoicegen/internal/logger"
	"invoicegen/pkg/models"
)

// Engine renders invoices with a fixed configuration. An Engine holds no
// per-document state and may be shared; each Render call is independent.
type Engine struct {
	cfg    Config
	geo    Geometry
	styles styles
	log    zerolog.Logger
}

// Stats summarizes one rendered document.
type Stats struct {
	Pages       int
	ItemLines   int
	HeaderPages []int    // pages carrying an items table header
	Warnings    []string // non-fatal drawing problems such as a failed logo
}

// NewEngine creates an engine for cfg.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:    cfg,
		geo:    NewGeometry(cfg),
		styles: newStyles(cfg.FontFamily),
		log:    logger.WithComponent("layout"),
	}
}

// Render lays out inv on s. logo may be nil. The surface is left with all
// pages ended but not saved.
func (e *Engine) Render(inv *models.Invoice, logo *Image, s Surface) (Stats, error) {
	r := &renderer{
		Engine: e,
		inv:    inv,
		labels: inv.Locale.Labels(),
		loc:    inv.Locale,
		s:      s,
		logo:   logo,
	}

	ctx := r.startPage(Context{})
	ctx = r.header(ctx)
	ctx = r.invoiceInfo(ctx)
	ctx = r.clientBlock(ctx)
	ctx = r.items(ctx)
	ctx = r.totals(ctx)
	ctx = r.notes(ctx)
	ctx = r.paymentFooter(ctx)
	s.EndPage()

	stats := Stats{
		Pages:       ctx.Page,
		ItemLines:   ctx.ItemLines,
		HeaderPages: ctx.HeaderPages,
		Warnings:    r.warnings,
	}

	if err := s.Err(); err != nil {
		return stats, fmt.Errorf("render invoice %s: %w", inv.Metadata.Number, err)
	}

	e.log.Debug().
		Str("invoice_number", inv.Metadata.Number).
		Int("pages", stats.Pages).
		Int("item_lines", stats.ItemLines).
		Msg("Invoice layout completed")

	return stats, nil
}

// renderer binds one document to an engine for the duration of Render.
type renderer struct {
	*Engine
	inv      *models.Invoice
	labels   locale.Labels
	loc      locale.Locale
	s        Surface
	logo     *Image
	warnings []string
}

// startPage ends the current page, if any, and begins the next one. Pages
// after the first carry a page number footer.
func (r *renderer) startPage(ctx Context) Context {
	if ctx.Page > 0 {
		r.s.EndPage()
	}
	r.s.BeginPage()
	ctx.Page++
	ctx.Y = r.cfg.PageHeight - r.cfg.MarginTop

	if ctx.Page > 1 {
		r.s.TextRight(r.geo.Right, r.cfg.MarginBottom/2, fmt.Sprintf(r.labels.Page, ctx.Page), r.styles.small)
		r.log.Debug().Int("page", ctx.Page).Msg("Started new page")
	}
	return ctx
}

// breakIfLow starts a new page when less than threshold+extra remains.
func (r *renderer) breakIfLow(ctx Context, extra float64) (Context, bool) {
	if ctx.Remaining(r.cfg) < r.cfg.PageBreakThreshold+extra {
		return r.startPage(ctx), true
	}
	return ctx, false
}
