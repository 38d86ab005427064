package layout

import (
	"invoicegen/internal/money"
)

// baselineOffset places text inside a row of the given height.
func baselineOffset(rowHeight float64) float64 {
	return rowHeight/2 - 1.2
}

// items renders the table header and every item. The page-break check runs
// before each rendered line, so a wrapped description may continue on the
// next page below a repeated header.
func (r *renderer) items(ctx Context) Context {
	// The header never sits on a page without a row below it.
	ctx, _ = r.breakIfLow(ctx, r.cfg.HeaderRowHeight+r.cfg.RowHeight)
	ctx = r.tableHeader(ctx)

	cols := r.geo.Columns
	pad := r.cfg.CellPadding
	symbol := r.inv.Currency()

	for n, item := range r.inv.Items {
		lines := Wrap(item.Description, r.cfg.WrapWidth)

		for i, text := range lines {
			if ctx.Remaining(r.cfg) < r.cfg.PageBreakThreshold {
				ctx = r.closeTable(ctx)
				ctx = r.startPage(ctx)
				ctx = r.tableHeader(ctx)
			}

			baseline := ctx.Y - r.cfg.RowHeight + baselineOffset(r.cfg.RowHeight)
			r.s.Text(cols[0]+pad, baseline, text, r.styles.body)
			if i == 0 {
				r.s.TextRight(cols[2]-pad, baseline, money.FormatQuantity(item.Quantity, item.Unit), r.styles.body)
				r.s.TextRight(cols[3]-pad, baseline, money.FormatCurrency(item.UnitPrice, symbol, r.loc), r.styles.body)
				r.s.TextRight(cols[4]-pad, baseline, money.FormatCurrency(item.Net(), symbol, r.loc), r.styles.body)
			}

			ctx = ctx.Advance(r.cfg.RowHeight)
			ctx.LastRowBottom = ctx.Y
			ctx.ItemLines++
		}

		if n < len(r.inv.Items)-1 {
			r.s.Line(cols[0], ctx.LastRowBottom, cols[4], ctx.LastRowBottom, r.styles.rule)
		}
	}

	ctx = r.closeTable(ctx)
	return ctx.Advance(r.cfg.LineHeight)
}

// tableHeader draws the shaded header row with its column labels and the
// three internal separators, and opens a new table segment below it.
func (r *renderer) tableHeader(ctx Context) Context {
	cols := r.geo.Columns
	pad := r.cfg.CellPadding
	top := ctx.Y
	bottom := top - r.cfg.HeaderRowHeight
	baseline := bottom + baselineOffset(r.cfg.HeaderRowHeight)

	r.s.FillRect(r.geo.Left, bottom, r.geo.Width, r.cfg.HeaderRowHeight, colorFill)
	r.s.Text(cols[0]+pad, baseline, r.labels.Description, r.styles.header)
	r.s.TextRight(cols[2]-pad, baseline, r.labels.Quantity, r.styles.header)
	r.s.TextRight(cols[3]-pad, baseline, r.labels.UnitPrice, r.styles.header)
	r.s.TextRight(cols[4]-pad, baseline, r.labels.Amount, r.styles.header)
	for _, x := range r.geo.Separators() {
		r.s.Line(x, top, x, bottom, r.styles.rule)
	}

	ctx.Y = bottom
	ctx.SegmentTop = bottom
	ctx.LastRowBottom = bottom
	ctx.HeaderPages = append(ctx.HeaderPages, ctx.Page)
	return ctx
}

// closeTable finishes the current table segment: internal separators over
// the segment body and a closing rule under the last row.
func (r *renderer) closeTable(ctx Context) Context {
	cols := r.geo.Columns
	if ctx.LastRowBottom < ctx.SegmentTop {
		for _, x := range r.geo.Separators() {
			r.s.Line(x, ctx.SegmentTop, x, ctx.LastRowBottom, r.styles.rule)
		}
	}
	r.s.Line(cols[0], ctx.LastRowBottom, cols[4], ctx.LastRowBottom, r.styles.heavyRule)
	ctx.Y = ctx.LastRowBottom
	return ctx
}
