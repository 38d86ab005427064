package layout

import (
	"strings"

	"github.com/samber/lo"
	"invoicegen/internal/money"
)

// styledLine is one line of the issuer block.
type styledLine struct {
	text  string
	style Style
}

// header draws the logo on the left of the top band and the issuer block
// right-aligned opposite it, then moves below whichever is taller. A long
// issuer block continues on the next page.
func (r *renderer) header(ctx Context) Context {
	page := ctx.Page
	logoBottom := ctx.Y

	if r.logo != nil {
		err := r.s.Image(r.logo, r.geo.Left, ctx.Y-r.cfg.HeaderBand, r.cfg.LogoWidth, r.cfg.LogoHeight)
		if err != nil {
			r.log.Warn().Err(err).Str("logo", r.logo.Name).Msg("Failed to draw logo, continuing without it")
			r.warnings = append(r.warnings, "logo could not be drawn: "+err.Error())
		} else {
			logoBottom = ctx.Y - r.cfg.HeaderBand
		}
	}

	for _, line := range r.issuerLines() {
		ctx, _ = r.breakIfLow(ctx, 0)
		ctx = ctx.Advance(r.cfg.LineHeight)
		r.s.TextRight(r.geo.Right, ctx.Y, line.text, line.style)
	}

	if ctx.Page == page {
		ctx.Y = min(ctx.Y, logoBottom)
	}
	return ctx.Advance(r.cfg.BlockGap)
}

// issuerLines lists name, address and the non-empty contact fields.
func (r *renderer) issuerLines() []styledLine {
	issuer := r.inv.Issuer

	var lines []styledLine
	if name := strings.TrimSpace(issuer.Address.Name); name != "" {
		lines = append(lines, styledLine{name, r.styles.name})
	}
	for line := range issuer.Address.Lines() {
		lines = append(lines, styledLine{line, r.styles.muted})
	}

	contacts := lo.FilterMap([][2]string{
		{r.labels.Phone, issuer.Phone},
		{r.labels.Email, issuer.Email},
		{r.labels.Website, issuer.Website},
		{r.labels.TaxNumber, issuer.TaxNumber},
		{r.labels.VATID, issuer.VATID},
	}, func(field [2]string, _ int) (styledLine, bool) {
		value := strings.TrimSpace(field[1])
		return styledLine{field[0] + " " + value, r.styles.muted}, value != ""
	})
	return append(lines, contacts...)
}

// invoiceInfo draws the title followed by number, date and service date or
// period.
func (r *renderer) invoiceInfo(ctx Context) Context {
	meta := r.inv.Metadata

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = r.labels.Title
	}
	ctx, _ = r.breakIfLow(ctx, 0)
	ctx = ctx.Advance(8)
	r.s.Text(r.geo.Left, ctx.Y, title, r.styles.title)
	ctx = ctx.Advance(3)

	rows := [][2]string{
		{r.labels.InvoiceNumber, meta.Number},
		{r.labels.InvoiceDate, money.FormatDate(meta.IssueDate, r.loc)},
	}
	if meta.HasServicePeriod() {
		rows = append(rows, [2]string{
			r.labels.ServicePeriod,
			money.FormatDate(meta.ServicePeriodStart, r.loc) + " – " + money.FormatDate(meta.ServicePeriodEnd, r.loc),
		})
	} else {
		rows = append(rows, [2]string{r.labels.ServiceDate, money.FormatDate(meta.ServiceDate, r.loc)})
	}

	for _, row := range rows {
		ctx, _ = r.breakIfLow(ctx, 0)
		ctx = ctx.Advance(r.cfg.LineHeight)
		r.s.Text(r.geo.Left, ctx.Y, row[0], r.styles.muted)
		r.s.Text(r.geo.Left+r.cfg.InfoValueOffset, ctx.Y, row[1], r.styles.bold)
	}
	return ctx.Advance(r.cfg.BlockGap)
}

// clientBlock draws the "bill to" label, client name and address lines. The
// address may carry any number of extra lines, so every line checks the
// remaining space.
func (r *renderer) clientBlock(ctx Context) Context {
	addr := r.inv.Client.Address

	line := func(text string, style Style) {
		ctx, _ = r.breakIfLow(ctx, 0)
		ctx = ctx.Advance(r.cfg.LineHeight)
		r.s.Text(r.geo.Left, ctx.Y, text, style)
	}

	line(r.labels.BillTo, r.styles.small)
	if name := strings.TrimSpace(addr.Name); name != "" {
		line(name, r.styles.name)
	}
	for text := range addr.Lines() {
		line(text, r.styles.body)
	}
	return ctx.Advance(r.cfg.BlockGap)
}
