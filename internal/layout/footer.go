package layout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"invoicegen/internal/money"
	"invoicegen/pkg/models"
)

// totals renders subtotal and per-rate VAT lines when VAT applies, then the
// grand total.
func (r *renderer) totals(ctx Context) Context {
	inv := r.inv
	if inv.VATMode != models.VATNone && inv.TotalVAT().IsPositive() {
		ctx = r.amountRow(ctx, r.labels.Subtotal+":", inv.Subtotal(), r.styles.body)
		for _, line := range inv.VATSummary() {
			label := fmt.Sprintf("%s %s%%:", r.labels.VAT, money.FormatRate(line.Rate, r.loc))
			ctx = r.amountRow(ctx, label, line.Amount, r.styles.body)
		}
	}

	ctx, _ = r.breakIfLow(ctx, 0)
	ctx = ctx.Advance(2)
	r.s.Line(r.geo.Columns[2], ctx.Y, r.geo.Right, ctx.Y, r.styles.heavyRule)
	ctx = r.amountRow(ctx, r.labels.Total+":", inv.Total(), r.styles.total)
	return ctx.Advance(r.cfg.BlockGap)
}

func (r *renderer) amountRow(ctx Context, label string, amount decimal.Decimal, style Style) Context {
	ctx, _ = r.breakIfLow(ctx, 0)
	ctx = ctx.Advance(r.cfg.RowHeight)
	r.s.Text(r.geo.Columns[2]+r.cfg.CellPadding, ctx.Y, label, style)
	r.s.TextRight(r.geo.Right-r.cfg.CellPadding, ctx.Y, money.FormatCurrency(amount, r.inv.Currency(), r.loc), style)
	return ctx
}

// notes renders free-text notes, each wrapped independently, with a page
// break check before every line.
func (r *renderer) notes(ctx Context) Context {
	var notes []string
	for _, note := range r.inv.Notes {
		if strings.TrimSpace(note) != "" {
			notes = append(notes, note)
		}
	}
	if len(notes) == 0 {
		return ctx
	}

	ctx, _ = r.breakIfLow(ctx, 0)
	ctx = ctx.Advance(r.cfg.LineHeight)
	r.s.Text(r.geo.Left, ctx.Y, r.labels.Notes, r.styles.bold)

	for _, note := range notes {
		for _, line := range Wrap(note, r.cfg.NotesWrapWidth) {
			ctx, _ = r.breakIfLow(ctx, 0)
			ctx = ctx.Advance(r.cfg.LineHeight)
			r.s.Text(r.geo.Left, ctx.Y, line, r.styles.body)
		}
	}
	return ctx.Advance(r.cfg.BlockGap)
}

// paymentFooter renders the small business notice, payment terms, due date
// and bank details. It moves to a new page unless threshold plus reserve is
// still available.
func (r *renderer) paymentFooter(ctx Context) Context {
	inv := r.inv
	if next, broke := r.breakIfLow(ctx, r.cfg.PaymentReserve); broke {
		r.log.Debug().Int("page", next.Page).Msg("Payment footer moved to new page")
		ctx = next
	}

	if inv.VATMode == models.VATNone {
		for _, line := range Wrap(r.labels.SmallBusiness, r.cfg.NotesWrapWidth) {
			ctx = ctx.Advance(r.cfg.LineHeight)
			r.s.Text(r.geo.Left, ctx.Y, line, r.styles.small)
		}
		ctx = ctx.Advance(r.cfg.LineHeight)
	}

	ctx = ctx.Advance(r.cfg.LineHeight)
	r.s.Text(r.geo.Left, ctx.Y, fmt.Sprintf(r.labels.PaymentTerms, inv.Metadata.DueDays), r.styles.muted)
	ctx = ctx.Advance(r.cfg.LineHeight)
	r.s.Text(r.geo.Left, ctx.Y, r.labels.DueDate+" "+money.FormatDate(inv.Metadata.DueDate(), r.loc), r.styles.muted)

	p := inv.Payment
	fields := [][2]string{
		{r.labels.AccountHolder, p.AccountHolder},
		{r.labels.IBAN, p.IBAN},
		{r.labels.BIC, p.BIC},
		{r.labels.BankName, p.BankName},
		{r.labels.PaymentReference, p.Reference},
	}
	first := true
	for _, field := range fields {
		value := strings.TrimSpace(field[1])
		if value == "" {
			continue
		}
		if first {
			ctx = ctx.Advance(2)
			first = false
		}
		ctx = ctx.Advance(r.cfg.LineHeight)
		r.s.Text(r.geo.Left, ctx.Y, field[0]+" "+value, r.styles.muted)
	}
	return ctx
}
