package layout

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"invoicegen/internal/locale"
	"invoicegen/pkg/models"
)

func testInvoice(t *testing.T, items ...models.InvoiceItem) *models.Invoice {
	t.Helper()
	meta, err := models.NewInvoiceMetadata(models.InvoiceMetadata{
		Number:    "2025-042",
		IssueDate: time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
		DueDays:   14,
	})
	require.NoError(t, err)

	return &models.Invoice{
		Issuer: models.Issuer{
			Address:   models.Address{Name: "BK Therapy", Street: "Augsburgerstraße 100", PostalCode: "86368", City: "Gersthofen"},
			Phone:     "+49 173 0000000",
			Email:     "info@example.de",
			TaxNumber: "102/223/41561",
		},
		Client: models.Client{
			Address: models.Address{Name: "Erika Mustermann", Street: "Heidestraße 17", PostalCode: "51147", City: "Köln"},
		},
		Metadata: meta,
		Items:    items,
		Payment: models.PaymentInfo{
			AccountHolder: "BK Therapy",
			IBAN:          "DE00 0000 0000 0000 0000 00",
			BIC:           "GENODEF1XXX",
		},
		VATMode: models.VATNone,
		Locale:  locale.DE,
	}
}

func lineItem(desc, qty, price, rate string) models.InvoiceItem {
	return models.InvoiceItem{
		Description: desc,
		Quantity:    decimal.RequireFromString(qty),
		UnitPrice:   decimal.RequireFromString(price),
		Unit:        "Std.",
		VATRate:     decimal.RequireFromString(rate),
	}
}

func render(t *testing.T, inv *models.Invoice, logo *Image) (*recorder, Stats) {
	t.Helper()
	rec := &recorder{}
	stats, err := NewEngine(DefaultConfig()).Render(inv, logo, rec)
	require.NoError(t, err)
	return rec, stats
}

func TestGeometryColumnShares(t *testing.T) {
	g := NewGeometry(DefaultConfig())
	assert.InDelta(t, 20.0, g.Columns[0], 1e-9)
	assert.InDelta(t, 20+170*0.55, g.Columns[1], 1e-9)
	assert.InDelta(t, 20+170*0.67, g.Columns[2], 1e-9)
	assert.InDelta(t, 20+170*0.83, g.Columns[3], 1e-9)
	assert.InDelta(t, 190.0, g.Columns[4], 1e-9)
	assert.Len(t, g.Separators(), 3)
}

func TestRenderSinglePage(t *testing.T) {
	inv := testInvoice(t, lineItem("Physiotherapie Einzelsitzung", "2", "80", "0"))
	rec, stats := render(t, inv, nil)

	assert.Equal(t, 1, stats.Pages)
	assert.Equal(t, 1, stats.ItemLines)
	assert.Equal(t, []int{1}, stats.HeaderPages)
	assert.Empty(t, rec.textsWithPrefix("Seite"), "first page has no page number")

	seq := strings.Join(rec.sequence(), "|")
	for _, want := range []string{
		"BK Therapy", "Rechnung", "Rechnungsnummer:", "2025-042", "05.01.2025",
		"Leistungsdatum:", "Rechnung an", "Erika Mustermann", "51147 Köln",
		"Leistung", "Menge", "Einzelpreis", "Betrag",
		"2 Std.", "80,00 €", "160,00 €", "Gesamt:",
		"Gemäß § 19 UStG (Kleinunternehmerregelung) wird keine Umsatzsteuer ausgewiesen.",
		"Zahlungsziel: 14 Tage", "Fällig am: 19.01.2025",
		"Kontoinhaber: BK Therapy", "IBAN: DE00 0000 0000 0000 0000 00", "BIC: GENODEF1XXX",
	} {
		assert.Contains(t, seq, want)
	}
	assert.NotContains(t, seq, "Zwischensumme")
	assert.NotContains(t, seq, "Bank:", "empty payment fields are skipped")
}

func TestRenderStageOrder(t *testing.T) {
	inv := testInvoice(t, lineItem("Beratung", "1", "50", "0"))
	inv.Notes = []string{"Vielen Dank für Ihren Auftrag."}
	rec, _ := render(t, inv, nil)

	seq := rec.sequence()
	order := []string{"BK Therapy", "Rechnung", "Rechnung an", "Leistung", "Beratung", "Gesamt:", "Hinweise", "Vielen Dank für Ihren Auftrag.", "Zahlungsziel: 14 Tage"}
	last := -1
	for _, want := range order {
		idx := -1
		for i := last + 1; i < len(seq); i++ {
			if seq[i] == want {
				idx = i
				break
			}
		}
		require.Greater(t, idx, last, "%q out of order", want)
		last = idx
	}
}

func TestLongDescriptionWraps(t *testing.T) {
	desc := "Manuelle Lymphdrainage mit anschließender Kompressionsbandage und ausführlicher Dokumentation des Behandlungsverlaufs"
	require.Greater(t, len([]rune(desc)), DefaultConfig().WrapWidth)

	inv := testInvoice(t, lineItem(desc, "3", "45.5", "0"))
	rec, stats := render(t, inv, nil)

	lines := Wrap(desc, DefaultConfig().WrapWidth)
	require.Greater(t, len(lines), 1)
	assert.Equal(t, len(lines), stats.ItemLines)

	qty := rec.texts("3 Std.")
	price := rec.texts("45,50 €")
	net := rec.texts("136,50 €")
	require.Len(t, qty, 1)
	require.Len(t, price, 1)
	// the net amount also appears as the grand total
	require.Len(t, net, 2)

	first := rec.texts(lines[0])
	require.Len(t, first, 1)
	assert.Equal(t, first[0].Y, qty[0].Y)
	assert.Equal(t, first[0].Y, price[0].Y)
	assert.Equal(t, first[0].Y, net[0].Y)

	for _, l := range lines[1:] {
		assert.Less(t, rec.texts(l)[0].Y, first[0].Y)
	}
}

func TestPageBreakRepeatsTableHeader(t *testing.T) {
	var items []models.InvoiceItem
	for i := 1; i <= 90; i++ {
		items = append(items, lineItem(fmt.Sprintf("Position %03d Behandlung", i), "1", "10", "0"))
	}
	inv := testInvoice(t, items...)
	rec, stats := render(t, inv, nil)

	require.Greater(t, stats.Pages, 1)
	assert.Equal(t, 90, stats.ItemLines)

	headersByPage := map[int]op{}
	for _, o := range rec.texts("Leistung") {
		if o.Style.Bold {
			headersByPage[o.Page] = o
		}
	}

	lastRowPage := 0
	cfg := DefaultConfig()
	for _, row := range rec.textsWithPrefix("Position ") {
		lastRowPage = max(lastRowPage, row.Page)
		header, ok := headersByPage[row.Page]
		require.True(t, ok, "page %d has rows but no table header", row.Page)
		assert.Greater(t, header.Y, row.Y)
		assert.GreaterOrEqual(t, row.Y, cfg.MarginBottom, "row below bottom margin")
	}
	assert.Len(t, headersByPage, lastRowPage)
	assert.Equal(t, stats.HeaderPages, pageRange(lastRowPage))

	for page := 2; page <= stats.Pages; page++ {
		assert.Len(t, rec.texts(fmt.Sprintf("Seite %d", page)), 1)
	}
	assert.Empty(t, rec.texts("Seite 1"))
}

func TestWrappedItemMaySpanPageBreak(t *testing.T) {
	cfg := DefaultConfig()
	long := strings.Repeat("Wort ", 40)

	var items []models.InvoiceItem
	for i := 0; i < 12; i++ {
		items = append(items, lineItem(long, "1", "1", "0"))
	}
	inv := testInvoice(t, items...)
	rec := &recorder{}
	stats, err := NewEngine(cfg).Render(inv, nil, rec)
	require.NoError(t, err)

	require.Greater(t, stats.Pages, 1)
	perItem := len(Wrap(long, cfg.WrapWidth))
	assert.Equal(t, 12*perItem, stats.ItemLines)
	assert.Equal(t, pageRange(len(stats.HeaderPages)), stats.HeaderPages)
}

func TestTotalsWithVAT(t *testing.T) {
	inv := testInvoice(t,
		lineItem("Beratung", "1", "100", "19"),
		lineItem("Fachbuch", "1", "20", "7"),
		lineItem("Porto", "1", "5", "0"),
		lineItem("Schulung", "2", "50", "19"),
	)
	inv.VATMode = models.VATExclusive
	rec, _ := render(t, inv, nil)

	seq := rec.sequence()
	idx := func(s string) int {
		for i, v := range seq {
			if v == s {
				return i
			}
		}
		return -1
	}

	require.NotEqual(t, -1, idx("Zwischensumme:"))
	require.NotEqual(t, -1, idx("USt. 19%:"))
	require.NotEqual(t, -1, idx("USt. 7%:"))
	assert.Less(t, idx("Zwischensumme:"), idx("USt. 19%:"))
	assert.Less(t, idx("USt. 19%:"), idx("USt. 7%:"))
	assert.Less(t, idx("USt. 7%:"), idx("Gesamt:"))

	assert.Len(t, rec.texts("225,00 €"), 1) // subtotal
	assert.Len(t, rec.texts("38,00 €"), 1)  // 19 %
	assert.Len(t, rec.texts("1,40 €"), 1)   // 7 %
	assert.Len(t, rec.texts("264,40 €"), 1) // total
	assert.Empty(t, rec.textsWithPrefix("Gemäß § 19 UStG"))

	total := rec.texts("Gesamt:")[0]
	assert.True(t, total.Style.Bold)
}

func TestTotalsSkipVATBlockWhenNoVATDue(t *testing.T) {
	inv := testInvoice(t, lineItem("Porto", "1", "5", "0"))
	inv.VATMode = models.VATInclusive
	rec, _ := render(t, inv, nil)

	assert.Empty(t, rec.texts("Zwischensumme:"))
	assert.Len(t, rec.texts("Gesamt:"), 1)
}

func TestEmptyInvoiceRendersStructure(t *testing.T) {
	inv := testInvoice(t)
	rec, stats := render(t, inv, nil)

	assert.Equal(t, 1, stats.Pages)
	assert.Zero(t, stats.ItemLines)
	assert.Len(t, rec.texts("Einzelpreis"), 1)
	assert.Len(t, rec.texts("0,00 €"), 1)
}

func TestServicePeriod(t *testing.T) {
	inv := testInvoice(t, lineItem("Miete", "1", "500", "0"))
	inv.Metadata.ServicePeriodStart = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	inv.Metadata.ServicePeriodEnd = time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	rec, _ := render(t, inv, nil)

	assert.Len(t, rec.texts("Leistungszeitraum:"), 1)
	assert.Len(t, rec.texts("01.01.2025 – 31.01.2025"), 1)
	assert.Empty(t, rec.texts("Leistungsdatum:"))
}

func TestEnglishLocale(t *testing.T) {
	inv := testInvoice(t, lineItem("Consulting", "1.5", "1000", "0"))
	inv.Locale = locale.EN
	rec, _ := render(t, inv, nil)

	assert.Len(t, rec.texts("Invoice"), 1)
	assert.Len(t, rec.texts("2025-01-05"), 1)
	assert.Len(t, rec.texts("€1,000.00"), 1)
	assert.Len(t, rec.texts("€1,500.00"), 2)
	assert.Len(t, rec.texts("Due date: 2025-01-19"), 1)
}

func TestNotesBreakAcrossPages(t *testing.T) {
	inv := testInvoice(t, lineItem("Beratung", "1", "50", "0"))
	for i := 0; i < 60; i++ {
		inv.Notes = append(inv.Notes, fmt.Sprintf("Hinweis Nummer %d", i))
	}
	rec, stats := render(t, inv, nil)

	require.Greater(t, stats.Pages, 1)
	for _, o := range rec.textsWithPrefix("Hinweis Nummer") {
		assert.GreaterOrEqual(t, o.Y, DefaultConfig().MarginBottom)
	}
}

func TestPaymentFooterStaysOnPage(t *testing.T) {
	cfg := DefaultConfig()
	for n := 20; n <= 40; n++ {
		var items []models.InvoiceItem
		for i := 0; i < n; i++ {
			items = append(items, lineItem(fmt.Sprintf("Position %d", i), "1", "1", "0"))
		}
		inv := testInvoice(t, items...)
		rec, stats := render(t, inv, nil)

		terms := rec.texts("Zahlungsziel: 14 Tage")
		require.Len(t, terms, 1)
		assert.Equal(t, stats.Pages, terms[0].Page, "%d items", n)
		for _, label := range []string{"Kontoinhaber:", "IBAN:", "BIC:"} {
			for _, o := range rec.textsWithPrefix(label) {
				assert.GreaterOrEqual(t, o.Y, cfg.MarginBottom, "%d items: %s below margin", n, label)
			}
		}
	}
}

func TestLogoOccupiesHeaderBand(t *testing.T) {
	cfg := DefaultConfig()
	inv := testInvoice(t, lineItem("Beratung", "1", "50", "0"))
	logo := &Image{Name: "logo", Format: "PNG", Data: []byte{1}}
	rec, stats := render(t, inv, logo)

	assert.Empty(t, stats.Warnings)
	var images []op
	for _, o := range rec.ops {
		if o.Kind == "image" {
			images = append(images, o)
		}
	}
	require.Len(t, images, 1)
	top := cfg.PageHeight - cfg.MarginTop
	assert.Equal(t, cfg.MarginLeft, images[0].X)
	assert.Equal(t, top-cfg.HeaderBand, images[0].Y)

	title := rec.texts("Rechnung")[0]
	assert.Less(t, title.Y, top-cfg.HeaderBand)
}

type mockSurface struct {
	mock.Mock
}

func (m *mockSurface) BeginPage()                                  { m.Called() }
func (m *mockSurface) EndPage()                                    { m.Called() }
func (m *mockSurface) Text(x, y float64, text string, style Style) { m.Called(x, y, text, style) }
func (m *mockSurface) TextRight(x, y float64, text string, style Style) {
	m.Called(x, y, text, style)
}
func (m *mockSurface) Line(x1, y1, x2, y2 float64, stroke Stroke) { m.Called(x1, y1, x2, y2, stroke) }
func (m *mockSurface) FillRect(x, y, w, h float64, fill Color)    { m.Called(x, y, w, h, fill) }
func (m *mockSurface) Image(img *Image, x, y, w, h float64) error {
	return m.Called(img, x, y, w, h).Error(0)
}
func (m *mockSurface) Save(w io.Writer) error { return m.Called(w).Error(0) }
func (m *mockSurface) Err() error             { return m.Called().Error(0) }

func TestLogoFailureIsNotFatal(t *testing.T) {
	cfg := DefaultConfig()
	inv := testInvoice(t, lineItem("Beratung", "1", "50", "0"))
	logo := &Image{Name: "logo", Format: "PNG"}

	m := &mockSurface{}
	m.On("BeginPage").Return()
	m.On("EndPage").Return()
	m.On("Text", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	m.On("TextRight", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	m.On("Line", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	m.On("FillRect", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	m.On("Image", logo, cfg.MarginLeft, cfg.PageHeight-cfg.MarginTop-cfg.HeaderBand, cfg.LogoWidth, cfg.LogoHeight).
		Return(errors.New("corrupt image")).Once()
	m.On("Err").Return(nil)

	stats, err := NewEngine(cfg).Render(inv, logo, m)
	require.NoError(t, err)
	require.Len(t, stats.Warnings, 1)
	assert.Contains(t, stats.Warnings[0], "corrupt image")
	m.AssertExpectations(t)
	m.AssertCalled(t, "Text", mock.Anything, mock.Anything, "Zahlungsziel: 14 Tage", mock.Anything)
}

func TestSurfaceErrorFailsRender(t *testing.T) {
	inv := testInvoice(t, lineItem("Beratung", "1", "50", "0"))

	m := &mockSurface{}
	m.On("BeginPage").Return()
	m.On("EndPage").Return()
	m.On("Text", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	m.On("TextRight", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	m.On("Line", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	m.On("FillRect", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	surfaceErr := errors.New("font not found")
	m.On("Err").Return(surfaceErr)

	_, err := NewEngine(DefaultConfig()).Render(inv, nil, m)
	assert.ErrorIs(t, err, surfaceErr)
}

func TestRenderIsDeterministic(t *testing.T) {
	inv := testInvoice(t, lineItem("Beratung mit einer etwas längeren Beschreibung als üblich", "1.25", "80", "19"))
	inv.VATMode = models.VATExclusive
	a, _ := render(t, inv, nil)
	b, _ := render(t, inv, nil)
	assert.Equal(t, a.ops, b.ops)
}

func pageRange(n int) []int {
	pages := make([]int, n)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// belowMargin returns the drawn content that reaches into the bottom margin,
// ignoring the page number footer.
func belowMargin(rec *recorder, cfg Config) []op {
	var out []op
	for _, o := range rec.ops {
		switch o.Kind {
		case "text", "right":
			if !strings.HasPrefix(o.Text, "Seite ") && o.Y < cfg.MarginBottom {
				out = append(out, o)
			}
		case "rect", "line":
			if min(o.Y, o.Y2) < cfg.MarginBottom {
				out = append(out, o)
			}
		}
	}
	return out
}

func TestLongClientAddressBreaksPage(t *testing.T) {
	inv := testInvoice(t, lineItem("Beratung", "1", "100", "0"))
	for i := 1; i <= 45; i++ {
		inv.Client.Address.Extra = append(inv.Client.Address.Extra, fmt.Sprintf("Abteilung %d", i))
	}

	rec, stats := render(t, inv, nil)

	assert.Empty(t, belowMargin(rec, DefaultConfig()))
	assert.GreaterOrEqual(t, stats.Pages, 2)
	for i := 1; i <= 45; i++ {
		assert.Len(t, rec.texts(fmt.Sprintf("Abteilung %d", i)), 1)
	}
	assert.Greater(t, rec.texts("Abteilung 45")[0].Page, 1)
}

func TestLongIssuerBlockKeepsTableHeaderWithRows(t *testing.T) {
	inv := testInvoice(t, lineItem("Beratung", "1", "100", "0"))
	for i := 1; i <= 40; i++ {
		inv.Issuer.Address.Extra = append(inv.Issuer.Address.Extra, fmt.Sprintf("Standort %d", i))
	}

	rec, stats := render(t, inv, nil)

	assert.Empty(t, belowMargin(rec, DefaultConfig()))
	require.Len(t, stats.HeaderPages, 1)
	rows := rec.texts("Beratung")
	require.Len(t, rows, 1)
	assert.Equal(t, stats.HeaderPages[0], rows[0].Page)
}

func TestNoContentBelowMargin(t *testing.T) {
	inv := testInvoice(t)
	inv.VATMode = models.VATExclusive
	for i := 0; i < 79; i++ {
		inv.Items = append(inv.Items, lineItem(strings.Repeat("Leistung ", i%12+1), "1", "10", []string{"0", "7", "19"}[i%3]))
	}
	inv.Notes = []string{strings.Repeat("Bitte überweisen Sie den Betrag fristgerecht. ", 30)}

	rec, _ := render(t, inv, nil)
	assert.Empty(t, belowMargin(rec, DefaultConfig()))
}
