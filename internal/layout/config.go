package layout

// Config holds the page geometry and every tuning constant of the engine.
// Lengths are millimetres, font sizes points.
type Config struct {
	PageWidth    float64
	PageHeight   float64
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64

	LineHeight      float64 // general text line advance
	RowHeight       float64 // items table body row
	HeaderRowHeight float64 // items table header row
	CellPadding     float64
	BlockGap        float64 // vertical gap between blocks
	InfoValueOffset float64 // x offset of values in the invoice info block

	WrapWidth      int // description characters per table row
	NotesWrapWidth int // characters per notes/footer line

	// PageBreakThreshold is the minimum space above the bottom margin needed
	// before another line is rendered; below it a new page is started.
	PageBreakThreshold float64
	// PaymentReserve is added to PageBreakThreshold before the payment footer
	// so that the footer is never split.
	PaymentReserve float64

	HeaderBand float64 // height of the top band holding the logo
	LogoWidth  float64
	LogoHeight float64

	FontFamily string
}

// DefaultConfig returns an A4 portrait layout with 20 mm margins.
func DefaultConfig() Config {
	return Config{
		PageWidth:    210,
		PageHeight:   297,
		MarginTop:    20,
		MarginBottom: 20,
		MarginLeft:   20,
		MarginRight:  20,

		LineHeight:      5,
		RowHeight:       6,
		HeaderRowHeight: 8,
		CellPadding:     2,
		BlockGap:        8,
		InfoValueOffset: 45,

		WrapWidth:      50,
		NotesWrapWidth: 95,

		PageBreakThreshold: 25,
		PaymentReserve:     45,

		HeaderBand: 50,
		LogoWidth:  45,
		LogoHeight: 45,

		FontFamily: "Helvetica",
	}
}

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}

// Style describes how a text run is drawn.
type Style struct {
	Family string
	Bold   bool
	Size   float64
	Color  Color
}

// Stroke describes how a line is drawn.
type Stroke struct {
	Width float64
	Color Color
}

var (
	colorText   = Color{R: 26, G: 26, B: 26}
	colorBody   = Color{R: 51, G: 51, B: 51}
	colorMuted  = Color{R: 128, G: 128, B: 128}
	colorHeader = Color{R: 77, G: 77, B: 77}
	colorFill   = Color{R: 242, G: 242, B: 242}
	colorRule   = Color{R: 217, G: 217, B: 217}
)

// styles are derived from the configured font family once per engine.
type styles struct {
	title, name, body, bold, muted, small, header, total Style
	rule, heavyRule                                      Stroke
}

func newStyles(family string) styles {
	return styles{
		title:     Style{Family: family, Bold: true, Size: 18, Color: colorText},
		name:      Style{Family: family, Bold: true, Size: 11, Color: colorText},
		body:      Style{Family: family, Size: 10, Color: colorBody},
		bold:      Style{Family: family, Bold: true, Size: 10, Color: colorText},
		muted:     Style{Family: family, Size: 9, Color: colorMuted},
		small:     Style{Family: family, Size: 8, Color: colorMuted},
		header:    Style{Family: family, Bold: true, Size: 9, Color: colorHeader},
		total:     Style{Family: family, Bold: true, Size: 12, Color: colorText},
		rule:      Stroke{Width: 0.3, Color: colorRule},
		heavyRule: Stroke{Width: 0.5, Color: colorHeader},
	}
}
