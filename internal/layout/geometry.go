package layout

// columnShares are the proportions of description, quantity, unit price and
// amount columns of the content width.
var columnShares = [4]float64{0.55, 0.12, 0.16, 0.17}

// Geometry is the horizontal layout derived once from a Config.
type Geometry struct {
	Left  float64
	Right float64
	Width float64
	// Columns holds the five column boundaries from the left content edge to
	// the right content edge; Columns[1:4] are the internal separators.
	Columns [5]float64
}

// NewGeometry derives the column boundaries from page width and margins.
func NewGeometry(cfg Config) Geometry {
	g := Geometry{
		Left:  cfg.MarginLeft,
		Right: cfg.PageWidth - cfg.MarginRight,
	}
	g.Width = g.Right - g.Left

	x := g.Left
	g.Columns[0] = x
	for i, share := range columnShares[:3] {
		x += g.Width * share
		g.Columns[i+1] = x
	}
	g.Columns[4] = g.Right
	return g
}

// Separators returns the three internal column boundaries.
func (g Geometry) Separators() []float64 {
	return g.Columns[1:4]
}
