package layout

// Context is the mutable layout state threaded through every rendering stage.
// Stages take a Context and return the updated one; nothing else carries
// cursor or page state.
type Context struct {
	// Y is the write cursor measured from the page bottom; it decreases as
	// content is added.
	Y float64
	// Page is the 1-based index of the current page, zero before the first.
	Page int
	// SegmentTop is the top of the items table body on the current page.
	SegmentTop float64
	// LastRowBottom is the bottom of the last rendered table row.
	LastRowBottom float64
	// ItemLines counts rendered item table rows.
	ItemLines int
	// HeaderPages lists the pages on which the items table header was drawn.
	HeaderPages []int
}

// Remaining is the vertical space left above the bottom margin.
func (c Context) Remaining(cfg Config) float64 {
	return c.Y - cfg.MarginBottom
}

// Advance moves the cursor down by h.
func (c Context) Advance(h float64) Context {
	c.Y -= h
	return c
}
