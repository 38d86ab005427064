package layout

import "io"

// Surface is a sequential page-drawing sink. Coordinates are millimetres with
// the origin at the bottom-left corner of the page; y grows upward and text
// is positioned by its baseline.
type Surface interface {
	BeginPage()
	EndPage()

	Text(x, y float64, text string, style Style)
	// TextRight draws text so that it ends at x.
	TextRight(x, y float64, text string, style Style)
	Line(x1, y1, x2, y2 float64, stroke Stroke)
	FillRect(x, y, w, h float64, fill Color)
	// Image draws img scaled into the w×h box anchored at (x, y), keeping its
	// aspect ratio. A failure leaves the surface usable.
	Image(img *Image, x, y, w, h float64) error

	// Save writes the finished document.
	Save(w io.Writer) error
	// Err reports the first drawing error, if any.
	Err() error
}

// Image is a decoded-enough raster resource ready for a Surface.
type Image struct {
	Name   string // unique key within one document
	Format string // "PNG", "JPG" or "GIF"
	Data   []byte
}
