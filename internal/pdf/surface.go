// Package pdf implements the layout drawing surface on top of go-pdf/fpdf.
package pdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
	"invoicegen/internal/layout"
	"invoicegen/internal/logger"
)

var _ layout.Surface = (*Surface)(nil)

// Surface draws layout commands into an fpdf document. Layout coordinates
// have their origin at the bottom-left corner; fpdf measures y from the top,
// so every y is flipped against the page height.
type Surface struct {
	doc        *fpdf.Fpdf
	pageHeight float64
	tr         func(string) string
	images     map[string]*fpdf.ImageInfoType
	pages      int
	log        zerolog.Logger
}

// DocumentInfo is written into the PDF metadata dictionary.
type DocumentInfo struct {
	Title   string
	Author  string
	Subject string
	Created time.Time
}

// NewSurface creates an empty document sized after cfg. Built-in fonts are
// used with a cp1252 translator so that umlauts and the euro sign survive.
func NewSurface(cfg layout.Config) *Surface {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: cfg.PageWidth, Ht: cfg.PageHeight},
	})
	doc.SetMargins(cfg.MarginLeft, cfg.MarginTop, cfg.MarginRight)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("invoicegen", true)
	doc.SetCatalogSort(true)

	return &Surface{
		doc:        doc,
		pageHeight: cfg.PageHeight,
		tr:         doc.UnicodeTranslatorFromDescriptor(""),
		images:     make(map[string]*fpdf.ImageInfoType),
		log:        logger.WithComponent("pdf"),
	}
}

// SetInfo sets document metadata. A non-zero Created time also fixes the
// creation and modification dates, which keeps output byte-stable.
func (s *Surface) SetInfo(info DocumentInfo) {
	s.doc.SetTitle(info.Title, true)
	s.doc.SetAuthor(info.Author, true)
	if info.Subject != "" {
		s.doc.SetSubject(info.Subject, true)
	}
	if !info.Created.IsZero() {
		s.doc.SetCreationDate(info.Created)
		s.doc.SetModificationDate(info.Created)
	}
}

func (s *Surface) BeginPage() {
	s.doc.AddPage()
	s.pages++
}

// EndPage is a no-op; fpdf closes a page when the next one is added or the
// document is written.
func (s *Surface) EndPage() {}

func (s *Surface) Text(x, y float64, text string, style layout.Style) {
	s.applyStyle(style)
	s.doc.Text(x, s.pageHeight-y, s.tr(text))
}

func (s *Surface) TextRight(x, y float64, text string, style layout.Style) {
	s.applyStyle(style)
	encoded := s.tr(text)
	s.doc.Text(x-s.doc.GetStringWidth(encoded), s.pageHeight-y, encoded)
}

func (s *Surface) Line(x1, y1, x2, y2 float64, stroke layout.Stroke) {
	s.doc.SetLineWidth(stroke.Width)
	s.doc.SetDrawColor(int(stroke.Color.R), int(stroke.Color.G), int(stroke.Color.B))
	s.doc.Line(x1, s.pageHeight-y1, x2, s.pageHeight-y2)
}

func (s *Surface) FillRect(x, y, w, h float64, fill layout.Color) {
	s.doc.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
	s.doc.Rect(x, s.pageHeight-y-h, w, h, "F")
}

// Image fits img into the w×h box whose bottom-left corner is (x, y),
// preserving the aspect ratio and aligning it to the top-left of the box.
func (s *Surface) Image(img *layout.Image, x, y, w, h float64) error {
	const op = "pdf.Image"

	info, ok := s.images[img.Name]
	if !ok {
		if _, _, err := image.DecodeConfig(bytes.NewReader(img.Data)); err != nil {
			return fmt.Errorf("%s: decode %s: %w", op, img.Name, err)
		}

		info = s.doc.RegisterImageOptionsReader(img.Name, fpdf.ImageOptions{ImageType: img.Format}, bytes.NewReader(img.Data))
		if err := s.doc.Error(); err != nil {
			// fpdf errors are sticky; clear it so the rest of the page still draws.
			s.doc.ClearError()
			return fmt.Errorf("%s: register %s: %w", op, img.Name, err)
		}
		s.images[img.Name] = info
	}

	iw, ih := info.Width(), info.Height()
	if iw <= 0 || ih <= 0 {
		return fmt.Errorf("%s: %s has no extent", op, img.Name)
	}
	scale := min(w/iw, h/ih)
	dw, dh := iw*scale, ih*scale

	s.doc.ImageOptions(img.Name, x, s.pageHeight-(y+h), dw, dh, false, fpdf.ImageOptions{ImageType: img.Format}, 0, "")
	if err := s.doc.Error(); err != nil {
		s.doc.ClearError()
		return fmt.Errorf("%s: draw %s: %w", op, img.Name, err)
	}
	return nil
}

// Save writes the document to w. The surface cannot be drawn on afterwards.
func (s *Surface) Save(w io.Writer) error {
	if err := s.doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	s.log.Debug().Int("pages", s.pages).Msg("PDF document written")
	return nil
}

func (s *Surface) Err() error {
	return s.doc.Error()
}

// Pages reports how many pages have been started.
func (s *Surface) Pages() int {
	return s.pages
}

func (s *Surface) applyStyle(style layout.Style) {
	weight := ""
	if style.Bold {
		weight = "B"
	}
	s.doc.SetFont(style.Family, weight, style.Size)
	s.doc.SetTextColor(int(style.Color.R), int(style.Color.G), int(style.Color.B))
}
