package layout

import (
	"fmt"
	"io"
	"strings"
)

// op is one recorded draw command.
type op struct {
	Kind  string // begin, end, text, right, line, rect, image
	Page  int
	X, Y  float64
	X2    float64
	Y2    float64
	Text  string
	Style Style
}

// recorder is a Surface that keeps every command for inspection.
type recorder struct {
	ops      []op
	page     int
	imageErr error
}

func (r *recorder) BeginPage() {
	r.page++
	r.ops = append(r.ops, op{Kind: "begin", Page: r.page})
}

func (r *recorder) EndPage() {
	r.ops = append(r.ops, op{Kind: "end", Page: r.page})
}

func (r *recorder) Text(x, y float64, text string, style Style) {
	r.ops = append(r.ops, op{Kind: "text", Page: r.page, X: x, Y: y, Text: text, Style: style})
}

func (r *recorder) TextRight(x, y float64, text string, style Style) {
	r.ops = append(r.ops, op{Kind: "right", Page: r.page, X: x, Y: y, Text: text, Style: style})
}

func (r *recorder) Line(x1, y1, x2, y2 float64, _ Stroke) {
	r.ops = append(r.ops, op{Kind: "line", Page: r.page, X: x1, Y: y1, X2: x2, Y2: y2})
}

func (r *recorder) FillRect(x, y, w, h float64, _ Color) {
	r.ops = append(r.ops, op{Kind: "rect", Page: r.page, X: x, Y: y, X2: x + w, Y2: y + h})
}

func (r *recorder) Image(img *Image, x, y, w, h float64) error {
	if r.imageErr != nil {
		return r.imageErr
	}
	r.ops = append(r.ops, op{Kind: "image", Page: r.page, X: x, Y: y, X2: x + w, Y2: y + h, Text: img.Name})
	return nil
}

func (r *recorder) Save(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d pages", r.page)
	return err
}

func (r *recorder) Err() error { return nil }

// texts returns all text commands, left or right aligned, whose text equals s.
func (r *recorder) texts(s string) []op {
	var out []op
	for _, o := range r.ops {
		if (o.Kind == "text" || o.Kind == "right") && o.Text == s {
			out = append(out, o)
		}
	}
	return out
}

// textsWithPrefix returns text commands starting with prefix.
func (r *recorder) textsWithPrefix(prefix string) []op {
	var out []op
	for _, o := range r.ops {
		if (o.Kind == "text" || o.Kind == "right") && strings.HasPrefix(o.Text, prefix) {
			out = append(out, o)
		}
	}
	return out
}

// sequence returns the texts in drawing order.
func (r *recorder) sequence() []string {
	var out []string
	for _, o := range r.ops {
		if o.Kind == "text" || o.Kind == "right" {
			out = append(out, o.Text)
		}
	}
	return out
}
