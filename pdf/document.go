// Package pdf lays out single-page certificate documents and turns them into
// PDF bytes.
package pdf

import "context"

type Weight int

const (
	Regular Weight = iota
	Bold
)

// Color components are in [0,1].
type Color struct {
	R, G, B float64
}

var Black = Color{}

// Text is a horizontally centered line. Y is the distance of the line from the
// bottom of the page as a fraction of page height.
type Text struct {
	Content string
	Size    float64
	Weight  Weight
	Color   Color
	Y       float64
}

// Image is placed in page pixels with the origin at the bottom-left corner.
type Image struct {
	Data   []byte
	Format string
	X, Y   float64
	Width  float64
	Height float64
}

// Document is one page sized in pixels. Background is drawn first and covers
// the whole page; Images then Texts are drawn on top.
type Document struct {
	Width      int
	Height     int
	Background Image
	Images     []Image
	Texts      []Text
}

// CenteredX returns the x offset that centers width on the page.
func (d Document) CenteredX(width float64) float64 {
	return (float64(d.Width) - width) / 2
}

type Composer interface {
	Compose(ctx context.Context, doc Document) ([]byte, error)
}
