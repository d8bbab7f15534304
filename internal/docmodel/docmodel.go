package docmodel

import "strings"

// Run is a contiguous span of paragraph text with uniform formatting.
type Run struct {
	Text string
	Bold bool
}

// Paragraph is an ordered sequence of runs. Internal line breaks are
// encoded as newline characters inside run text; individual runs do
// not necessarily respect line boundaries.
type Paragraph struct {
	Runs []Run

	// ImageIDs holds relationship ids of drawings anchored in this
	// paragraph, in document order.
	ImageIDs []string
}

// Text returns the concatenation of all run texts.
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// ImageRef is an embedded image resolved from the document package.
type ImageRef struct {
	ID     string // relationship id, e.g. "rId7"
	Name   string // filename used when the image is saved, e.g. "image_rId7.png"
	Mime   string
	Data   []byte
	Width  int
	Height int
}

// Document is the adapter-level view of a quiz document: an ordered
// paragraph sequence plus a relationship-id lookup for embedded images.
type Document struct {
	Title      string
	Paragraphs []Paragraph
	Images     map[string]ImageRef
}

// Image returns the image for a relationship id, if present.
func (d *Document) Image(id string) (ImageRef, bool) {
	img, ok := d.Images[id]
	return img, ok
}
