package parser

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/dgallion1/h5pgen/internal/docmodel"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files.
type DOCXParser struct {
	Opts Options
	Log  *slog.Logger
}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*docmodel.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "h5pgen-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	out := &docmodel.Document{
		Title:  titleFromFilename(filename),
		Images: make(map[string]docmodel.ImageRef),
	}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		out.Paragraphs = append(out.Paragraphs, p.convertParagraph(doc, para, out))
	}

	return out, nil
}

// convertParagraph flattens a docx paragraph into runs, mapping breaks
// to embedded newlines and recording drawing relationship ids. Embedded
// images are resolved into the document image map as they are seen; a
// failed lookup is logged and skipped, never fatal.
func (p *DOCXParser) convertParagraph(doc *docx.Docx, para *docx.Paragraph, out *docmodel.Document) docmodel.Paragraph {
	var dp docmodel.Paragraph

	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		bold := run.RunProperties != nil && run.RunProperties.Bold != nil

		var sb strings.Builder
		for _, rc := range run.Children {
			switch c := rc.(type) {
			case *docx.Text:
				sb.WriteString(c.Text)
			case *docx.Tab:
				sb.WriteByte('\t')
			case *docx.BarterRabbet: // w:br
				sb.WriteByte('\n')
			case *docx.Drawing:
				if id := drawingEmbedID(c); id != "" {
					dp.ImageIDs = append(dp.ImageIDs, id)
					p.resolveImage(doc, id, out)
				}
			}
		}
		if sb.Len() > 0 {
			dp.Runs = append(dp.Runs, docmodel.Run{Text: sb.String(), Bold: bold})
		}
	}

	return dp
}

// resolveImage loads the media bytes behind a drawing relationship id
// into the document image map.
func (p *DOCXParser) resolveImage(doc *docx.Docx, relID string, out *docmodel.Document) {
	if _, ok := out.Images[relID]; ok {
		return
	}

	target, err := doc.ReferTarget(relID)
	if err != nil {
		p.log().Warn("could not resolve image relationship", "rel_id", relID, "error", err)
		return
	}
	media := doc.Media(path.Base(target))
	if media == nil {
		p.log().Warn("image media not found in package", "rel_id", relID, "target", target)
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(target)), ".")
	if ext == "jpeg" {
		ext = "jpg"
	}
	out.Images[relID] = docmodel.ImageRef{
		ID:     relID,
		Name:   fmt.Sprintf("image_%s.%s", relID, ext),
		Mime:   mimeForExt(ext),
		Data:   media.Data,
		Width:  p.Opts.ImageWidth,
		Height: p.Opts.ImageHeight,
	}
}

func (p *DOCXParser) log() *slog.Logger {
	if p.Log != nil {
		return p.Log
	}
	return slog.Default()
}

// drawingEmbedID digs the r:embed relationship id out of an inline or
// anchored drawing.
func drawingEmbedID(d *docx.Drawing) string {
	var graphic *docx.AGraphic
	switch {
	case d.Inline != nil:
		graphic = d.Inline.Graphic
	case d.Anchor != nil:
		graphic = d.Anchor.Graphic
	}
	if graphic == nil || graphic.GraphicData == nil || graphic.GraphicData.Pic == nil {
		return ""
	}
	pic := graphic.GraphicData.Pic
	if pic.BlipFill == nil {
		return ""
	}
	return pic.BlipFill.Blip.Embed
}

func mimeForExt(ext string) string {
	switch ext {
	case "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "svg":
		return "image/svg+xml"
	case "emf":
		return "image/x-emf"
	case "wmf":
		return "image/x-wmf"
	default:
		return "image/" + ext
	}
}
