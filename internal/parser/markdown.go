package parser

import (
	"io"
	"strconv"

	"github.com/dgallion1/h5pgen/internal/docmodel"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown quiz documents using goldmark.
// Strong emphasis maps to bold runs, so the same boldness conventions
// the DOCX documents use carry over.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*docmodel.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	out := &docmodel.Document{
		Title:  titleFromFilename(filename),
		Images: make(map[string]docmodel.ImageRef),
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		out.Paragraphs = append(out.Paragraphs, blockParagraphs(n, src)...)
	}

	return out, nil
}

// blockParagraphs converts one top-level block into zero or more
// paragraphs. Headings become all-bold paragraphs, matching how the
// section classifier treats bolded headers.
func blockParagraphs(n ast.Node, src []byte) []docmodel.Paragraph {
	switch node := n.(type) {
	case *ast.Heading:
		var runs []docmodel.Run
		appendInlineRuns(node, src, true, &runs)
		if len(runs) == 0 {
			return nil
		}
		return []docmodel.Paragraph{{Runs: runs}}

	case *ast.Paragraph, *ast.TextBlock:
		var runs []docmodel.Run
		appendInlineRuns(n, src, false, &runs)
		if len(runs) == 0 {
			return nil
		}
		return []docmodel.Paragraph{{Runs: runs}}

	case *ast.List:
		// Numbered quiz items arrive as ordered lists; rebuild the
		// "<n>. " prefix the extraction patterns key on.
		var paras []docmodel.Paragraph
		num := node.Start
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			var runs []docmodel.Run
			if node.IsOrdered() {
				runs = append(runs, docmodel.Run{Text: itemPrefix(num)})
				num++
			}
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				appendInlineRuns(c, src, false, &runs)
			}
			if len(runs) > 0 {
				paras = append(paras, docmodel.Paragraph{Runs: runs})
			}
		}
		return paras
	}
	return nil
}

func itemPrefix(n int) string {
	if n <= 0 {
		n = 1
	}
	return strconv.Itoa(n) + ". "
}

// appendInlineRuns walks inline children collecting runs, tracking
// whether the current nesting is strong emphasis.
func appendInlineRuns(n ast.Node, src []byte, bold bool, runs *[]docmodel.Run) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			t := string(node.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				t += "\n"
			}
			if t != "" {
				*runs = append(*runs, docmodel.Run{Text: t, Bold: bold})
			}
		case *ast.String:
			if len(node.Value) > 0 {
				*runs = append(*runs, docmodel.Run{Text: string(node.Value), Bold: bold})
			}
		case *ast.Emphasis:
			appendInlineRuns(node, src, bold || node.Level >= 2, runs)
		case *ast.CodeSpan:
			appendInlineRuns(node, src, bold, runs)
		default:
			appendInlineRuns(c, src, bold, runs)
		}
	}
}
