package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/h5pgen/internal/docmodel"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML quiz documents. <b>/<strong> subtrees become
// bold runs; <br> becomes an embedded line break.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*docmodel.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	out := &docmodel.Document{
		Title:  titleFromFilename(filename),
		Images: make(map[string]docmodel.ImageRef),
	}
	if title := findTitle(doc); title != "" {
		out.Title = title
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6":
				bold := strings.HasPrefix(n.Data, "h")
				para := elementParagraph(n, bold)
				if len(para.Runs) > 0 {
					out.Paragraphs = append(out.Paragraphs, para)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	body := findBody(doc)
	if body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return out, nil
}

// elementParagraph flattens one block element into runs.
func elementParagraph(n *html.Node, bold bool) docmodel.Paragraph {
	var runs []docmodel.Run
	var collect func(*html.Node, bool)
	collect = func(n *html.Node, bold bool) {
		switch n.Type {
		case html.TextNode:
			if n.Data != "" {
				runs = append(runs, docmodel.Run{Text: n.Data, Bold: bold})
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "br":
				runs = append(runs, docmodel.Run{Text: "\n", Bold: bold})
				return
			case "b", "strong":
				bold = true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c, bold)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, bold)
	}
	return docmodel.Paragraph{Runs: trimParagraphRuns(runs)}
}

// trimParagraphRuns strips leading/trailing whitespace-only runs and
// drops paragraphs that are pure whitespace.
func trimParagraphRuns(runs []docmodel.Run) []docmodel.Run {
	start, end := 0, len(runs)
	for start < end && strings.TrimSpace(runs[start].Text) == "" {
		start++
	}
	for end > start && strings.TrimSpace(runs[end-1].Text) == "" {
		end--
	}
	return runs[start:end]
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var buf strings.Builder
		var extract func(*html.Node)
		extract = func(n *html.Node) {
			if n.Type == html.TextNode {
				buf.WriteString(n.Data)
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				extract(c)
			}
		}
		extract(n)
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
