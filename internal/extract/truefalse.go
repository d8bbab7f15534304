package extract

import (
	"regexp"
	"strings"

	"github.com/dgallion1/h5pgen/internal/docmodel"
)

var (
	boolTokenRe      = regexp.MustCompile(`(?i)\b(true|false)\b`)
	tfTrailingRe     = regexp.MustCompile(`(?i)\b(true|false)\s*$`)
	tfTrailingMarkRe = regexp.MustCompile(`(?i)\*\*(true|false)\*\*\s*$`)
)

// ExtractTrueFalse sweeps the document for true/false statements. A
// paragraph qualifies when the section classifier is active and its
// text ends in a boolean token.
func ExtractTrueFalse(doc *docmodel.Document) []TrueFalseQuestion {
	var questions []TrueFalseQuestion
	var cls trueFalseClassifier

	for _, para := range doc.Paragraphs {
		text := strings.TrimSpace(para.Text())
		if text == "" {
			continue
		}
		if cls.observe(para, text) != eventNone {
			continue
		}
		if !cls.active || !isTrueFalseStatement(text) {
			continue
		}
		if q, answer, ok := parseTrueFalse(para); ok {
			questions = append(questions, TrueFalseQuestion{
				Question:      q,
				CorrectAnswer: answer,
			})
		}
	}
	return questions
}

// isTrueFalseStatement reports whether text asserts a trailing boolean,
// optionally wrapped in ** markup.
func isTrueFalseStatement(text string) bool {
	return tfTrailingRe.MatchString(text) || tfTrailingMarkRe.MatchString(text)
}

// parseTrueFalse locates the last whole-word true/false token and
// decides the answer from the boldness of the run containing it. The
// authoring convention bolds only the correct word, so a non-bold
// trailing token means the visible assertion is the distractor and the
// answer is its negation. An unlocatable token offset counts as not
// bold.
func parseTrueFalse(para docmodel.Paragraph) (question, answer string, ok bool) {
	parts := significantRuns(para)
	if len(parts) == 0 {
		return "", "", false
	}

	var sb strings.Builder
	for _, r := range parts {
		sb.WriteString(r.Text)
	}
	fullText := sb.String()

	matches := boolTokenRe.FindAllStringSubmatchIndex(fullText, -1)
	if len(matches) == 0 {
		return "", "", false
	}
	last := matches[len(matches)-1]
	start := last[0]
	token := strings.ToLower(fullText[last[2]:last[3]])

	bold := false
	pos := 0
	for _, r := range parts {
		if pos <= start && start < pos+len(r.Text) {
			bold = r.Bold
			break
		}
		pos += len(r.Text)
	}

	question = strings.TrimSpace(fullText[:start])
	if question == "" {
		return "", "", false
	}

	if bold {
		answer = token
	} else if token == "true" {
		answer = "false"
	} else {
		answer = "true"
	}
	return question, answer, true
}

// significantRuns drops whitespace-only runs, preserving the text of
// the rest so character offsets stay aligned with the joined string.
func significantRuns(para docmodel.Paragraph) []docmodel.Run {
	out := make([]docmodel.Run, 0, len(para.Runs))
	for _, r := range para.Runs {
		if strings.TrimSpace(r.Text) != "" {
			out = append(out, r)
		}
	}
	return out
}
