package extract

import (
	"regexp"
	"strings"

	"github.com/dgallion1/h5pgen/internal/docmodel"
)

var (
	mcQuestionRe = regexp.MustCompile(`^(\d+)\.\s*(.+?)\?\s*$`)
	mcOptionRe   = regexp.MustCompile(`^([A-D])\.\s+(.+)$`)
)

// Paragraph window searched for an image belonging to a question.
const (
	imageSearchBefore = 5
	imageSearchAfter  = 3
)

// ExtractMultipleChoice sweeps the document for numbered multi-line
// question paragraphs inside the quiz activity. Option correctness is
// derived from run-level boldness, since a single logical option line
// routinely mixes bold and non-bold runs.
func ExtractMultipleChoice(doc *docmodel.Document) []MultipleChoiceQuestion {
	var questions []MultipleChoiceQuestion
	var cls quizClassifier
	sectionImageID := ""

	for idx, para := range doc.Paragraphs {
		text := strings.TrimSpace(para.Text())
		if text == "" {
			continue
		}

		switch cls.observe(text) {
		case eventEnter:
			// The section header is often followed or preceded by a
			// shared illustration used by every question in it.
			sectionImageID = findImageNear(doc, idx)
			continue
		case eventExit:
			continue
		}
		if !cls.active {
			continue
		}

		q, ok := parseMultipleChoice(para, text)
		if !ok {
			continue
		}
		q.ImageID = findImageNear(doc, idx)
		if q.ImageID == "" {
			q.ImageID = sectionImageID
		}
		questions = append(questions, q)
	}
	return questions
}

// parseMultipleChoice splits a paragraph's rendered text on embedded
// line breaks and reads the stem from the first line and options from
// the rest.
func parseMultipleChoice(para docmodel.Paragraph, text string) (MultipleChoiceQuestion, bool) {
	lines := strings.Split(text, "\n")
	m := mcQuestionRe.FindStringSubmatch(lines[0])
	if m == nil || len(lines) < 2 {
		return MultipleChoiceQuestion{}, false
	}

	question := strings.TrimSpace(m[2])
	if !strings.HasSuffix(question, "?") {
		question += "?"
	}

	buckets := mapLinesToRuns(lines, para.Runs)

	var options []Option
	for i, line := range lines[1:] {
		om := mcOptionRe.FindStringSubmatch(line)
		if om == nil {
			continue
		}
		options = append(options, Option{
			Text:    strings.TrimRight(strings.TrimSpace(om[2]), "."),
			Correct: anyBoldRun(buckets[i+1]),
		})
	}
	if len(options) == 0 {
		return MultipleChoiceQuestion{}, false
	}

	return MultipleChoiceQuestion{Question: question, Options: options}, true
}

// mapLinesToRuns determines, for each physical line of a paragraph,
// the set of runs that contributed characters to it. Runs do not
// respect line boundaries: one run may span a break or cover only a
// fragment of an option. The cursor consumes each run's text byte by
// byte against the current line, advancing to the next line on an
// embedded newline or when the line buffer is exhausted.
func mapLinesToRuns(lines []string, runs []docmodel.Run) [][]docmodel.Run {
	buckets := make([][]docmodel.Run, len(lines))
	lastRun := make([]int, len(lines))
	for i := range lastRun {
		lastRun[i] = -1
	}

	line, off := 0, 0
	for ri, run := range runs {
		for bi := 0; bi < len(run.Text); bi++ {
			if line >= len(lines) {
				return buckets
			}
			if run.Text[bi] == '\n' {
				line++
				off = 0
				continue
			}
			for off >= len(lines[line]) {
				line++
				off = 0
				if line >= len(lines) {
					return buckets
				}
			}
			if lastRun[line] != ri {
				buckets[line] = append(buckets[line], run)
				lastRun[line] = ri
			}
			off++
		}
	}
	return buckets
}

// anyBoldRun reports whether any non-whitespace run in the bucket is
// bold.
func anyBoldRun(runs []docmodel.Run) bool {
	for _, r := range runs {
		if r.Bold && strings.TrimSpace(r.Text) != "" {
			return true
		}
	}
	return false
}

// findImageNear returns the relationship id of the first embedded
// image in a bounded window around a paragraph index, or "".
func findImageNear(doc *docmodel.Document, idx int) string {
	lo := max(0, idx-imageSearchBefore)
	hi := min(len(doc.Paragraphs), idx+imageSearchAfter)
	for i := lo; i < hi; i++ {
		if ids := doc.Paragraphs[i].ImageIDs; len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}
