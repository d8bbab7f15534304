package extract

import (
	"regexp"
	"strings"

	"github.com/dgallion1/h5pgen/internal/docmodel"
)

var (
	cluesMarkerRe  = regexp.MustCompile(`(?i)^Clues?:?\s*$`)
	orientationRe  = regexp.MustCompile(`(?i)^(Across|Down)`)
	inlineClueRe   = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
	numberedClueRe = regexp.MustCompile(`^(\d+)\.\s+(.+?)(?:\s*\(([^)]+)\))?\s*$`)
	allCapsRe      = regexp.MustCompile(`^[A-Z][A-Z\s-]+$`)
)

// AnswerMatcher selects candidate crossword answers from a paragraph's
// runs. The default treats bold formatting as the answer marker; it is
// an interface so a stricter matcher can replace the heuristic without
// touching the scanning state machine.
type AnswerMatcher interface {
	// InlineAnswers returns answers for clues embedded in an
	// orientation paragraph.
	InlineAnswers(p docmodel.Paragraph) []string
	// PairedAnswer returns the answer encoded in the paragraph that
	// follows a parenthetical clue, if any.
	PairedAnswer(p docmodel.Paragraph) (string, bool)
}

// boldRunMatcher is the authored-formatting heuristic: any bold run
// longer than two characters is a candidate answer. Incidental bold
// formatting elsewhere in the paragraph over-matches; kept for
// compatibility with the source documents.
type boldRunMatcher struct{}

func (boldRunMatcher) InlineAnswers(p docmodel.Paragraph) []string {
	var answers []string
	for _, r := range p.Runs {
		t := strings.TrimSpace(r.Text)
		if r.Bold && len(t) > 2 {
			answers = append(answers, collapseSpaces(strings.ToUpper(t)))
		}
	}
	return answers
}

func (boldRunMatcher) PairedAnswer(p docmodel.Paragraph) (string, bool) {
	for _, r := range p.Runs {
		t := strings.TrimSpace(r.Text)
		if !r.Bold || t == "" {
			continue
		}
		upper := strings.ToUpper(t)
		if allCapsRe.MatchString(upper) {
			return collapseSpaces(upper), true
		}
		return "", false
	}
	return "", false
}

// ExtractCrosswords sweeps the document with the default bold-run
// answer matcher.
func ExtractCrosswords(doc *docmodel.Document) []Crossword {
	return (&CrosswordExtractor{Matcher: boldRunMatcher{}}).Extract(doc)
}

// CrosswordExtractor accumulates clue/answer pairs inside crossword
// sections. Unlike the other sweeps it keeps an explicit cursor,
// because both clue patterns span two consecutive paragraphs that must
// be consumed together.
type CrosswordExtractor struct {
	Matcher AnswerMatcher
}

func (e *CrosswordExtractor) Extract(doc *docmodel.Document) []Crossword {
	var (
		crosswords  []Crossword
		current     *Crossword
		cls         crosswordClassifier
		orientation string
		collecting  bool
	)

	flush := func() {
		if current != nil && len(current.Clues) > 0 {
			crosswords = append(crosswords, *current)
		}
		current = nil
	}

	paras := doc.Paragraphs
	i := 0
	for i < len(paras) {
		para := paras[i]
		text := strings.TrimSpace(para.Text())
		if text == "" {
			i++
			continue
		}

		event, title := cls.observe(text)
		switch event {
		case eventEnter:
			flush()
			current = &Crossword{Title: title}
			orientation = ""
			collecting = false
			i++
			continue
		case eventExit:
			flush()
			i++
			continue
		}

		if !cls.active || current == nil {
			i++
			continue
		}

		if cluesMarkerRe.MatchString(text) {
			collecting = true
			i++
			continue
		}

		if om := orientationRe.FindStringSubmatch(text); om != nil {
			orientation = strings.ToLower(om[1])
			collecting = true
			e.extractInlineClues(para, text[len(om[0]):], orientation, current)
			i++
			continue
		}

		if !collecting || orientation == "" {
			i++
			continue
		}

		if consumed := e.tryCluePair(paras, i, text, orientation, current); consumed > 0 {
			i += consumed
			continue
		}
		i++
	}

	flush()
	return crosswords
}

// extractInlineClues handles orientation paragraphs that carry numbered
// clue lines after the "Across"/"Down" word. Every candidate answer in
// the paragraph is paired with each numbered clue found.
func (e *CrosswordExtractor) extractInlineClues(para docmodel.Paragraph, rest, orientation string, cw *Crossword) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return
	}
	answers := e.Matcher.InlineAnswers(para)
	if len(answers) == 0 {
		return
	}
	for _, line := range strings.Split(rest, "\n") {
		m := inlineClueRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		clue := strings.TrimSpace(m[2])
		for _, answer := range answers {
			cw.Clues = append(cw.Clues, CrosswordClue{
				Orientation: orientation,
				Clue:        clue,
				Answer:      answer,
			})
		}
	}
}

// tryCluePair attempts the two-paragraph clue conventions at cursor
// position i and returns how many paragraphs it consumed (0 if none
// matched).
//
// Pattern 1: "<n>. clue (hint)" followed by an all-caps answer
// paragraph. Pattern 2: a parenthetical clue followed by a paragraph
// whose bold run is the answer.
func (e *CrosswordExtractor) tryCluePair(paras []docmodel.Paragraph, i int, text, orientation string, cw *Crossword) int {
	if m := numberedClueRe.FindStringSubmatch(text); m != nil {
		if i+1 < len(paras) {
			next := strings.TrimSpace(paras[i+1].Text())
			if allCapsRe.MatchString(next) {
				cw.Clues = append(cw.Clues, CrosswordClue{
					Orientation: orientation,
					Clue:        strings.TrimSpace(m[2]),
					Answer:      collapseSpaces(next),
				})
				return 2
			}
		}
		return 0
	}

	if strings.Contains(text, "(") && strings.Contains(text, ")") {
		if i+1 < len(paras) {
			if answer, ok := e.Matcher.PairedAnswer(paras[i+1]); ok {
				cw.Clues = append(cw.Clues, CrosswordClue{
					Orientation: orientation,
					Clue:        text,
					Answer:      answer,
				})
				return 2
			}
		}
	}
	return 0
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
