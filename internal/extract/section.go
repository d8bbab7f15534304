package extract

import (
	"regexp"
	"strings"

	"github.com/dgallion1/h5pgen/internal/docmodel"
)

// Section boundaries are the only reliable anchors in these documents.
// Each question type has its own classifier so one sweep's state can
// never leak into another's.

var (
	quizSectionRe     = regexp.MustCompile(`(?i)Activity\s*1.*quiz`)
	quizQuestionRe    = regexp.MustCompile(`(?i)quiz.*question`)
	laterActivityRe   = regexp.MustCompile(`(?i)Activity\s*[2-9]`)
	crosswordHeaderRe = regexp.MustCompile(`(?i)Activity\s*3,?\s*Part\s+(I+)[-\s]*Crossword\s*Puzzle:?(.*)$`)
	unitTwoRe         = regexp.MustCompile(`(?i)Unit\s*2`)
	activityFourRe    = regexp.MustCompile(`(?i)Activity\s*4`)
)

// sectionEvent is what a classifier observed on one paragraph.
type sectionEvent int

const (
	eventNone sectionEvent = iota
	eventEnter
	eventExit
)

// quizClassifier tracks whether the scan is inside the multiple-choice
// quiz activity.
type quizClassifier struct {
	active bool
}

func (c *quizClassifier) observe(text string) sectionEvent {
	if quizSectionRe.MatchString(text) || quizQuestionRe.MatchString(text) {
		c.active = true
		return eventEnter
	}
	if c.active && laterActivityRe.MatchString(text) {
		c.active = false
		return eventExit
	}
	return eventNone
}

// trueFalseClassifier tracks the true/false activity. The section ends
// at the next bolded header that mentions another activity or quiz
// without mentioning true/false, so a "true or false" header can never
// terminate its own section.
type trueFalseClassifier struct {
	active bool
}

func (c *trueFalseClassifier) observe(para docmodel.Paragraph, text string) sectionEvent {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "true or false") || strings.Contains(lower, "true/false") {
		c.active = true
		return eventEnter
	}
	if c.active && isBoldHeader(para, text) &&
		(strings.Contains(lower, "activity") || strings.Contains(lower, "quiz")) &&
		!strings.Contains(lower, "true") && !strings.Contains(lower, "false") {
		c.active = false
		return eventExit
	}
	return eventNone
}

// crosswordClassifier recognizes "Activity 3, Part <roman> - Crossword
// Puzzle" headers and the triggers that close the final puzzle.
type crosswordClassifier struct {
	active bool
}

// observe returns the event plus the rebuilt title on entry.
func (c *crosswordClassifier) observe(text string) (sectionEvent, string) {
	if m := crosswordHeaderRe.FindStringSubmatch(text); m != nil {
		c.active = true
		title := "Activity 3, Part " + m[1] + " - Crossword Puzzle"
		if suffix := strings.TrimSpace(m[2]); suffix != "" {
			title += ": " + suffix
		}
		return eventEnter, title
	}
	if unitTwoRe.MatchString(text) || activityFourRe.MatchString(text) {
		c.active = false
		return eventExit, ""
	}
	return eventNone, ""
}

// isBoldHeader reports whether a paragraph renders as a bold heading:
// either every non-blank run carries the bold attribute, or the text
// still carries literal ** markup from a markdown-roundtripped source.
func isBoldHeader(para docmodel.Paragraph, text string) bool {
	if strings.HasPrefix(text, "**") {
		return true
	}
	seen := false
	for _, r := range para.Runs {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		if !r.Bold {
			return false
		}
		seen = true
	}
	return seen
}
