// Package extract reconstructs quiz questions from the paragraph/run
// model of a hand-authored activity document. Section headers,
// numbering patterns and bold markup are the only structural signals
// available, so every extractor is written to skip what it cannot
// parse rather than fail the document.
package extract

import "github.com/dgallion1/h5pgen/internal/docmodel"

// Option is one lettered answer of a multiple-choice question.
type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// MultipleChoiceQuestion is a stem with up to four options in authored
// order. Zero or more options may be marked correct; the extractor
// reports bold-derived flags and does not enforce single-correctness.
type MultipleChoiceQuestion struct {
	Question string   `json:"question"`
	Options  []Option `json:"options"`
	ImageID  string   `json:"image_id,omitempty"`
}

// TrueFalseQuestion is a statement with its asserted boolean answer.
type TrueFalseQuestion struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"` // "true" or "false"
}

// CrosswordClue pairs a clue with its answer, answer uppercased with
// internal whitespace collapsed.
type CrosswordClue struct {
	Orientation string `json:"orientation"` // "across" or "down"
	Clue        string `json:"clue"`
	Answer      string `json:"answer"`
}

// Crossword is a titled, ordered clue list.
type Crossword struct {
	Title string          `json:"title"`
	Clues []CrosswordClue `json:"clues"`
}

// Result holds everything one extraction pass over a document produced.
type Result struct {
	MultipleChoice []MultipleChoiceQuestion
	TrueFalse      []TrueFalseQuestion
	Crosswords     []Crossword
	Images         map[string]docmodel.ImageRef
}

// Extract runs the three extraction sweeps over the document. Each
// sweep scans the full paragraph sequence with its own section state,
// since entry/exit conditions of the three section types can
// legitimately overlap in the source text. The document is read-only
// throughout, so repeated calls yield identical results.
func Extract(doc *docmodel.Document) Result {
	return Result{
		MultipleChoice: ExtractMultipleChoice(doc),
		TrueFalse:      ExtractTrueFalse(doc),
		Crosswords:     ExtractCrosswords(doc),
		Images:         doc.Images,
	}
}

// Counts reports how many items of each type were extracted.
func (r Result) Counts() (mc, tf, cw int) {
	return len(r.MultipleChoice), len(r.TrueFalse), len(r.Crosswords)
}
