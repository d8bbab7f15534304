// Package h5p assembles extracted question lists into packaged
// interactive-content archives. Content shapes follow what the H5P
// players (MultiChoice 1.16, TrueFalse 1.8, Crossword 0.5) expect.
package h5p

import (
	"fmt"

	"github.com/dgallion1/h5pgen/internal/docmodel"
	"github.com/dgallion1/h5pgen/internal/extract"
	"github.com/google/uuid"
)

type TipsAndFeedback struct {
	Tip               string `json:"tip"`
	ChosenFeedback    string `json:"chosenFeedback"`
	NotChosenFeedback string `json:"notChosenFeedback"`
}

type MultiChoiceAnswer struct {
	Correct         bool            `json:"correct"`
	Text            string          `json:"text"`
	TipsAndFeedback TipsAndFeedback `json:"tipsAndFeedback"`
}

type ConfirmDialog struct {
	Header       string `json:"header"`
	Body         string `json:"body"`
	CancelLabel  string `json:"cancelLabel"`
	ConfirmLabel string `json:"confirmLabel"`
}

type FeedbackRange struct {
	From     int    `json:"from"`
	To       int    `json:"to"`
	Feedback string `json:"feedback,omitempty"`
}

// ImageFile is the media file descriptor inside a question's media
// block. Width and height are the adapter's placeholder dimensions.
type ImageFile struct {
	Path      string            `json:"path"`
	Mime      string            `json:"mime"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Copyright map[string]string `json:"copyright"`
}

type ImageParams struct {
	ContentName string    `json:"contentName"`
	File        ImageFile `json:"file"`
	Alt         string    `json:"alt"`
	Decorative  bool      `json:"decorative"`
}

type MediaType struct {
	Params       ImageParams       `json:"params"`
	Library      string            `json:"library"`
	SubContentID string            `json:"subContentId"`
	Metadata     map[string]string `json:"metadata"`
}

type Media struct {
	Type                *MediaType `json:"type,omitempty"`
	DisableImageZooming bool       `json:"disableImageZooming"`
}

type MultiChoiceBehaviour struct {
	EnableRetry                bool   `json:"enableRetry"`
	EnableSolutionsButton      bool   `json:"enableSolutionsButton"`
	SinglePoint                bool   `json:"singlePoint"`
	RandomAnswers              bool   `json:"randomAnswers"`
	ShowSolutionsRequiresInput bool   `json:"showSolutionsRequiresInput"`
	Type                       string `json:"type"`
	ConfirmCheckDialog         bool   `json:"confirmCheckDialog"`
	ConfirmRetryDialog         bool   `json:"confirmRetryDialog"`
	AutoCheck                  bool   `json:"autoCheck"`
	PassPercentage             int    `json:"passPercentage"`
	ShowScorePoints            bool   `json:"showScorePoints"`
	EnableCheckButton          bool   `json:"enableCheckButton"`
}

type MultiChoiceContent struct {
	Answers         []MultiChoiceAnswer  `json:"answers"`
	UI              map[string]string    `json:"UI"`
	Question        string               `json:"question"`
	Behaviour       MultiChoiceBehaviour `json:"behaviour"`
	ConfirmCheck    ConfirmDialog        `json:"confirmCheck"`
	ConfirmRetry    ConfirmDialog        `json:"confirmRetry"`
	OverallFeedback []FeedbackRange      `json:"overallFeedback"`
	Media           Media                `json:"media"`
}

var multiChoiceUI = map[string]string{
	"showSolutionButton": "Show solution",
	"tryAgainButton":     "Retry",
	"checkAnswerButton":  "Check",
	"tipsLabel":          "Show tip",
	"scoreBarLabel":      "You got :num out of :total points",
	"tipAvailable":       "Tip available",
	"feedbackAvailable":  "Feedback available",
	"readFeedback":       "Read feedback",
	"wrongAnswer":        "Wrong answer",
	"correctAnswer":      "Correct answer",
	"shouldCheck":        "Should have been checked",
	"shouldNotCheck":     "Should not have been checked",
	"noInput":            "Please answer before viewing the solution",
	"submitAnswerButton": "Submit",
	"a11yCheck":          "Check the answers.",
	"a11yShowSolution":   "Show the solution.",
	"a11yRetry":          "Retry the task.",
}

var confirmFinish = ConfirmDialog{
	Header: "Finish ?", Body: "Are you sure you wish to finish ?",
	CancelLabel: "Cancel", ConfirmLabel: "Finish",
}

var confirmRetry = ConfirmDialog{
	Header: "Retry ?", Body: "Are you sure you wish to retry ?",
	CancelLabel: "Cancel", ConfirmLabel: "Confirm",
}

// NewMultiChoice builds a MultiChoice content block. img is nil when
// the question has no associated image.
func NewMultiChoice(q extract.MultipleChoiceQuestion, img *docmodel.ImageRef) MultiChoiceContent {
	answers := make([]MultiChoiceAnswer, 0, len(q.Options))
	for _, opt := range q.Options {
		answers = append(answers, MultiChoiceAnswer{
			Correct: opt.Correct,
			Text:    fmt.Sprintf("<div>%s</div>\n", opt.Text),
		})
	}

	content := MultiChoiceContent{
		Answers:  answers,
		UI:       multiChoiceUI,
		Question: fmt.Sprintf("<p>%s</p>\n", q.Question),
		Behaviour: MultiChoiceBehaviour{
			EnableRetry:                true,
			EnableSolutionsButton:      true,
			SinglePoint:                true,
			RandomAnswers:              true,
			ShowSolutionsRequiresInput: true,
			Type:                       "auto",
			PassPercentage:             100,
			ShowScorePoints:            true,
			EnableCheckButton:          true,
		},
		ConfirmCheck: confirmFinish,
		ConfirmRetry: confirmRetry,
		OverallFeedback: []FeedbackRange{
			{From: 0, To: 0, Feedback: "Wrong"},
			{From: 1, To: 99, Feedback: "Almost!"},
			{From: 100, To: 100, Feedback: "Correct!"},
		},
		Media: Media{DisableImageZooming: true},
	}

	if img != nil {
		content.Media.Type = &MediaType{
			Params: ImageParams{
				ContentName: "Image",
				File: ImageFile{
					Path:      "images/" + img.Name,
					Mime:      img.Mime,
					Width:     img.Width,
					Height:    img.Height,
					Copyright: map[string]string{"license": "U"},
				},
				Alt: "Image for question",
			},
			Library:      "H5P.Image 1.1",
			SubContentID: uuid.NewString(),
			Metadata: map[string]string{
				"title":       "Question Image",
				"license":     "U",
				"contentType": "Image",
			},
		}
	}

	return content
}

type TrueFalseBehaviour struct {
	EnableRetry           bool `json:"enableRetry"`
	EnableSolutionsButton bool `json:"enableSolutionsButton"`
	ConfirmCheckDialog    bool `json:"confirmCheckDialog"`
	ConfirmRetryDialog    bool `json:"confirmRetryDialog"`
	AutoCheck             bool `json:"autoCheck"`
	EnableCheckButton     bool `json:"enableCheckButton"`
}

type TrueFalseContent struct {
	Media        Media              `json:"media"`
	Correct      string             `json:"correct"`
	L10n         map[string]string  `json:"l10n"`
	Behaviour    TrueFalseBehaviour `json:"behaviour"`
	ConfirmCheck ConfirmDialog      `json:"confirmCheck"`
	ConfirmRetry ConfirmDialog      `json:"confirmRetry"`
	Question     string             `json:"question"`
}

var trueFalseL10n = map[string]string{
	"trueText":             "True",
	"falseText":            "False",
	"score":                "You got @score of @total points",
	"checkAnswer":          "Check",
	"showSolutionButton":   "Show solution",
	"tryAgain":             "Retry",
	"wrongAnswerMessage":   "Wrong answer",
	"correctAnswerMessage": "Correct answer",
	"scoreBarLabel":        "You got :num out of :total points",
	"submitAnswer":         "Submit",
	"a11yCheck":            "Check the answers. The responses will be marked as correct, incorrect, or unanswered.",
	"a11yShowSolution":     "Show the solution. The task will be marked with its correct solution.",
	"a11yRetry":            "Retry the task. Reset all responses and start the task over again.",
}

// NewTrueFalse builds a TrueFalse content block. The correct field is
// the literal string "true" or "false" as the player expects.
func NewTrueFalse(q extract.TrueFalseQuestion) TrueFalseContent {
	return TrueFalseContent{
		Correct: q.CorrectAnswer,
		L10n:    trueFalseL10n,
		Behaviour: TrueFalseBehaviour{
			EnableRetry:           true,
			EnableSolutionsButton: true,
			EnableCheckButton:     true,
		},
		ConfirmCheck: confirmFinish,
		ConfirmRetry: confirmRetry,
		Question:     fmt.Sprintf("<p>%s</p>\n", q.Question),
	}
}

type CrosswordWord struct {
	FixWord     bool   `json:"fixWord"`
	Orientation string `json:"orientation"`
	Clue        string `json:"clue"`
	Answer      string `json:"answer"`
}

type CrosswordBehaviour struct {
	EnableInstantFeedback bool `json:"enableInstantFeedback"`
	ScoreWords            bool `json:"scoreWords"`
	ApplyPenalties        bool `json:"applyPenalties"`
	EnableRetry           bool `json:"enableRetry"`
	EnableSolutionsButton bool `json:"enableSolutionsButton"`
}

type CrosswordContent struct {
	Words           []CrosswordWord    `json:"words"`
	OverallFeedback []FeedbackRange    `json:"overallFeedback"`
	Theme           map[string]string  `json:"theme"`
	Behaviour       CrosswordBehaviour `json:"behaviour"`
	L10n            map[string]string  `json:"l10n"`
	A11y            map[string]string  `json:"a11y"`
	TaskDescription string             `json:"taskDescription"`
}

var crosswordTheme = map[string]string{
	"backgroundColor":              "#222b46",
	"gridColor":                    "#031928",
	"cellBackgroundColor":          "#ffffff",
	"cellColor":                    "#000000",
	"clueIdColor":                  "#606060",
	"cellBackgroundColorHighlight": "#5c9ba9",
	"cellColorHighlight":           "#031928",
	"clueIdColorHighlight":         "#e0e0e0",
}

var crosswordL10n = map[string]string{
	"across":                               "Across",
	"down":                                 "Down",
	"checkAnswer":                          "Check",
	"tryAgain":                             "Retry",
	"showSolution":                         "Show solution",
	"couldNotGenerateCrossword":            "Could not generate crossword.",
	"couldNotGenerateCrosswordTooFewWords": "Need at least two words.",
	"probematicWords":                      "Problematic word(s): @words",
	"extraClue":                            "Extra clue",
	"closeWindow":                          "Close window",
	"submitAnswer":                         "Submit",
}

var crosswordA11y = map[string]string{
	"crosswordGrid": "Crossword grid.",
	"column":        "Column",
	"row":           "Row",
	"across":        "Across",
	"down":          "Down",
	"empty":         "Empty",
	"resultFor":     "Result for: @clue",
	"correct":       "Correct",
	"wrong":         "Wrong",
	"point":         "point",
	"solutionFor":   "Solution: @solution",
	"check":         "Check",
	"showSolution":  "Show solution",
	"retry":         "Retry",
	"yourResult":    "You got @score out of @total points",
}

// NewCrossword builds a Crossword content block.
func NewCrossword(cw extract.Crossword) CrosswordContent {
	words := make([]CrosswordWord, 0, len(cw.Clues))
	for _, clue := range cw.Clues {
		words = append(words, CrosswordWord{
			Orientation: clue.Orientation,
			Clue:        clue.Clue,
			Answer:      clue.Answer,
		})
	}
	return CrosswordContent{
		Words:           words,
		OverallFeedback: []FeedbackRange{{From: 0, To: 100}},
		Theme:           crosswordTheme,
		Behaviour: CrosswordBehaviour{
			ScoreWords:            true,
			EnableRetry:           true,
			EnableSolutionsButton: true,
		},
		L10n:            crosswordL10n,
		A11y:            crosswordA11y,
		TaskDescription: fmt.Sprintf("<p>%s</p>\n", cw.Title),
	}
}
