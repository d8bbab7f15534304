package h5p

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// WrappedQuestion is one entry of a QuestionSet: the question params
// plus the library reference and per-question metadata.
type WrappedQuestion struct {
	Params       any               `json:"params"`
	Library      string            `json:"library"`
	SubContentID string            `json:"subContentId"`
	Metadata     map[string]string `json:"metadata"`
}

type IntroPage struct {
	ShowIntroPage   bool   `json:"showIntroPage"`
	StartButtonText string `json:"startButtonText"`
	Introduction    string `json:"introduction"`
}

type EndGame struct {
	ShowResultPage     bool            `json:"showResultPage"`
	SolutionButtonText string          `json:"solutionButtonText"`
	FinishButtonText   string          `json:"finishButtonText"`
	ShowAnimations     bool            `json:"showAnimations"`
	Skippable          bool            `json:"skippable"`
	SkipButtonText     string          `json:"skipButtonText"`
	Message            string          `json:"message"`
	RetryButtonText    string          `json:"retryButtonText"`
	NoResultMessage    string          `json:"noResultMessage"`
	OverallFeedback    []FeedbackRange `json:"overallFeedback"`
	ShowSolutionButton bool            `json:"showSolutionButton"`
	ShowRetryButton    bool            `json:"showRetryButton"`
	ScoreBarLabel      string          `json:"scoreBarLabel"`
	SubmitButtonText   string          `json:"submitButtonText"`
}

type Override struct {
	ShowSolutionButton string `json:"showSolutionButton"`
	RetryButton        string `json:"retryButton"`
	CheckButton        bool   `json:"checkButton"`
}

// QuestionSet is the H5P.QuestionSet 1.20 content envelope used for
// both the multiple-choice and the true/false packages.
type QuestionSet struct {
	ProgressType               string            `json:"progressType"`
	PassPercentage             int               `json:"passPercentage"`
	Questions                  []WrappedQuestion `json:"questions"`
	IntroPage                  IntroPage         `json:"introPage"`
	Texts                      map[string]string `json:"texts"`
	EndGame                    EndGame           `json:"endGame"`
	Override                   Override          `json:"override"`
	DisableBackwardsNavigation bool              `json:"disableBackwardsNavigation"`
	RandomQuestions            bool              `json:"randomQuestions"`
}

var questionSetTexts = map[string]string{
	"prevButton":          "Previous",
	"nextButton":          "Next",
	"finishButton":        "Finish",
	"textualProgress":     "Question: @current of @total questions",
	"questionLabel":       "Question",
	"jumpToQuestion":      "Jump to question %d",
	"readSpeakerProgress": "Question @current of @total",
	"unansweredText":      "Unanswered",
	"answeredText":        "Answered",
	"currentQuestionText": "Current question",
	"submitButton":        "Submit",
	"navigationLabel":     "Questions",
}

// NewQuestionSet wraps prepared question entries into the standard
// envelope.
func NewQuestionSet(questions []WrappedQuestion, passPercentage int) QuestionSet {
	return QuestionSet{
		ProgressType:   "dots",
		PassPercentage: passPercentage,
		Questions:      questions,
		IntroPage: IntroPage{
			StartButtonText: "Start Quiz",
		},
		Texts: questionSetTexts,
		EndGame: EndGame{
			ShowResultPage:     true,
			SolutionButtonText: "Show solution",
			FinishButtonText:   "Finish",
			SkipButtonText:     "Skip video",
			Message:            "Your result:",
			RetryButtonText:    "Retry",
			NoResultMessage:    "Finished",
			OverallFeedback: []FeedbackRange{
				{From: 0, To: 100, Feedback: "You got @score points of @total possible."},
			},
			ShowSolutionButton: true,
			ShowRetryButton:    true,
			ScoreBarLabel:      "You got @finals out of @totals points",
			SubmitButtonText:   "Submit",
		},
		Override: Override{
			ShowSolutionButton: "off",
			RetryButton:        "off",
			CheckButton:        true,
		},
	}
}

// Wrap builds the QuestionSet entry for one question's params. The
// metadata title is the question text with markup stripped, truncated
// to 100 characters.
func Wrap(params any, library, contentType, questionHTML string) WrappedQuestion {
	title := stripTags(questionHTML)
	if len(title) > 100 {
		// Cut on a rune boundary; question text is not always ASCII.
		cut := 100
		for cut > 0 && !utf8.RuneStart(title[cut]) {
			cut--
		}
		title = title[:cut]
	}
	return WrappedQuestion{
		Params:       params,
		Library:      library,
		SubContentID: uuid.NewString(),
		Metadata: map[string]string{
			"title":       title,
			"license":     "U",
			"contentType": contentType,
		},
	}
}

func stripTags(s string) string {
	s = strings.ReplaceAll(s, "<p>", "")
	s = strings.ReplaceAll(s, "</p>", "")
	s = strings.ReplaceAll(s, "<div>", "")
	s = strings.ReplaceAll(s, "</div>", "")
	return strings.TrimSpace(s)
}
