package h5p

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dgallion1/h5pgen/internal/docmodel"
	"github.com/dgallion1/h5pgen/internal/extract"
)

func sampleResult() extract.Result {
	return extract.Result{
		MultipleChoice: []extract.MultipleChoiceQuestion{
			{
				Question: "Which planet is closest to the sun?",
				Options: []extract.Option{
					{Text: "Venus"},
					{Text: "Mercury", Correct: true},
					{Text: "Earth"},
				},
				ImageID: "rId7",
			},
			{
				Question: "What covers most of Earth?",
				Options: []extract.Option{
					{Text: "Water", Correct: true},
					{Text: "Sand"},
				},
				ImageID: "rId7",
			},
		},
		TrueFalse: []extract.TrueFalseQuestion{
			{Question: "The sun is a star.", CorrectAnswer: "true"},
		},
		Crosswords: []extract.Crossword{
			{
				Title: "Activity 3, Part I - Crossword Puzzle",
				Clues: []extract.CrosswordClue{
					{Orientation: "across", Clue: "Frozen water", Answer: "ICE"},
				},
			},
			{
				Title: "Activity 3, Part II - Crossword Puzzle",
				Clues: []extract.CrosswordClue{
					{Orientation: "down", Clue: "Color of snow", Answer: "WHITE"},
				},
			},
		},
		Images: map[string]docmodel.ImageRef{
			"rId7": {
				ID:     "rId7",
				Name:   "image1.png",
				Mime:   "image/png",
				Data:   []byte("png-bytes"),
				Width:  600,
				Height: 400,
			},
		},
	}
}

func readZip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	entries := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		entries[f.Name] = b
	}
	return entries
}

func findArtifact(t *testing.T, artifacts []Artifact, name string) Artifact {
	t.Helper()
	for _, a := range artifacts {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("artifact %s not built (have %d artifacts)", name, len(artifacts))
	return Artifact{}
}

func TestAssemblerBuild_ArtifactNames(t *testing.T) {
	a := &Assembler{PassPercentage: 50}
	artifacts, err := a.Build(sampleResult(), "Unit 1")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(artifacts) != 4 {
		t.Fatalf("expected 4 artifacts, got %d", len(artifacts))
	}
	for _, name := range []string{"multiple_choice.h5p", "true_false.h5p", "crossword_1.h5p", "crossword_2.h5p"} {
		findArtifact(t, artifacts, name)
	}
}

func TestAssemblerBuild_MultiChoicePackage(t *testing.T) {
	a := &Assembler{PassPercentage: 50}
	artifacts, err := a.Build(sampleResult(), "Unit 1")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entries := readZip(t, findArtifact(t, artifacts, "multiple_choice.h5p").Data)

	var meta Metadata
	if err := json.Unmarshal(entries["h5p.json"], &meta); err != nil {
		t.Fatalf("decode h5p.json: %v", err)
	}
	if meta.MainLibrary != "H5P.QuestionSet" {
		t.Errorf("main library: got %q", meta.MainLibrary)
	}
	if meta.Title != "Unit 1 - Multiple Choice Quiz" {
		t.Errorf("title: got %q", meta.Title)
	}
	if len(meta.PreloadedDependencies) != 2 || meta.PreloadedDependencies[1].MachineName != "H5P.MultiChoice" {
		t.Errorf("unexpected dependencies %+v", meta.PreloadedDependencies)
	}

	var qs QuestionSet
	if err := json.Unmarshal(entries["content/content.json"], &qs); err != nil {
		t.Fatalf("decode content.json: %v", err)
	}
	if qs.PassPercentage != 50 {
		t.Errorf("pass percentage: got %d", qs.PassPercentage)
	}
	if len(qs.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs.Questions))
	}
	if qs.Questions[0].Library != "H5P.MultiChoice 1.16" {
		t.Errorf("question library: got %q", qs.Questions[0].Library)
	}
	if qs.Questions[0].SubContentID == qs.Questions[1].SubContentID {
		t.Error("subContentIds must be unique per question")
	}
	if got := qs.Questions[0].Metadata["title"]; got != "Which planet is closest to the sun?" {
		t.Errorf("metadata title: got %q", got)
	}

	// Both questions reference the same image; it is stored once.
	img, ok := entries["content/images/image1.png"]
	if !ok {
		t.Fatal("shared image missing from archive")
	}
	if string(img) != "png-bytes" {
		t.Errorf("image bytes corrupted: %q", img)
	}
	if n := len(entries); n != 3 {
		t.Errorf("expected 3 archive entries, got %d", n)
	}
}

func TestAssemblerBuild_MediaBlockPath(t *testing.T) {
	a := &Assembler{PassPercentage: 50}
	artifacts, err := a.Build(sampleResult(), "Unit 1")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entries := readZip(t, findArtifact(t, artifacts, "multiple_choice.h5p").Data)
	content := string(entries["content/content.json"])
	if !strings.Contains(content, `"path": "images/image1.png"`) {
		t.Error("media block does not reference the packaged image path")
	}
	if !strings.Contains(content, `"library": "H5P.Image 1.1"`) {
		t.Error("media block missing H5P.Image library reference")
	}
}

func TestAssemblerBuild_TrueFalsePackage(t *testing.T) {
	a := &Assembler{PassPercentage: 50}
	artifacts, err := a.Build(sampleResult(), "Unit 1")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entries := readZip(t, findArtifact(t, artifacts, "true_false.h5p").Data)

	var meta Metadata
	if err := json.Unmarshal(entries["h5p.json"], &meta); err != nil {
		t.Fatalf("decode h5p.json: %v", err)
	}
	if meta.PreloadedDependencies[1].MachineName != "H5P.TrueFalse" {
		t.Errorf("unexpected dependencies %+v", meta.PreloadedDependencies)
	}

	var qs QuestionSet
	if err := json.Unmarshal(entries["content/content.json"], &qs); err != nil {
		t.Fatalf("decode content.json: %v", err)
	}
	if len(qs.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs.Questions))
	}
	raw, err := json.Marshal(qs.Questions[0].Params)
	if err != nil {
		t.Fatalf("remarshal params: %v", err)
	}
	var tf TrueFalseContent
	if err := json.Unmarshal(raw, &tf); err != nil {
		t.Fatalf("decode params: %v", err)
	}
	if tf.Correct != "true" {
		t.Errorf("correct: got %q", tf.Correct)
	}
	if tf.Question != "<p>The sun is a star.</p>\n" {
		t.Errorf("question markup: got %q", tf.Question)
	}
}

func TestAssemblerBuild_CrosswordPackages(t *testing.T) {
	a := &Assembler{PassPercentage: 50}
	artifacts, err := a.Build(sampleResult(), "Unit 1")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entries := readZip(t, findArtifact(t, artifacts, "crossword_2.h5p").Data)

	var meta Metadata
	if err := json.Unmarshal(entries["h5p.json"], &meta); err != nil {
		t.Fatalf("decode h5p.json: %v", err)
	}
	if meta.MainLibrary != "H5P.Crossword" {
		t.Errorf("main library: got %q", meta.MainLibrary)
	}
	if meta.Title != "Activity 3, Part II - Crossword Puzzle" {
		t.Errorf("title: got %q", meta.Title)
	}

	var content CrosswordContent
	if err := json.Unmarshal(entries["content/content.json"], &content); err != nil {
		t.Fatalf("decode content.json: %v", err)
	}
	if len(content.Words) != 1 {
		t.Fatalf("expected 1 word, got %d", len(content.Words))
	}
	w := content.Words[0]
	if w.Orientation != "down" || w.Answer != "WHITE" {
		t.Errorf("unexpected word %+v", w)
	}
}

func TestAssemblerBuild_EmptyResult(t *testing.T) {
	a := &Assembler{PassPercentage: 50}
	artifacts, err := a.Build(extract.Result{}, "Unit 1")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(artifacts) != 0 {
		t.Errorf("empty result must build no artifacts, got %d", len(artifacts))
	}
}

func TestAssemblerBuild_HTMLNotEscaped(t *testing.T) {
	a := &Assembler{PassPercentage: 50}
	artifacts, err := a.Build(sampleResult(), "Unit 1")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entries := readZip(t, findArtifact(t, artifacts, "multiple_choice.h5p").Data)
	content := entries["content/content.json"]
	if !bytes.Contains(content, []byte("<p>")) {
		t.Error("literal markup missing from content.json")
	}
	if bytes.Contains(content, []byte(`\u003c`)) {
		t.Error("HTML markup was escaped in content.json")
	}
}

func TestWrap_TruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("q", 150)
	w := Wrap(nil, "H5P.MultiChoice 1.16", "Multiple Choice", "<p>"+long+"</p>")
	if got := len(w.Metadata["title"]); got != 100 {
		t.Errorf("title length: got %d, want 100", got)
	}
	if w.SubContentID == "" {
		t.Error("missing subContentId")
	}
}

func TestWrap_TruncatesOnRuneBoundary(t *testing.T) {
	// 1 ASCII byte followed by two-byte runes puts byte offset 100 in
	// the middle of a rune.
	long := "q" + strings.Repeat("ά", 60)
	w := Wrap(nil, "H5P.MultiChoice 1.16", "Multiple Choice", "<p>"+long+"</p>")
	title := w.Metadata["title"]
	if !utf8.ValidString(title) {
		t.Errorf("title is not valid UTF-8: %q", title)
	}
	if len(title) > 100 {
		t.Errorf("title length: got %d, want <= 100", len(title))
	}
	if !strings.HasPrefix(long, title) {
		t.Errorf("title %q is not a prefix of the question text", title)
	}
}
