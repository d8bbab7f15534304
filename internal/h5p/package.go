package h5p

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dgallion1/h5pgen/internal/docmodel"
	"github.com/dgallion1/h5pgen/internal/extract"
)

// Dependency is one preloaded library reference in h5p.json.
type Dependency struct {
	MachineName  string `json:"machineName"`
	MajorVersion string `json:"majorVersion"`
	MinorVersion string `json:"minorVersion"`
}

// Metadata is the h5p.json descriptor of a package.
type Metadata struct {
	Title                 string       `json:"title"`
	Language              string       `json:"language"`
	MainLibrary           string       `json:"mainLibrary"`
	EmbedTypes            []string     `json:"embedTypes"`
	License               string       `json:"license"`
	PreloadedDependencies []Dependency `json:"preloadedDependencies"`
}

func multiChoiceMetadata(title string) Metadata {
	return Metadata{
		Title: title, Language: "en", MainLibrary: "H5P.QuestionSet",
		EmbedTypes: []string{"iframe"}, License: "U",
		PreloadedDependencies: []Dependency{
			{MachineName: "H5P.QuestionSet", MajorVersion: "1", MinorVersion: "20"},
			{MachineName: "H5P.MultiChoice", MajorVersion: "1", MinorVersion: "16"},
		},
	}
}

func trueFalseMetadata(title string) Metadata {
	return Metadata{
		Title: title, Language: "en", MainLibrary: "H5P.QuestionSet",
		EmbedTypes: []string{"iframe"}, License: "U",
		PreloadedDependencies: []Dependency{
			{MachineName: "H5P.QuestionSet", MajorVersion: "1", MinorVersion: "20"},
			{MachineName: "H5P.TrueFalse", MajorVersion: "1", MinorVersion: "8"},
		},
	}
}

func crosswordMetadata(title string) Metadata {
	return Metadata{
		Title: title, Language: "en", MainLibrary: "H5P.Crossword",
		EmbedTypes: []string{"iframe"}, License: "U",
		PreloadedDependencies: []Dependency{
			{MachineName: "H5P.Crossword", MajorVersion: "0", MinorVersion: "5"},
		},
	}
}

// Artifact is one finished .h5p archive.
type Artifact struct {
	Name string
	Data []byte
}

// Assembler turns extraction results into .h5p archives, one per
// question type present (crosswords get one archive each).
type Assembler struct {
	PassPercentage int
}

// Build assembles all packages for one document. title seeds the
// package titles shown by the player.
func (a *Assembler) Build(res extract.Result, title string) ([]Artifact, error) {
	var artifacts []Artifact

	if len(res.MultipleChoice) > 0 {
		entries := make([]WrappedQuestion, 0, len(res.MultipleChoice))
		var images []docmodel.ImageRef
		seen := map[string]bool{}
		for _, q := range res.MultipleChoice {
			var img *docmodel.ImageRef
			if ref, ok := res.Images[q.ImageID]; ok {
				img = &ref
				if !seen[ref.ID] {
					seen[ref.ID] = true
					images = append(images, ref)
				}
			}
			content := NewMultiChoice(q, img)
			entries = append(entries, Wrap(content, "H5P.MultiChoice 1.16", "Multiple Choice", content.Question))
		}
		qs := NewQuestionSet(entries, a.PassPercentage)
		data, err := writePackage(multiChoiceMetadata(title+" - Multiple Choice Quiz"), qs, images)
		if err != nil {
			return nil, fmt.Errorf("multiple choice package: %w", err)
		}
		artifacts = append(artifacts, Artifact{Name: "multiple_choice.h5p", Data: data})
	}

	if len(res.TrueFalse) > 0 {
		entries := make([]WrappedQuestion, 0, len(res.TrueFalse))
		for _, q := range res.TrueFalse {
			content := NewTrueFalse(q)
			entries = append(entries, Wrap(content, "H5P.TrueFalse 1.8", "True/False Question", content.Question))
		}
		qs := NewQuestionSet(entries, a.PassPercentage)
		data, err := writePackage(trueFalseMetadata(title+" - True/False Questions"), qs, nil)
		if err != nil {
			return nil, fmt.Errorf("true/false package: %w", err)
		}
		artifacts = append(artifacts, Artifact{Name: "true_false.h5p", Data: data})
	}

	for i, cw := range res.Crosswords {
		content := NewCrossword(cw)
		data, err := writePackage(crosswordMetadata(cw.Title), content, nil)
		if err != nil {
			return nil, fmt.Errorf("crossword package %d: %w", i+1, err)
		}
		artifacts = append(artifacts, Artifact{
			Name: fmt.Sprintf("crossword_%d.h5p", i+1),
			Data: data,
		})
	}

	return artifacts, nil
}

// writePackage produces the .h5p zip: h5p.json at the root,
// content/content.json, and any referenced images under
// content/images/.
func writePackage(meta Metadata, content any, images []docmodel.ImageRef) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if err := writeJSONEntry(zw, "h5p.json", meta); err != nil {
		return nil, err
	}
	if err := writeJSONEntry(zw, "content/content.json", content); err != nil {
		return nil, err
	}
	for _, img := range images {
		w, err := zw.Create("content/images/" + img.Name)
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", img.Name, err)
		}
		if _, err := w.Write(img.Data); err != nil {
			return nil, fmt.Errorf("write image %s: %w", img.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

func writeJSONEntry(zw *zip.Writer, name string, v any) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return nil
}
