// Package artifacts manages the on-disk output of finished
// conversions: one directory per document holding its .h5p packages.
package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var ErrNotFound = errors.New("artifact not found")

// Store keeps conversion outputs under a root directory, keyed by
// document id.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create output root: %w", err)
	}
	return &Store{root: root}, nil
}

// File is one stored artifact.
type File struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// DocumentInfo describes one document's output directory.
type DocumentInfo struct {
	DocID     string    `json:"doc_id"`
	FileCount int       `json:"file_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Put writes one artifact for a document, creating its directory.
func (s *Store) Put(docID, name string, data []byte) error {
	docID = sanitizeSegment(docID)
	name = sanitizeSegment(name)
	dir := filepath.Join(s.root, docID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// Get returns the bytes of one artifact.
func (s *Store) Get(docID, name string) ([]byte, error) {
	p := filepath.Join(s.root, sanitizeSegment(docID), sanitizeSegment(name))
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// List returns the artifacts of one document, sorted by name.
func (s *Store) List(docID string) ([]File, error) {
	dir := filepath.Join(s.root, sanitizeSegment(docID))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read document dir: %w", err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, File{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Documents lists all document directories under the root.
func (s *Store) Documents() ([]DocumentInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read output root: %w", err)
	}
	var docs []DocumentInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		files, err := s.List(e.Name())
		if err != nil {
			continue
		}
		info := DocumentInfo{DocID: e.Name(), FileCount: len(files)}
		for _, f := range files {
			if f.ModTime.After(info.UpdatedAt) {
				info.UpdatedAt = f.ModTime
			}
		}
		docs = append(docs, info)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].DocID < docs[j].DocID })
	return docs, nil
}

// Delete removes a document's entire output directory.
func (s *Store) Delete(docID string) error {
	dir := filepath.Join(s.root, sanitizeSegment(docID))
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return os.RemoveAll(dir)
}

// Sweep removes document directories whose newest artifact is older
// than ttl. A ttl of zero disables expiry.
func (s *Store) Sweep(ttl time.Duration) (removed int, err error) {
	if ttl <= 0 {
		return 0, nil
	}
	docs, err := s.Documents()
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-ttl)
	for _, d := range docs {
		if d.UpdatedAt.Before(cutoff) {
			if err := s.Delete(d.DocID); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

func sanitizeSegment(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
