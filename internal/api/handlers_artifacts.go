package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/h5pgen/internal/artifacts"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.orchestrator.Store().Documents()
	if err != nil {
		s.log.Error("list documents failed", "error", err)
		jsonError(w, "failed to list documents", http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []artifacts.DocumentInfo{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	files, err := s.orchestrator.Store().List(docID)
	if errors.Is(err, artifacts.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("list files failed", "doc_id", docID, "error", err)
		jsonError(w, "failed to list files", http.StatusInternalServerError)
		return
	}
	if files == nil {
		files = []artifacts.File{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"doc_id": docID, "files": files})
}

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	name := chi.URLParam(r, "name")
	data, err := s.orchestrator.Store().Get(docID, name)
	if errors.Is(err, artifacts.ErrNotFound) {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("read file failed", "doc_id", docID, "name", name, "error", err)
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Write(data)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	err := s.orchestrator.Store().Delete(docID)
	if errors.Is(err, artifacts.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("delete document failed", "doc_id", docID, "error", err)
		jsonError(w, "failed to delete document", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
