package api

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/routelens/internal/hover"
)

var mediaTypeName = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// handleListMediaTypes lists the media type constants with documentation.
func (s *Server) handleListMediaTypes(w http.ResponseWriter, r *http.Request) {
	names, err := hover.MediaTypes()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"media_types": names})
}

// handleMediaTypeDoc renders the documentation of one media type constant.
func (s *Server) handleMediaTypeDoc(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !mediaTypeName.MatchString(name) {
		jsonError(w, "invalid media type name", http.StatusBadRequest)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatMarkdown
	}
	ext := ".md"
	switch format {
	case formatMarkdown:
	case formatHTML:
		ext = ".html"
	default:
		jsonError(w, "format must be markdown or html", http.StatusBadRequest)
		return
	}
	if _, err := fs.Stat(hover.Docs, "mediatypes/"+name+ext); err != nil {
		jsonError(w, "no documentation for "+name, http.StatusNotFound)
		return
	}

	doc := hover.MediaTypeDoc(name)
	content := s.renderer.Markdown(doc)
	if format == formatHTML {
		content = s.renderer.HTML(doc)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":    name,
		"format":  format,
		"content": content,
	})
}
