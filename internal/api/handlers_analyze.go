package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/routelens/internal/analysis"
	"github.com/dgallion1/routelens/internal/convert"
	"github.com/dgallion1/routelens/internal/document"
	"github.com/dgallion1/routelens/internal/hover"
	"github.com/dgallion1/routelens/internal/parser"
	"github.com/dgallion1/routelens/internal/render"
	"github.com/dgallion1/routelens/internal/route"
)

type sourceRequest struct {
	Filename string `json:"filename"`
	Source   string `json:"source"`
}

type hoverRequest struct {
	sourceRequest
	Line      int    `json:"line"`
	Character int    `json:"character"`
	Format    string `json:"format"`
}

// Hover output formats.
const (
	formatMarkdown = "markdown"
	formatHTML     = "html"
	formatPreview  = "preview"
)

func (s *Server) decodeSource(w http.ResponseWriter, r *http.Request, dst any, src *sourceRequest) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+64*1024)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	src.Filename = sanitizeFilename(src.Filename)
	if !parser.IsSupportedExtension(src.Filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(src.Filename)), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, src sourceRequest) (*analysis.Result, bool) {
	res, err := s.orchestrator.Analyzer().Analyze(r.Context(), src.Filename, []byte(src.Source))
	if err != nil {
		s.log.Error("analyze failed", "file", src.Filename, "error", err)
		jsonError(w, "analyze failed: "+err.Error(), http.StatusUnprocessableEntity)
		return nil, false
	}
	return res, true
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if !s.decodeSource(w, r, &req, &req) {
		return
	}
	res, ok := s.analyze(w, r, req)
	if !ok {
		return
	}

	routes := res.Routes
	if routes == nil {
		routes = []route.Route{}
	}
	diags := make([]map[string]any, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		diags = append(diags, map[string]any{"name": d.Name, "span": d.Span, "error": d.Err.Error()})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename":    res.Filename,
		"routes":      routes,
		"elements":    res.ElementCount(),
		"diagnostics": diags,
	})
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	var req hoverRequest
	if !s.decodeSource(w, r, &req, &req.sourceRequest) {
		return
	}
	format := strings.ToLower(req.Format)
	if format == "" {
		format = formatMarkdown
	}
	if format != formatMarkdown && format != formatHTML && format != formatPreview {
		jsonError(w, "format must be markdown, html or preview", http.StatusBadRequest)
		return
	}

	res, ok := s.analyze(w, r, req.sourceRequest)
	if !ok {
		return
	}
	pos := document.Position{Line: req.Line, Character: req.Character}
	if _, err := res.Document.PositionToOffset(pos); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, document.ErrBadLocation) {
			code = http.StatusBadRequest
		}
		jsonError(w, err.Error(), code)
		return
	}

	hit, found := res.ElementAt(pos)
	if !found {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"found": false})
		return
	}

	content, err := s.renderHover(hover.ForElement(hit.Route, hit.Element, hit.Kind, res.Source), format)
	if err != nil {
		jsonError(w, "render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"found":   true,
		"kind":    hit.Kind,
		"element": hit.Element,
		"route":   hit.Route,
		"format":  format,
		"content": content,
	})
}

// renderHover renders h in one of the hover formats. Preview is the markdown
// rendering turned back into HTML, the way an editor would display it.
func (s *Server) renderHover(h render.Renderable, format string) (string, error) {
	switch format {
	case formatHTML:
		return s.renderer.HTML(h), nil
	case formatPreview:
		return convert.MarkdownToHTML(s.renderer.Markdown(h))
	default:
		return s.renderer.Markdown(h), nil
	}
}
