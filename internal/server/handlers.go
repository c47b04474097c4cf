package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/patentfig/pkg/buildinfo"
	"github.com/matzehuels/patentfig/pkg/diagram"
	perrors "github.com/matzehuels/patentfig/pkg/errors"
	"github.com/matzehuels/patentfig/pkg/pipeline"
	"github.com/matzehuels/patentfig/pkg/store"
)

// createRequest holds the rendering options of a create request. The
// GraphSpec itself ("blocks" and "connections", or "steps") is read from the
// same body by package spec.
type createRequest struct {
	Formats     []string `json:"formats"`
	Style       string   `json:"style"`
	Scale       float64  `json:"scale"`
	Caption     string   `json:"caption"`
	Strict      bool     `json:"strict"`
	SlotCount   int      `json:"slot_count"`
	StrictChain bool     `json:"strict_chain"`
	Position    bool     `json:"position"`
}

// diagramResponse is returned by the create endpoints. Text formats are
// inlined as strings; PNG and PDF are base64-encoded.
type diagramResponse struct {
	ID        string            `json:"id"`
	Kind      diagram.Kind      `json:"kind"`
	Style     string            `json:"style"`
	SceneHash string            `json:"scene_hash"`
	Scene     diagram.Scene     `json:"scene"`
	Artifacts map[string]string `json:"artifacts"`
	CreatedAt time.Time         `json:"created_at"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:     "image/svg+xml",
	pipeline.FormatPNG:     "image/png",
	pipeline.FormatPDF:     "application/pdf",
	pipeline.FormatJSON:    "application/json",
	pipeline.FormatDOT:     "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatMermaid: "text/plain; charset=utf-8",
}

func isBinary(format string) bool {
	return format == pipeline.FormatPNG || format == pipeline.FormatPDF
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "version": buildinfo.Version})
}

func (s *Server) handleCreate(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.writeError(w, perrors.New(perrors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit))
				return
			}
			s.writeError(w, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read request body"))
			return
		}

		var req createRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, perrors.New(perrors.ErrCodeInvalidSpec, "request body is not a JSON object"))
			return
		}
		if req.Style == "" {
			req.Style = s.cfg.Style
		}

		opts := pipeline.Options{
			Kind:        kind,
			Input:       body,
			Strict:      req.Strict,
			SlotCount:   req.SlotCount,
			StrictChain: req.StrictChain,
			Position:    req.Position,
			Caption:     req.Caption,
			Formats:     req.Formats,
			Style:       req.Style,
			Scale:       req.Scale,
			Logger:      s.logger,
		}
		opts.SetRenderDefaults()

		result, err := s.runner.Execute(r.Context(), opts)
		if err != nil {
			s.writeError(w, err)
			return
		}

		rec, err := s.store.Save(r.Context(), store.Record{
			Kind:  result.Scene.Kind,
			Style: opts.Style,
			Scene: result.Scene,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}

		artifacts := make(map[string]string, len(result.Artifacts))
		for format, data := range result.Artifacts {
			if isBinary(format) {
				artifacts[format] = base64.StdEncoding.EncodeToString(data)
			} else {
				artifacts[format] = string(data)
			}
		}

		w.Header().Set("Location", "/api/v1/diagrams/"+rec.ID)
		writeJSON(w, http.StatusCreated, diagramResponse{
			ID:        rec.ID,
			Kind:      rec.Kind,
			Style:     rec.Style,
			SceneHash: result.SceneHash,
			Scene:     rec.Scene,
			Artifacts: artifacts,
			CreatedAt: rec.CreatedAt,
		})
	}
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleArtifact re-renders a stored scene in one format. The style defaults
// to the one the diagram was created with and can be overridden with
// ?style=.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}

	format := chi.URLParam(r, "format")
	style := r.URL.Query().Get("style")
	if style == "" {
		style = rec.Style
	}

	artifacts, err := s.runner.RenderScene(r.Context(), rec.Scene, pipeline.Options{
		Formats: []string{format},
		Style:   style,
		Logger:  s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (store.Record, bool) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		s.writeError(w, store.ErrNotFound)
		return store.Record{}, false
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return store.Record{}, false
	}
	return rec, true
}
