package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/jonathan/rendercv-live/internal/render"
	"github.com/jonathan/rendercv-live/internal/types"
)

// handleListThemes returns the names of all stored themes
func (s *Server) handleListThemes(w http.ResponseWriter, _ *http.Request) {
	names, err := s.store.List()
	if err != nil {
		log.Printf("[themes] list failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list themes")
		return
	}
	s.jsonResponse(w, http.StatusOK, types.ThemeListResponse{Themes: names})
}

// handleGetTheme returns the raw YAML of one theme
func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	content, err := s.store.Get(name)
	if err != nil {
		s.themeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.ThemeResponse{Theme: name, Content: content})
}

// handleSaveTheme stores the posted YAML under theme_name
func (s *Server) handleSaveTheme(w http.ResponseWriter, r *http.Request) {
	var req types.SaveThemeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing 'theme_name' or 'yaml_content' in request.")
		return
	}

	if err := s.store.Save(req.ThemeName, req.YAMLContent); err != nil {
		if HTTPStatus(err) == http.StatusInternalServerError {
			log.Printf("[themes] save %s failed: %v", req.ThemeName, err)
			s.errorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save theme '%s'.", req.ThemeName))
			return
		}
		s.themeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.MessageResponse{
		Message: fmt.Sprintf("Theme '%s' saved successfully.", req.ThemeName),
	})
}

// handleDeleteTheme removes a user theme; built-in themes are refused
func (s *Server) handleDeleteTheme(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := s.store.Delete(name); err != nil {
		s.themeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.MessageResponse{
		Message: fmt.Sprintf("Theme '%s' deleted successfully", name),
	})
}

// handlePreviewTheme renders the sample CV in the requested theme.
// Concurrent previews of the same theme share one render.
func (s *Server) handlePreviewTheme(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if _, err := s.store.Get(name); err != nil {
		s.themeError(w, err)
		return
	}

	// The shared render must outlive any single caller's cancellation.
	ctx := context.WithoutCancel(r.Context())
	v, err, shared := s.previews.Do(name, func() (any, error) {
		return s.renderer.Preview(ctx, name)
	})
	if err != nil {
		s.previewError(w, err)
		return
	}
	if shared {
		log.Printf("[render] preview of %s shared with a concurrent request", name)
	}

	s.pdfResponse(w, v.(*render.Document).PDF)
}

// previewError is renderError with the preview wording for rejected YAML
func (s *Server) previewError(w http.ResponseWriter, err error) {
	var validation *render.ValidationFailedError
	if !errors.As(err, &validation) {
		s.renderError(w, err)
		return
	}
	log.Printf("[render] preview rejected: %v", err)
	s.jsonResponse(w, http.StatusBadRequest, types.ErrorResponse{
		Error:   "YAML validation failed for preview.",
		Details: validation.Details,
	})
}

// themeError maps a theme store error to its response
func (s *Server) themeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[themes] %v", err)
	}
	s.jsonResponse(w, status, ErrorBody(err))
}
