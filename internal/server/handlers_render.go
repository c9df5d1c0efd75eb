package server

import (
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"

	"github.com/jonathan/rendercv-live/internal/types"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 2 << 20

// handleRenderLive repairs, generates and compiles the posted YAML
func (s *Server) handleRenderLive(w http.ResponseWriter, r *http.Request) {
	var req types.RenderRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing 'yaml_content' in request.")
		return
	}

	doc, err := s.renderer.Render(r.Context(), req.YAMLContent)
	if err != nil {
		s.renderError(w, err)
		return
	}

	if doc.IconWarning {
		w.Header().Set("X-Icon-Warning", "true")
	}
	s.pdfResponse(w, doc.PDF)
}

// renderError logs a render failure and writes its response
func (s *Server) renderError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[render] failed: %v", err)
	} else {
		log.Printf("[render] rejected: %v", err)
	}
	s.jsonResponse(w, status, ErrorBody(err))
}

// decodeJSON reads a JSON request body into v. It writes the error response
// and returns false when the body is not JSON.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		s.errorResponse(w, http.StatusUnsupportedMediaType, "Request must be JSON.")
		return false
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
