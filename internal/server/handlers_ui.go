package server

import (
	"bytes"
	"log"
	"net/http"
)

type indexData struct {
	Themes      []string
	DefaultYAML string
}

// handleIndex serves the live editor with the theme list and default YAML
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	names, err := s.store.List()
	if err != nil {
		log.Printf("[themes] list failed: %v", err)
	}

	var buf bytes.Buffer
	data := indexData{Themes: names, DefaultYAML: s.store.DefaultContent()}
	if err := s.page.Execute(&buf, data); err != nil {
		log.Printf("Error rendering editor page: %v", err)
		http.Error(w, "Failed to render editor page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing editor page: %v", err)
	}
}
