package render

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	markupFile = "main.typ"
	pdfFile    = "main.pdf"
)

// workspace is a per-request scratch directory holding the markup and the
// compiled PDF. Close removes it.
type workspace struct {
	dir string
}

// newWorkspace creates a fresh scratch directory under base, or under the
// system temp directory when base is empty.
func newWorkspace(base string) (*workspace, error) {
	dir, err := os.MkdirTemp(base, "rendercv-"+uuid.NewString()+"-*")
	if err != nil {
		return nil, &RenderError{Message: "failed to create scratch directory", Cause: err}
	}
	return &workspace{dir: dir}, nil
}

func (w *workspace) markupPath() string {
	return filepath.Join(w.dir, markupFile)
}

func (w *workspace) pdfPath() string {
	return filepath.Join(w.dir, pdfFile)
}

func (w *workspace) writeMarkup(markup string) (string, error) {
	path := w.markupPath()
	if err := os.WriteFile(path, []byte(markup), 0o644); err != nil {
		return "", &RenderError{Message: fmt.Sprintf("failed to write markup file %s", path), Cause: err}
	}
	return path, nil
}

func (w *workspace) readPDF() ([]byte, error) {
	data, err := os.ReadFile(w.pdfPath())
	if err != nil {
		return nil, &RenderError{Message: "failed to read generated PDF", Cause: err}
	}
	return data, nil
}

// Close removes the directory. Failures are logged, never returned.
func (w *workspace) Close() {
	if err := os.RemoveAll(w.dir); err != nil {
		log.Printf("[render] failed to remove scratch directory %s: %v", w.dir, err)
	}
}
