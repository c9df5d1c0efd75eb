package server

import (
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rendercv-live/internal/compiler"
	"github.com/jonathan/rendercv-live/internal/render"
)

func TestHandleListThemes(t *testing.T) {
	s, store := newTestServer(t, &fakeRenderer{})
	require.NoError(t, store.Save("mine", "design:\n  theme: classic\n"))

	w := do(t, s, http.MethodGet, "/themes", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"classic", "engineeringclassic", "mine", "moderncv", "sb2nov"}, decodeBody(t, w)["themes"])
}

func TestHandleGetTheme(t *testing.T) {
	s, _ := newTestServer(t, &fakeRenderer{})

	w := do(t, s, http.MethodGet, "/themes/moderncv", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "moderncv", resp["theme"])
	assert.Contains(t, resp["content"], `theme: "moderncv"`)
}

func TestHandleGetTheme_Errors(t *testing.T) {
	s, _ := newTestServer(t, &fakeRenderer{})

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantError  string
	}{
		{"missing", "/themes/absent", http.StatusNotFound, "Theme 'absent' not found"},
		{"invalid name", "/themes/bad-name", http.StatusBadRequest, "Theme name can only contain letters, numbers, and underscores."},
		{"dotted name", "/themes/classic.yaml", http.StatusBadRequest, "Theme name can only contain letters, numbers, and underscores."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodGet, tt.target, "", "")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, decodeBody(t, w)["error"])
		})
	}
}

func TestHandleSaveTheme(t *testing.T) {
	s, store := newTestServer(t, &fakeRenderer{})

	w := do(t, s, http.MethodPost, "/themes/save", "application/json",
		`{"theme_name": "my_theme", "yaml_content": "design:\n  theme: classic\n"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Theme 'my_theme' saved successfully.", decodeBody(t, w)["message"])

	content, err := store.Get("my_theme")
	require.NoError(t, err)
	assert.Contains(t, content, "theme: my_theme")
}

func TestHandleSaveTheme_Errors(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		wantError   string
	}{
		{
			name:       "not json",
			body:       `theme_name=x`,
			wantStatus: http.StatusUnsupportedMediaType,
			wantError:  "Request must be JSON.",
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"theme_name":`,
			wantStatus:  http.StatusBadRequest,
			wantError:   "Invalid JSON body",
		},
		{
			name:        "missing content",
			contentType: "application/json",
			body:        `{"theme_name": "x"}`,
			wantStatus:  http.StatusBadRequest,
			wantError:   "Missing 'theme_name' or 'yaml_content' in request.",
		},
		{
			name:        "invalid name",
			contentType: "application/json; charset=utf-8",
			body:        `{"theme_name": "my theme", "yaml_content": "design: {}"}`,
			wantStatus:  http.StatusBadRequest,
			wantError:   "Theme name can only contain letters, numbers, and underscores.",
		},
		{
			name:        "content not a mapping",
			contentType: "application/json",
			body:        `{"theme_name": "x", "yaml_content": "- a\n- b\n"}`,
			wantStatus:  http.StatusBadRequest,
			wantError:   "invalid theme content: top level must be a mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, &fakeRenderer{})
			w := do(t, s, http.MethodPost, "/themes/save", tt.contentType, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, decodeBody(t, w)["error"])
		})
	}
}

func TestHandleDeleteTheme(t *testing.T) {
	s, store := newTestServer(t, &fakeRenderer{})
	require.NoError(t, store.Save("mine", "design: {}\n"))

	w := do(t, s, http.MethodDelete, "/themes/mine", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Theme 'mine' deleted successfully", decodeBody(t, w)["message"])

	w = do(t, s, http.MethodDelete, "/themes/mine", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDeleteTheme_BuiltinsForbidden(t *testing.T) {
	s, store := newTestServer(t, &fakeRenderer{})

	for _, name := range []string{"classic", "moderncv", "sb2nov", "engineeringclassic"} {
		t.Run(name, func(t *testing.T) {
			w := do(t, s, http.MethodDelete, "/themes/"+name, "", "")
			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, "Cannot delete built-in theme '"+name+"'", decodeBody(t, w)["error"])
			assert.FileExists(t, filepath.Join(store.Dir(), name+".yaml"))
		})
	}
}

func TestHandleDeleteTheme_Symlink(t *testing.T) {
	s, store := newTestServer(t, &fakeRenderer{})
	target := filepath.Join(t.TempDir(), "outside.yaml")
	require.NoError(t, os.WriteFile(target, []byte("design: {}\n"), 0o644))
	require.NoError(t, os.Symlink(target, filepath.Join(store.Dir(), "link.yaml")))

	w := do(t, s, http.MethodDelete, "/themes/link", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Theme file not found or is not accessible", decodeBody(t, w)["error"])
	assert.FileExists(t, target)
}

func TestHandlePreviewTheme(t *testing.T) {
	renderer := &fakeRenderer{}
	s, _ := newTestServer(t, renderer)

	w := do(t, s, http.MethodGet, "/themes/sb2nov/preview", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, testPDF, w.Body.Bytes())
	assert.Equal(t, "sb2nov", renderer.lastPreview)
	assert.Empty(t, w.Header().Get("X-Icon-Warning"))
}

func TestHandlePreviewTheme_Missing(t *testing.T) {
	renderer := &fakeRenderer{}
	s, _ := newTestServer(t, renderer)

	w := do(t, s, http.MethodGet, "/themes/absent/preview", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, renderer.previews.Load())
}

func TestHandlePreviewTheme_CompileFailure(t *testing.T) {
	renderer := &fakeRenderer{err: &compiler.CompilationError{Message: "Typst compilation failed", LogOutput: "error: boom"}}
	s, _ := newTestServer(t, renderer)

	w := do(t, s, http.MethodGet, "/themes/classic/preview", "", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "Typst compilation failed.", resp["error"])
	assert.Equal(t, "error: boom", resp["details"])
}

func TestHandlePreviewTheme_ValidationFailure(t *testing.T) {
	renderer := &fakeRenderer{err: &render.ValidationFailedError{Details: []string{"Field 'cv.name': required"}}}
	s, _ := newTestServer(t, renderer)

	w := do(t, s, http.MethodGet, "/themes/classic/preview", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "YAML validation failed for preview.", resp["error"])
	assert.Equal(t, []any{"Field 'cv.name': required"}, resp["details"])
}

func TestHandlePreviewTheme_ConcurrentRequestsShareRender(t *testing.T) {
	renderer := &fakeRenderer{delay: 200 * time.Millisecond, doc: &render.Document{PDF: testPDF}}
	s, _ := newTestServer(t, renderer)

	var wg sync.WaitGroup
	codes := make([]int, 5)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = do(t, s, http.MethodGet, "/themes/classic/preview", "", "").Code
		}(i)
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	assert.Less(t, renderer.previews.Load(), int32(5))
}
