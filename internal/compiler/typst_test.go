package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTypst writes a shell script standing in for the typst binary. The last
// positional argument is the output path, exposed to body as $out.
func fakeTypst(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "typst")
	script := "#!/bin/sh\nfor out; do :; done\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func paths(t *testing.T) (string, string) {
	dir := t.TempDir()
	in := filepath.Join(dir, "main.typ")
	require.NoError(t, os.WriteFile(in, []byte("= Hello"), 0o644))
	return in, filepath.Join(dir, "main.pdf")
}

func TestTypst_Args(t *testing.T) {
	tests := []struct {
		name  string
		typst *Typst
		want  []string
	}{
		{
			name:  "defaults",
			typst: &Typst{},
			want:  []string{"compile", "--diagnostic-format", "human", "in.typ", "out.pdf"},
		},
		{
			name:  "font paths",
			typst: &Typst{FontPaths: []string{"/fonts/", "/opt/rendercv/fonts"}},
			want: []string{
				"compile", "--diagnostic-format", "human",
				"--font-path", "/fonts/", "--font-path", "/opt/rendercv/fonts",
				"in.typ", "out.pdf",
			},
		},
		{
			name:  "short diagnostics",
			typst: &Typst{DiagnosticFormat: "short"},
			want:  []string{"compile", "--diagnostic-format", "short", "in.typ", "out.pdf"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.typst.Args("in.typ", "out.pdf")); diff != "" {
				t.Errorf("Args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTypst_CompileSuccess(t *testing.T) {
	binary := fakeTypst(t, `echo "compiled" ; printf '%%PDF-1.7 fake' > "$out"`)
	in, out := paths(t)

	output, err := NewTypst(binary, nil, time.Second).Compile(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, "compiled\n", output.Stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestTypst_CompileFailures(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
		wantLog     string
		wantExit    int
	}{
		{
			name:        "non-zero exit",
			body:        `echo "error: unknown font family" >&2; exit 1`,
			wantMessage: "Typst compilation failed",
			wantLog:     "error: unknown font family",
			wantExit:    1,
		},
		{
			name:        "zero exit without output",
			body:        `echo "warning: nothing to do" >&2`,
			wantMessage: "PDF generation failed after compilation (file missing)",
			wantLog:     "warning: nothing to do",
		},
		{
			name:        "zero exit with empty output",
			body:        `: > "$out"`,
			wantMessage: "PDF generation failed after compilation (file is empty)",
			wantLog:     "Unknown Typst error",
		},
		{
			name:        "stdout used when stderr is empty",
			body:        `echo "stdout diagnostics"; exit 2`,
			wantMessage: "Typst compilation failed",
			wantLog:     "stdout diagnostics",
			wantExit:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binary := fakeTypst(t, tt.body)
			in, out := paths(t)

			_, err := NewTypst(binary, nil, time.Second).Compile(context.Background(), in, out)
			var cerr *CompilationError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.wantMessage, cerr.Message)
			assert.Contains(t, cerr.LogOutput, tt.wantLog)
			if tt.wantExit != 0 {
				assert.Equal(t, tt.wantExit, cerr.ExitCode)
			}
		})
	}
}

func TestTypst_LongDiagnosticsTruncated(t *testing.T) {
	binary := fakeTypst(t, `i=0; while [ $i -lt 100 ]; do printf 'error line %03d\n' $i >&2; i=$((i+1)); done; exit 1`)
	in, out := paths(t)

	_, err := NewTypst(binary, nil, time.Second).Compile(context.Background(), in, out)
	var cerr *CompilationError
	require.ErrorAs(t, err, &cerr)
	assert.Len(t, cerr.LogOutput, MaxLogOutput+3)
	assert.True(t, strings.HasSuffix(cerr.LogOutput, "..."))
}

func TestTypst_NotFound(t *testing.T) {
	in, out := paths(t)
	_, err := NewTypst(filepath.Join(t.TempDir(), "missing-typst"), nil, time.Second).Compile(context.Background(), in, out)
	var nerr *NotFoundError
	assert.ErrorAs(t, err, &nerr)
}

func TestTypst_Timeout(t *testing.T) {
	binary := fakeTypst(t, `exec sleep 5`)
	in, out := paths(t)

	_, err := NewTypst(binary, nil, 100*time.Millisecond).Compile(context.Background(), in, out)
	var cerr *CompilationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Typst compilation timed out", cerr.Message)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 5, "abc"},
		{"ascii", "abcdef", 2, "ab..."},
		{"inside a rune", "a┌─┐", 2, "a..."},
		{"rune boundary", "a┌─┐", 4, "a┌..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.n))
		})
	}
}

func TestDiagnostics_MultiByteStaysValidUTF8(t *testing.T) {
	stderr := "error: unknown font\n" + strings.Repeat("   ┌─ main.typ:1:1\n   │\n", 50)

	got := Diagnostics(&Output{Stderr: stderr})

	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), MaxLogOutput+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}
