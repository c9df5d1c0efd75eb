package assets

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGet_SampleCV(t *testing.T) {
	ClearCache()

	content, err := Get(SampleCV)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(content), &doc))
	assert.Contains(t, doc, "cv")
	assert.Contains(t, doc, "design")
}

func TestGet_Missing(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read asset")
}

func TestGet_Cached(t *testing.T) {
	ClearCache()

	first, err := Get(DefaultTheme)
	require.NoError(t, err)
	second, err := Get(DefaultTheme)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.yaml")
	})
}

func TestBuiltinThemes(t *testing.T) {
	assert.Equal(t, []string{"classic", "engineeringclassic", "moderncv", "sb2nov"}, BuiltinThemes())
}

func TestBuiltinTheme_DeclaresItsOwnName(t *testing.T) {
	for _, name := range BuiltinThemes() {
		t.Run(name, func(t *testing.T) {
			content, err := BuiltinTheme(name)
			require.NoError(t, err)

			var doc struct {
				Design struct {
					Theme string `yaml:"theme"`
				} `yaml:"design"`
			}
			require.NoError(t, yaml.Unmarshal([]byte(content), &doc))
			assert.Equal(t, name, doc.Design.Theme)
		})
	}
}

func TestEditorPage_Parses(t *testing.T) {
	_, err := template.New("index").Parse(MustGet(EditorPage))
	assert.NoError(t, err)
}
