package schemas

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	names, err := fs.Glob(files, "*.schema.json")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			content, err := Get(name)
			require.NoError(t, err)

			var v map[string]any
			assert.NoError(t, json.Unmarshal([]byte(content), &v), "schema file should be valid JSON: %s", name)
			assert.Equal(t, name, v["$id"])
		})
	}
}

func TestGet_Missing(t *testing.T) {
	_, err := Get("missing.schema.json")
	assert.Error(t, err)
}
