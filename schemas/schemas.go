// Package schemas embeds the JSON Schema documents used to validate data
// exchanged with external collaborators.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var files embed.FS

// GeneratorResult is the schema for the RenderCV bridge envelope.
const GeneratorResult = "generator_result.schema.json"

// Get returns the raw content of an embedded schema file.
func Get(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read schema %s: %w", name, err)
	}
	return string(data), nil
}
