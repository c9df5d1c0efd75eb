// Package types provides the request and response bodies of the HTTP API.
package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RenderRequest is the body of POST /render_live.
type RenderRequest struct {
	YAMLContent string `json:"yaml_content" validate:"required"`
}

// SaveThemeRequest is the body of POST /themes/save.
type SaveThemeRequest struct {
	ThemeName   string `json:"theme_name" validate:"required"`
	YAMLContent string `json:"yaml_content" validate:"required"`
}

// Validate validates the RenderRequest using the validator.
func (r *RenderRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SaveThemeRequest using the validator.
func (r *SaveThemeRequest) Validate() error {
	return validate.Struct(r)
}

// ThemeListResponse is the body of GET /themes.
type ThemeListResponse struct {
	Themes []string `json:"themes"`
}

// ThemeResponse is the body of GET /themes/{name}.
type ThemeResponse struct {
	Theme   string `json:"theme"`
	Content string `json:"content"`
}

// MessageResponse acknowledges a successful mutation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request. Details is a string or
// a list of strings depending on the failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
