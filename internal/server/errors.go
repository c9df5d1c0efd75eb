package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/rendercv-live/internal/compiler"
	"github.com/jonathan/rendercv-live/internal/generator"
	"github.com/jonathan/rendercv-live/internal/render"
	"github.com/jonathan/rendercv-live/internal/themes"
	"github.com/jonathan/rendercv-live/internal/types"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound   *themes.NotFoundError
		protected  *themes.ProtectedError
		badName    *themes.InvalidNameError
		badContent *themes.InvalidContentError
		validation *render.ValidationFailedError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &protected):
		return http.StatusForbidden
	case errors.As(err, &badName), errors.As(err, &badContent), errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody builds the JSON body for a render or theme failure. Failures of
// the server's own machinery carry only the error category; the full error
// belongs in the server log.
func ErrorBody(err error) types.ErrorResponse {
	var (
		validation  *render.ValidationFailedError
		compilation *compiler.CompilationError
		noCompiler  *compiler.NotFoundError
		unavailable *generator.UnavailableError
		notFound    *themes.NotFoundError
		protected   *themes.ProtectedError
		badName     *themes.InvalidNameError
		badContent  *themes.InvalidContentError
	)

	switch {
	case errors.As(err, &validation):
		return types.ErrorResponse{Error: "YAML validation failed.", Details: validation.Details}
	case errors.As(err, &compilation):
		resp := types.ErrorResponse{Error: compilation.Message + "."}
		if compilation.LogOutput != "" {
			resp.Details = compilation.LogOutput
		}
		return resp
	case errors.As(err, &noCompiler):
		return types.ErrorResponse{Error: "Rendering failed: Typst command not found or not in PATH."}
	case errors.As(err, &unavailable):
		return types.ErrorResponse{Error: "RenderCV API function not available."}
	case errors.Is(err, render.ErrEmptyResult):
		return types.ErrorResponse{Error: "Failed to generate Typst content. RenderCV returned empty result."}
	case errors.As(err, &badName):
		return types.ErrorResponse{Error: "Theme name can only contain letters, numbers, and underscores."}
	case errors.As(err, &notFound), errors.As(err, &protected), errors.As(err, &badContent):
		return types.ErrorResponse{Error: err.Error()}
	default:
		return types.ErrorResponse{Error: "An unexpected server error occurred: " + Category(err)}
	}
}

// Category names the concrete type of err without its pointer marker,
// e.g. "generator.Error".
func Category(err error) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}
