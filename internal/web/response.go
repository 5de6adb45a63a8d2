package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pagebuilder/internal/api"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/service"
	"pagebuilder/internal/themes"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = api.Message(err)
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// wantsJSON reports whether the caller is a script rather than the HTML
// editor form.
func wantsJSON(c *gin.Context) bool {
	if c.Query("format") == "json" {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// classify maps domain and service errors to an HTTP status and code.
func classify(err error) (int, string) {
	var se *api.StatusError
	var te *api.TransportError
	switch {
	case errors.Is(err, service.ErrSaveInFlight):
		return http.StatusConflict, "save_in_flight"
	case errors.Is(err, service.ErrNotLoaded):
		return http.StatusConflict, "not_loaded"
	case errors.Is(err, domain.ErrUnknownBlockType):
		return http.StatusBadRequest, "unknown_block_type"
	case errors.Is(err, domain.ErrInvalidFieldValue):
		return http.StatusBadRequest, "invalid_field_value"
	case errors.Is(err, domain.ErrBlockNotFound):
		return http.StatusNotFound, "block_not_found"
	case errors.Is(err, themes.ErrThemeNotFound):
		return http.StatusNotFound, "theme_not_found"
	case errors.As(err, &se):
		if se.Status == http.StatusNotFound || se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden {
			return se.Status, "backend_error"
		}
		return http.StatusBadGateway, "backend_error"
	case errors.As(err, &te):
		return http.StatusBadGateway, "backend_unreachable"
	}
	return http.StatusBadRequest, "bad_request"
}
