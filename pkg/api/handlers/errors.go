package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/homectl/pkg/api/types"
	"github.com/urmzd/homectl/pkg/home"
)

// Error codes that refine home.Kind for HTTP clients
const (
	errorInvalidInput = "invalid_input"
	errorConflict     = "conflict"
	errorBusy         = "busy"
	errorStateUnknown = "state_unknown"
)

// writeError renders err with the status its kind maps to.
func writeError(c *gin.Context, err error) {
	status, code := classify(err)
	c.JSON(status, types.ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, home.ErrInvalidName), errors.Is(err, home.ErrInvalidSetupCode):
		return http.StatusBadRequest, errorInvalidInput
	case errors.Is(err, home.ErrDuplicateName):
		return http.StatusConflict, errorConflict
	case errors.Is(err, home.ErrToggleBusy):
		return http.StatusConflict, errorBusy
	case errors.Is(err, home.ErrStateUnknown):
		return http.StatusConflict, errorStateUnknown
	}

	kind := home.KindOf(err)
	switch kind {
	case home.KindUnauthorized:
		return http.StatusForbidden, string(kind)
	case home.KindNotFound:
		return http.StatusNotFound, string(kind)
	case home.KindCancelled:
		return http.StatusConflict, string(kind)
	default:
		return http.StatusInternalServerError, string(kind)
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, types.ErrorResponse{
		Error:   errorInvalidInput,
		Message: err.Error(),
	})
}
