package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/ripo/internal/thin"
	"github.com/samcharles93/ripo/pkg/fat"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{Message: msg, Type: errType},
	})
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

// writeFatError maps container and builder failures to a status code.
func writeFatError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, fat.ErrNotAContainer),
		errors.Is(err, fat.ErrTruncatedHeader),
		errors.Is(err, fat.ErrUnknownArchitecture),
		errors.Is(err, fat.ErrOutOfBounds):
		return writeError(c, http.StatusUnprocessableEntity, "invalid_container_error", err.Error())
	case errors.Is(err, fat.ErrEmptyInput),
		errors.Is(err, fat.ErrDuplicateArch),
		errors.Is(err, fat.ErrAlignment),
		errors.Is(err, fat.ErrTooLarge),
		errors.Is(err, thin.ErrInvalidInput),
		errors.Is(err, ErrInvalidRequest):
		return writeBadRequest(c, err.Error())
	case errors.Is(err, thin.ErrArchNotFound):
		return writeNotFound(c, err.Error())
	default:
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
}
