package respond

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Sentinel errors services return to classify failures. Handlers map them to
// HTTP status codes; everything unrecognized is treated as internal.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUpstream     = errors.New("upstream failure")
)

// Envelope is the wire format shared by every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK writes a success envelope.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Fail writes a failure envelope with the status derived from err's class.
func Fail(c echo.Context, err error) error {
	return c.JSON(StatusOf(err), Envelope{Success: false, Error: err.Error()})
}

// FailWith writes a failure envelope with an explicit status and message.
func FailWith(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Error: message})
}

// StatusOf maps a classified error to its HTTP status code.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
