package serviceutils

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GenericResponse is the envelope of every JSON API response.
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func ResponseSuccess(c echo.Context, code int, msg string, data interface{}) error {
	return c.JSON(code, GenericResponse{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// ResponseError writes a failure envelope. err is exposed to the client, so
// callers pass nil for internal failures.
func ResponseError(c echo.Context, code int, msg string, err error) error {
	resp := GenericResponse{
		Success: false,
		Message: msg,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(code, resp)
}

// ResponseInvalid writes a 400 envelope carrying per-field details.
func ResponseInvalid(c echo.Context, msg string, err error, details interface{}) error {
	resp := GenericResponse{
		Success: false,
		Message: msg,
		Details: details,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(http.StatusBadRequest, resp)
}
