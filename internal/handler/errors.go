package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/taskboard/internal/domain"
	"github.com/locvowork/taskboard/internal/importer"
	"github.com/locvowork/taskboard/internal/logger"
	"github.com/locvowork/taskboard/internal/service"
	"github.com/locvowork/taskboard/internal/service/serviceutils"
	"github.com/locvowork/taskboard/internal/validation"
)

// respondError maps service errors onto status codes. Storage errors are
// logged and answered with a generic message.
func respondError(c echo.Context, err error, action string) error {
	var (
		verr    *validation.Error
		tooLong *http.MaxBytesError
	)
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return serviceutils.ResponseError(c, http.StatusUnauthorized, "unauthenticated", nil)
	case errors.Is(err, domain.ErrNotFound):
		return serviceutils.ResponseError(c, http.StatusNotFound, "not found", nil)
	case errors.As(err, &verr):
		return serviceutils.ResponseInvalid(c, "invalid input", err, verr.Fields)
	case errors.As(err, &tooLong):
		return serviceutils.ResponseError(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("document exceeds %d bytes", tooLong.Limit), nil)
	case errors.Is(err, importer.ErrInvalidDocument):
		return serviceutils.ResponseInvalid(c, "invalid document", err, nil)
	case errors.Is(err, service.ErrIndexDisabled):
		return serviceutils.ResponseError(c, http.StatusServiceUnavailable, "search is not enabled", nil)
	default:
		logger.ErrorLog(c.Request().Context(), "failed to %s: %v", action, err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to "+action, nil)
	}
}
