package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/taskboard/internal/domain"
	"github.com/locvowork/taskboard/internal/importer"
	"github.com/locvowork/taskboard/internal/report"
	"github.com/locvowork/taskboard/internal/service"
	"github.com/locvowork/taskboard/internal/service/serviceutils"
)

const maxImportSize = 1 << 20

type CollectionHandler struct {
	svc      service.CollectionService
	importer *importer.Importer
}

func NewCollectionHandler(svc service.CollectionService, im *importer.Importer) *CollectionHandler {
	return &CollectionHandler{svc: svc, importer: im}
}

// ListHandler handles GET /api/v1/collections
func (h *CollectionHandler) ListHandler(c echo.Context) error {
	board, err := h.svc.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "list collections")
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", board)
}

// CreateHandler handles POST /api/v1/collections
func (h *CollectionHandler) CreateHandler(c echo.Context) error {
	var in domain.CreateCollectionInput
	if err := c.Bind(&in); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", nil)
	}
	if err := c.Validate(&in); err != nil {
		return respondError(c, err, "validate collection")
	}

	col, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err, "create collection")
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Collection created", col)
}

// DeleteHandler handles DELETE /api/v1/collections/:id
func (h *CollectionHandler) DeleteHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid collection id", nil)
	}

	col, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "delete collection")
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Collection deleted successfully", col)
}

// ImportHandler handles POST /api/v1/collections/import with a YAML body.
func (h *CollectionHandler) ImportHandler(c echo.Context) error {
	body := http.MaxBytesReader(c.Response(), c.Request().Body, maxImportSize)
	res, err := h.importer.Import(c.Request().Context(), body)
	if err != nil {
		return respondError(c, err, "import collections")
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Board imported", res)
}

// ExportHandler handles GET /api/v1/collections/export
func (h *CollectionHandler) ExportHandler(c echo.Context) error {
	board, err := h.svc.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "export collections")
	}

	var buf bytes.Buffer
	if err := report.WriteBoard(&buf, board); err != nil {
		return respondError(c, err, "export collections")
	}

	filename := "board_" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, report.ContentType, buf.Bytes())
}

// ReindexHandler handles POST /api/v1/collections/reindex
func (h *CollectionHandler) ReindexHandler(c echo.Context) error {
	n, err := h.svc.Reindex(c.Request().Context())
	if err != nil {
		return respondError(c, err, "reindex tasks")
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Tasks reindexed", map[string]int{"indexed": n})
}
