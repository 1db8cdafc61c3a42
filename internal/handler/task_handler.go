package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/taskboard/internal/domain"
	"github.com/locvowork/taskboard/internal/service"
	"github.com/locvowork/taskboard/internal/service/serviceutils"
)

type TaskHandler struct {
	svc service.TaskService
}

func NewTaskHandler(svc service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// CreateHandler handles POST /api/v1/tasks
func (h *TaskHandler) CreateHandler(c echo.Context) error {
	var in domain.CreateTaskInput
	if err := c.Bind(&in); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", nil)
	}
	if err := c.Validate(&in); err != nil {
		return respondError(c, err, "validate task")
	}

	task, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err, "create task")
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Task created", task)
}

// SetDoneHandler handles PUT /api/v1/tasks/:id/done
func (h *TaskHandler) SetDoneHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid task id", nil)
	}

	task, err := h.svc.SetDone(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "update task")
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Task marked as done", task)
}

// SearchHandler handles GET /api/v1/tasks/search?q=
func (h *TaskHandler) SearchHandler(c echo.Context) error {
	tasks, err := h.svc.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return respondError(c, err, "search tasks")
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", tasks)
}
