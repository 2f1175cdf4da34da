package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/desk/internal/infrastructure/logger"
	"github.com/taskmaster/desk/internal/ports"
)

// TaskHandler handles to-do list requests
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ListTasks godoc
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Param q query string false "Search over task text and category"
// @Param status query string false "all, pending or done"
// @Success 200 {array} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	status := ports.TaskStatusFilter(c.QueryParam("status"))
	switch status {
	case "", ports.TaskStatusAll, ports.TaskStatusPending, ports.TaskStatusDone:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "status must be all, pending or done")
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), ports.TaskFilter{
		Search: c.QueryParam("q"),
		Status: status,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

// CreateTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.CreateTaskRequest true "Task data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(c echo.Context) error {
	task, err := h.taskService.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// MarkDone flags the selected task as completed
func (h *TaskHandler) MarkDone(c echo.Context) error {
	task, err := h.taskService.MarkDone(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c echo.Context) error {
	task, err := h.taskService.DeleteTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Deleted task " + task.Task})
}

func (h *TaskHandler) Stats(c echo.Context) error {
	stats, err := h.taskService.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

// Taunts reports pending tasks whose deadline has passed
func (h *TaskHandler) Taunts(c echo.Context) error {
	report, err := h.taskService.Taunts(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, report)
}
