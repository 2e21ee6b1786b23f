package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-team-service/internal/api/dto"
	"github.com/spec-kit/task-team-service/internal/domain"
	"github.com/spec-kit/task-team-service/internal/service"
	apperrors "github.com/spec-kit/task-team-service/pkg/util/errorutil"
)

// TasksHandler manages task endpoints.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// List GET /api/tasks.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	query, err := parseTaskListQuery(c)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.UserContext(), query)
	if err != nil {
		return err
	}
	return ok(c, dto.NewTaskPage(page), "")
}

// Get GET /api/tasks/:id.
func (h *TasksHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "Task")
	if err != nil {
		return err
	}
	task, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, dto.NewTaskResponse(task), "")
}

// Create POST /api/tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	task, err := h.service.Create(c.UserContext(), caller, req.Input())
	if err != nil {
		return err
	}
	return ok(c, dto.NewTaskResponse(task), service.MsgTaskCreated)
}

// Update PUT /api/tasks/:id.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "Task")
	if err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	task, err := h.service.Update(c.UserContext(), caller, id, req.Input())
	if err != nil {
		return err
	}
	return ok(c, dto.NewTaskResponse(task), service.MsgTaskUpdated)
}

// Assign PUT /api/tasks/:id/assign.
func (h *TasksHandler) Assign(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "Task")
	if err != nil {
		return err
	}
	var req dto.AssignTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	task, err := h.service.Assign(c.UserContext(), caller, id, service.AssignTaskInput{AssignToUserID: req.AssignToUserID})
	if err != nil {
		return err
	}
	return ok(c, dto.NewTaskResponse(task), service.MsgTaskAssigned)
}

// UpdateStatus PUT /api/tasks/:id/status.
func (h *TasksHandler) UpdateStatus(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "Task")
	if err != nil {
		return err
	}
	var req dto.UpdateTaskStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	task, err := h.service.UpdateStatus(c.UserContext(), caller, id, service.UpdateTaskStatusInput{Status: req.Status})
	if err != nil {
		return err
	}
	return ok(c, dto.NewTaskResponse(task), service.MsgTaskStatusUpdated)
}

// Delete DELETE /api/tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "Task")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), caller, id); err != nil {
		return err
	}
	return ok(c, true, service.MsgTaskDeleted)
}

func parseTaskListQuery(c *fiber.Ctx) (service.TaskListQuery, error) {
	var errs []string
	query := service.TaskListQuery{
		SearchTerm:     c.Query("searchTerm"),
		AssignToUserID: queryUUID(c, "assignToUserId", &errs),
		TeamID:         queryUUID(c, "teamId", &errs),
		DueDateFrom:    queryTime(c, "dueDateFrom", &errs),
		DueDateTo:      queryTime(c, "dueDateTo", &errs),
		SortBy:         c.Query("sortBy"),
		SortOrder:      c.Query("sortOrder"),
		PageNumber:     c.QueryInt("pageNumber", 1),
		PageSize:       c.QueryInt("pageSize", 10),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, valid := domain.ParseTaskStatus(raw)
		if !valid {
			errs = append(errs, "Invalid task status")
		} else {
			query.Status = &status
		}
	}
	if len(errs) > 0 {
		return query, apperrors.NewValidationError(errs)
	}
	return query, nil
}
