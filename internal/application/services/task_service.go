package services

import (
	"context"
	"fmt"
	"time"

	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/infrastructure/logger"
	"github.com/taskmaster/desk/internal/ports"
)

// deadlineLayout is the wall-clock format deadlines are compared against
const deadlineLayout = "15:04"

// TaskService handles to-do list operations
type TaskService struct {
	taskRepo ports.TaskRepository
	logger   *logger.Logger
	now      func() time.Time
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		logger:   logger.WithComponent("todo"),
		now:      time.Now,
	}
}

// WithClock replaces the wall clock used by Taunts
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// CreateTask validates the form and appends a pending task
func (s *TaskService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	category := req.Category
	if category == "" {
		category = entities.CategoryImportant
	}
	if !category.IsKnown() {
		s.logger.Debugw("Task uses a custom category", "category", category)
	}

	task := &entities.Task{
		Task:     req.Task,
		Category: category,
		Deadline: req.Deadline,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.LogRecordChange("tasks", "create", task.ID, map[string]interface{}{"task": task.Task})

	return task, nil
}

// GetTask resolves a selector to a task
func (s *TaskService) GetTask(ctx context.Context, selector string) (*entities.Task, error) {
	list, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	idx, err := resolveSelector(taskIDs(list), selector, entities.ErrTaskNotFound)
	if err != nil {
		return nil, err
	}

	return &list[idx], nil
}

// MarkDone flags the selected task as completed. Marking a done task again is
// a no-op.
func (s *TaskService) MarkDone(ctx context.Context, selector string) (*entities.Task, error) {
	task, err := s.GetTask(ctx, selector)
	if err != nil {
		return nil, err
	}

	if task.Done {
		return task, nil
	}

	task.Done = true
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.LogRecordChange("tasks", "done", task.ID, nil)

	return task, nil
}

// DeleteTask removes the selected task and returns it
func (s *TaskService) DeleteTask(ctx context.Context, selector string) (*entities.Task, error) {
	task, err := s.GetTask(ctx, selector)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.LogRecordChange("tasks", "delete", task.ID, nil)

	return task, nil
}

// ListTasks returns the tasks matching the filter in list order
func (s *TaskService) ListTasks(ctx context.Context, filter ports.TaskFilter) ([]entities.Task, error) {
	list, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return FilterTasks(list, filter), nil
}

// Stats counts total, done and pending tasks
func (s *TaskService) Stats(ctx context.Context) (*ports.TaskStats, error) {
	list, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	stats := &ports.TaskStats{Total: len(list)}
	for _, t := range list {
		if t.Done {
			stats.Done++
		}
	}
	stats.Pending = stats.Total - stats.Done

	return stats, nil
}

// Taunts lists pending tasks whose deadline string sorts at or before the
// current "HH:MM" time.
func (s *TaskService) Taunts(ctx context.Context) (*ports.TauntReport, error) {
	list, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	report := &ports.TauntReport{
		Now:    s.now().Format(deadlineLayout),
		Missed: []entities.Task{},
		Taunts: []string{},
	}

	for _, t := range list {
		if t.IsMissed(report.Now) {
			report.Missed = append(report.Missed, t)
			report.Taunts = append(report.Taunts, fmt.Sprintf("'%s' reh gaya bhai! Mummy daantengi ab!", t.Task))
		}
	}

	if len(report.Missed) == 0 {
		report.Message = "Sare kaam time se! Tum toh boss nikle!"
	} else {
		report.Message = fmt.Sprintf("%d task(s) missed their deadline", len(report.Missed))
	}

	return report, nil
}
