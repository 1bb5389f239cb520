package service

import (
	"context"
	"errors"
	"sync"

	"loftalgerie/internal/permissions"
	taskserrors "loftalgerie/internal/tasks/errors"
	"loftalgerie/internal/tasks/repository"
	"loftalgerie/internal/tasks/validator"
	"loftalgerie/pkg/auth"
	"loftalgerie/pkg/config"
	apperrors "loftalgerie/pkg/errors"
	"loftalgerie/pkg/events"
	"loftalgerie/pkg/model"
	"loftalgerie/pkg/sanitizer"
)

type TaskService interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	GetAll(ctx context.Context, filter model.TaskFilter, limit int, offset int64) ([]*model.Task, int64, error)
	Update(ctx context.Context, id string, updates *model.TaskUpdate) (*model.Task, error)
	Delete(ctx context.Context, id string) error
}

type taskService struct {
	repo      repository.TaskRepository
	validator *validator.TaskValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewTaskService(repo repository.TaskRepository, validator *validator.TaskValidator, publisher events.Publisher, cfg *config.Config) TaskService {
	return &taskService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *taskService) Create(ctx context.Context, task *model.Task) error {
	p, err := auth.Require(ctx)
	if err != nil {
		return err
	}
	perms := permissions.TaskPermissionsFor(p.Role)
	if !perms.CanCreate {
		return apperrors.Forbidden("Not allowed to create tasks")
	}
	if task.AssignedTo != "" && !perms.CanAssign {
		return apperrors.Forbidden("Not allowed to assign tasks")
	}

	task.ID = ""
	task.CreatedBy = p.UserID
	if task.Status == "" {
		task.Status = model.TaskStatusTodo
	}
	s.sanitize(task)

	if err := s.validator.Validate(task); err != nil {
		s.cfg.Log.Warn("Task validation failed", "title", task.Title, "error", err)
		return apperrors.Validation("Task validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.cfg.Log.Error("Failed to create task", "title", task.Title, "error", err)
		return apperrors.Internal("Failed to create task", err)
	}

	s.cfg.Log.Info("Task created successfully",
		"id", task.ID,
		"assigned_to", task.AssignedTo,
		"loft_id", task.LoftID,
	)

	event := events.New(ctx, events.TaskCreated, events.TableTasks, task.ID, model.AuditInsert)
	event.NewValues = events.ToValues(task)
	s.publish(ctx, event)

	if task.AssignedTo != "" {
		s.publishAssigned(ctx, task)
	}
	return nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*model.Task, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Task ID cannot be empty")
	}

	task, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permissions.CanViewTask(p, task) {
		return nil, apperrors.NotFoundWithID("Task", id)
	}
	return task, nil
}

func (s *taskService) GetAll(ctx context.Context, filter model.TaskFilter, limit int, offset int64) ([]*model.Task, int64, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, 0, err
	}
	scope := permissions.TaskScope(p)
	if scope.Deny {
		return []*model.Task{}, 0, nil
	}

	var count int64
	var tasks []*model.Task
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx, scope, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count tasks", "error", err)
			errCount = apperrors.Internal("Failed to count tasks", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		tasks, err = s.repo.FindAll(ctx, scope, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list tasks", "error", err)
			errFind = apperrors.Internal("Failed to retrieve tasks", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if tasks == nil {
		tasks = []*model.Task{}
	}
	return tasks, count, nil
}

func (s *taskService) Update(ctx context.Context, id string, updates *model.TaskUpdate) (*model.Task, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Task ID cannot be empty")
	}

	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permissions.CanViewTask(p, existing) {
		return nil, apperrors.NotFoundWithID("Task", id)
	}
	if !permissions.CanApplyTaskUpdate(p, existing, updates) {
		return nil, apperrors.Forbidden("Not allowed to apply this update")
	}
	if updates.AssignedTo != nil && *updates.AssignedTo != existing.AssignedTo &&
		!permissions.TaskPermissionsFor(p.Role).CanAssign {
		return nil, apperrors.Forbidden("Not allowed to assign tasks")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Task update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := mergeTaskUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Merged task validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Task validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, taskserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Task", id)
		}
		s.cfg.Log.Error("Failed to update task", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update task", err)
	}

	s.cfg.Log.Info("Task updated successfully", "id", id, "status", merged.Status)

	event := events.New(ctx, events.TaskUpdated, events.TableTasks, id, model.AuditUpdate)
	event.OldValues = events.ToValues(existing)
	event.NewValues = events.ToValues(merged)
	s.publish(ctx, event)

	if merged.AssignedTo != "" && merged.AssignedTo != existing.AssignedTo {
		s.publishAssigned(ctx, merged)
	}
	return merged, nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	p, err := auth.Require(ctx)
	if err != nil {
		return err
	}
	if !permissions.TaskPermissionsFor(p.Role).CanDelete {
		return apperrors.Forbidden("Not allowed to delete tasks")
	}
	if id == "" {
		return apperrors.InvalidInput("Task ID cannot be empty")
	}

	existing, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, taskserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Task", id)
		}
		s.cfg.Log.Error("Failed to delete task", "id", id, "error", err)
		return apperrors.Internal("Failed to delete task", err)
	}

	s.cfg.Log.Info("Task deleted successfully", "id", id)

	event := events.New(ctx, events.TaskDeleted, events.TableTasks, id, model.AuditDelete)
	event.OldValues = events.ToValues(existing)
	s.publish(ctx, event)
	return nil
}

func (s *taskService) find(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, taskserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Task", id)
		}
		if errors.Is(err, taskserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid task ID format")
		}
		s.cfg.Log.Error("Failed to retrieve task", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve task", err)
	}
	return task, nil
}

func (s *taskService) sanitize(task *model.Task) {
	task.Title = sanitizer.NormalizeName(task.Title)
	task.Description = sanitizer.NormalizeText(task.Description)
	task.AssignedTo = sanitizer.TrimAndNormalize(task.AssignedTo)
}

func mergeTaskUpdates(existing *model.Task, updates *model.TaskUpdate) *model.Task {
	merged := *existing

	if updates.Title != "" {
		merged.Title = updates.Title
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.DueDate != nil {
		due := *updates.DueDate
		merged.DueDate = &due
	}
	if updates.AssignedTo != nil {
		merged.AssignedTo = *updates.AssignedTo
	}
	if updates.LoftID != nil {
		merged.LoftID = *updates.LoftID
	}

	return &merged
}

// publishAssigned notifies the assignee. The event carries no table so the
// audit consumer ignores it.
func (s *taskService) publishAssigned(ctx context.Context, task *model.Task) {
	event := events.New(ctx, events.TaskAssigned, "", task.ID, "")
	event.Recipients = []string{task.AssignedTo}
	event.Data = map[string]string{
		"title":   task.Title,
		"loft_id": task.LoftID,
	}
	if task.DueDate != nil {
		event.Data["due_date"] = task.DueDate.UTC().Format("2006-01-02")
	}
	s.publish(ctx, event)
}

func (s *taskService) publish(ctx context.Context, event events.DomainEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish domain event",
			"type", event.Type,
			"record_id", event.RecordID,
			"error", err,
		)
	}
}
