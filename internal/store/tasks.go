// internal/store/tasks.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/leadflow/leadflow/internal/core/db"
	"github.com/leadflow/leadflow/internal/types"
)

// TaskStore persists follow-up tasks. CreateTask implements the engine's
// TaskCreator contract for the create_task action.
type TaskStore struct {
	q *db.Queries
}

// NewTaskStore creates a task store over loaded queries.
func NewTaskStore(q *db.Queries) *TaskStore {
	return &TaskStore{q: q}
}

// CreateTask persists a task from a draft and returns the stored task.
func (s *TaskStore) CreateTask(ctx context.Context, draft types.TaskDraft) (types.Task, error) {
	var id int64
	if err := s.q.Get(ctx, "next-task-id", &id); err != nil {
		return types.Task{}, fmt.Errorf("allocate task id: %w", err)
	}

	now := time.Now().UTC()
	status := draft.Status
	if status == "" {
		status = types.TaskStatusPending
	}

	task := types.Task{
		ID:           id,
		Title:        draft.Title,
		Description:  draft.Description,
		AssignedUser: draft.AssignedUser,
		DueDate:      draft.DueDate,
		Priority:     draft.Priority,
		Status:       status,
		LeadID:       draft.LeadID,
		CreatedBy:    draft.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := s.q.Exec(ctx, "create-task",
		task.ID, task.Title, task.Description, task.AssignedUser, task.DueDate,
		task.Priority, task.Status, task.LeadID, task.CreatedBy,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return types.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// GetByID returns one task or types.ErrTaskNotFound.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (types.Task, error) {
	var task types.Task
	if err := s.q.Get(ctx, "get-task", &task, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Task{}, types.ErrTaskNotFound
		}
		return types.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return task, nil
}

// List returns all tasks ordered by due date.
func (s *TaskStore) List(ctx context.Context) ([]types.Task, error) {
	var tasks []types.Task
	if err := s.q.Select(ctx, "list-tasks", &tasks); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListByLead returns a lead's tasks, newest first.
func (s *TaskStore) ListByLead(ctx context.Context, leadID int64) ([]types.Task, error) {
	var tasks []types.Task
	if err := s.q.Select(ctx, "list-tasks-by-lead", &tasks, leadID); err != nil {
		return nil, fmt.Errorf("list tasks for lead %d: %w", leadID, err)
	}
	return tasks, nil
}

// ListPending returns open tasks ordered by due date.
func (s *TaskStore) ListPending(ctx context.Context) ([]types.Task, error) {
	var tasks []types.Task
	if err := s.q.Select(ctx, "list-pending-tasks", &tasks); err != nil {
		return nil, fmt.Errorf("list pending tasks: %w", err)
	}
	return tasks, nil
}

// Complete marks a task completed. Returns types.ErrTaskNotFound for
// unknown ids.
func (s *TaskStore) Complete(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	res, err := s.q.Exec(ctx, "complete-task", now, now, id)
	if err != nil {
		return fmt.Errorf("complete task %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.ErrTaskNotFound
	}
	return nil
}
