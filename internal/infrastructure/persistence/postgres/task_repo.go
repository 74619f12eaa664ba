// Package postgres implements the PostgreSQL persistence layer for StudyPulse.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/task"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// TASK REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// TaskRepository implements task.Repository for PostgreSQL.
type TaskRepository struct {
	conn *Connection
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(conn *Connection) *TaskRepository {
	return &TaskRepository{conn: conn}
}

const taskColumns = `
	id, student_id, title, task_type, subject, deadline,
	estimated_effort, weight, completed, created_at, updated_at
`

// Create creates a new task.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (
			id, student_id, title, task_type, subject, deadline,
			estimated_effort, weight, completed, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.conn.Exec(ctx, query,
		t.ID,
		t.StudentID,
		t.Title,
		string(t.Type),
		t.Subject,
		t.Deadline,
		t.EstimatedEffort,
		t.Weight,
		t.Completed,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID returns a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	t, err := r.scanTask(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// Update persists task mutations.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, task_type = $3, subject = $4, deadline = $5,
			estimated_effort = $6, weight = $7, completed = $8, updated_at = $9
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		t.ID,
		t.Title,
		string(t.Type),
		t.Subject,
		t.Deadline,
		t.EstimatedEffort,
		t.Weight,
		t.Completed,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrTaskNotFound
	}

	return nil
}

// GetByDeadlineRange returns the student's tasks due in [from, to],
// completed included, ordered by deadline.
func (r *TaskRepository) GetByDeadlineRange(ctx context.Context, studentID string, from, to time.Time) ([]*task.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE student_id = $1 AND deadline >= $2 AND deadline <= $3
		ORDER BY deadline
	`

	return r.queryTasks(ctx, query, studentID, from, to)
}

// GetUncompletedByDeadlineRange returns only the tasks still pending in the
// range. Collision pressure is about work still ahead of the student.
func (r *TaskRepository) GetUncompletedByDeadlineRange(ctx context.Context, studentID string, from, to time.Time) ([]*task.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE student_id = $1 AND deadline >= $2 AND deadline <= $3 AND NOT completed
		ORDER BY deadline
	`

	return r.queryTasks(ctx, query, studentID, from, to)
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*task.Task, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

func (r *TaskRepository) scanTask(row pgx.Row) (*task.Task, error) {
	var (
		t        task.Task
		taskType string
	)

	err := row.Scan(
		&t.ID,
		&t.StudentID,
		&t.Title,
		&taskType,
		&t.Subject,
		&t.Deadline,
		&t.EstimatedEffort,
		&t.Weight,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Type = task.Type(taskType)
	return &t, nil
}
