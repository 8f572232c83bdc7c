package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"agrodrone/internal/types"
)

// TaskRepository provides data access for the tasks table.
type TaskRepository struct {
	db DBTX
}

// NewTaskRepository creates a new TaskRepository backed by the given database
// connection (pool or transaction).
func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, description, status, priority, due_date, assignee,
	created_at, updated_at`

func scanTask(row pgx.Row) (*types.Task, error) {
	var task types.Task
	var (
		description *string
		dueDate     *string
		assignee    *string
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Status,
		&task.Priority,
		&dueDate,
		&assignee,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description != nil {
		task.Description = *description
	}
	if dueDate != nil {
		task.DueDate = *dueDate
	}
	if assignee != nil {
		task.Assignee = *assignee
	}

	return &task, nil
}

// Create inserts a new task record. The caller must set the ID (prefixed
// UUID, e.g. "task_...") before calling.
func (r *TaskRepository) Create(ctx context.Context, task *types.Task) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tasks (
			id, title, description, status, priority, due_date, assignee,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			COALESCE($8, NOW()), COALESCE($9, NOW())
		)`,
		task.ID,
		task.Title,
		nilIfEmpty(task.Description),
		task.Status,
		task.Priority,
		nilIfEmpty(task.DueDate),
		nilIfEmpty(task.Assignee),
		nilIfZeroTime(task.CreatedAt),
		nilIfZeroTime(task.UpdatedAt),
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to create task", err)
	}
	return nil
}

// GetByID retrieves a task by its ID. Returns ErrCodeNotFoundTask when no
// row matches.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*types.Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`,
		id,
	)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundTask, "task not found", nil)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to retrieve task", err)
	}
	return task, nil
}

// Update writes all mutable fields of the task. Returns ErrCodeNotFoundTask
// when the row does not exist.
func (r *TaskRepository) Update(ctx context.Context, task *types.Task) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks SET
			title = $1,
			description = $2,
			status = $3,
			priority = $4,
			due_date = $5,
			assignee = $6,
			updated_at = NOW()
		 WHERE id = $7`,
		task.Title,
		nilIfEmpty(task.Description),
		task.Status,
		task.Priority,
		nilIfEmpty(task.DueDate),
		nilIfEmpty(task.Assignee),
		task.ID,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to update task", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundTask, "task not found", nil)
	}
	return nil
}

// Delete removes a task. Deleting an ID that no longer exists is not an
// error.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to delete task", err)
	}
	return nil
}

// List retrieves all tasks ordered by created_at DESC (newest first).
func (r *TaskRepository) List(ctx context.Context) ([]*types.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list tasks", err)
	}
	defer rows.Close()

	var results []*types.Task
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan task row", scanErr)
		}
		results = append(results, task)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "error iterating task rows", err)
	}

	return results, nil
}

// CountPending returns the number of tasks not yet done.
func (r *TaskRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status != $1`,
		types.TaskStatusDone,
	).Scan(&count)
	if err != nil {
		return 0, types.NewAppError(types.ErrCodeInternalDB, "failed to count pending tasks", err)
	}
	return count, nil
}
