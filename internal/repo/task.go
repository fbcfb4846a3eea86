package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/tarefa-api/internal/model"
)

const taskColumns = `id, title, description, date, status`

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{
		pool: pool,
	}
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1
	`, id))
	return t, r.mapError("get task", err)
}

func (r *TaskRepo) List(ctx context.Context) ([]model.Task, error) {
	return r.query(ctx, "list tasks", `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY id
	`)
}

func (r *TaskRepo) FindByTitle(ctx context.Context, substr string) ([]model.Task, error) {
	return r.query(ctx, "find tasks by title", `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE strpos(lower(title), lower($1)) > 0
		ORDER BY id
	`, substr)
}

func (r *TaskRepo) FindByDate(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	return r.query(ctx, "find tasks by date", `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE date >= $1 AND date < $2
		ORDER BY id
	`, from, to)
}

func (r *TaskRepo) FindByStatus(ctx context.Context, status model.Status) ([]model.Task, error) {
	return r.query(ctx, "find tasks by status", `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE status = $1
		ORDER BY id
	`, string(status))
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	created, err := scanTask(r.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+taskColumns,
		t.Title, t.Description, t.Date.Time, string(t.Status),
	))
	return created, r.mapError("create task", err)
}

func (r *TaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	updated, err := scanTask(r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, date = $4, status = $5
		WHERE id = $1
		RETURNING `+taskColumns,
		t.ID, t.Title, t.Description, t.Date.Time, string(t.Status),
	))
	return updated, r.mapError("update task", err)
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return r.mapError("delete task", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *TaskRepo) Ping(ctx context.Context) error {
	return r.mapError("ping", r.pool.Ping(ctx))
}

func (r *TaskRepo) query(ctx context.Context, op, sql string, args ...any) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, r.mapError(op, err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, r.mapError(op, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, r.mapError(op, rows.Err())
}

func scanTask(row pgx.Row) (model.Task, error) {
	var (
		t      model.Task
		status string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Date.Time, &status)
	t.Date = model.NewDate(t.Date.Time)
	t.Status = model.Status(status)
	return t, err
}

// mapError classifies driver errors so callers can tell a missing row or a
// constraint violation from a store that cannot be reached.
func (r *TaskRepo) mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 23: integrity constraint violation.
		if len(pgErr.Code) == 5 && pgErr.Code[:2] == "23" {
			return fmt.Errorf("%s: %w: %s", op, ErrorConflict, pgErr.ConstraintName)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.SafeToRetry(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrorUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
