package repo

import (
	"context"
	"errors"
	"time"

	"github.com/BuzzLyutic/tarefa-api/internal/model"
)

var (
	ErrorNotFound    = errors.New("not found")
	ErrorConflict    = errors.New("conflict")
	ErrorUnavailable = errors.New("store unavailable")
)

// TaskRepository is the persistence gateway for tasks.
// Every mutating call commits before it returns.
type TaskRepository interface {
	Get(ctx context.Context, id int64) (model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	// FindByTitle matches a case-insensitive, literal substring of the title.
	FindByTitle(ctx context.Context, substr string) ([]model.Task, error)
	// FindByDate returns tasks whose date falls in the half-open range [from, to).
	FindByDate(ctx context.Context, from, to time.Time) ([]model.Task, error)
	FindByStatus(ctx context.Context, status model.Status) ([]model.Task, error)
	Create(ctx context.Context, t model.Task) (model.Task, error)
	// Update overwrites title, description, date and status of the row with t.ID.
	Update(ctx context.Context, t model.Task) (model.Task, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
