package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BuzzLyutic/tarefa-api/internal/model"
	"github.com/BuzzLyutic/tarefa-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
	ErrEmptyDate  = &ValidationError{Msg: "date must not be empty"}
)

// ValidationError carries a message that is safe to return to the client.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Get(ctx context.Context, id int64) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx)
}

func (s *TaskService) FindByTitle(ctx context.Context, title string) ([]model.Task, error) {
	return s.repo.FindByTitle(ctx, title)
}

// FindByDate matches on the UTC calendar day of d, ignoring time of day.
func (s *TaskService) FindByDate(ctx context.Context, d model.Date) ([]model.Task, error) {
	if d.Empty() {
		return nil, ErrEmptyDate
	}
	from, to := d.Day()
	return s.repo.FindByDate(ctx, from, to)
}

func (s *TaskService) FindByStatus(ctx context.Context, status model.Status) ([]model.Task, error) {
	if !status.Valid() {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown status %q", status)}
	}
	return s.repo.FindByStatus(ctx, status)
}

// Create validates t before anything reaches the store. The id is always
// assigned by the store.
func (s *TaskService) Create(ctx context.Context, t model.Task) (model.Task, error) {
	if err := s.validate(&t); err != nil {
		return t, err
	}
	t.ID = 0
	return s.repo.Create(ctx, t)
}

// Update is a read-modify-write: the existing row must be found first, then
// its title, description, date and status are replaced by those of in.
func (s *TaskService) Update(ctx context.Context, id int64, in model.Task) (model.Task, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if err := s.validate(&in); err != nil {
		return existing, err
	}

	existing.Title = in.Title
	existing.Description = in.Description
	existing.Date = in.Date
	existing.Status = in.Status

	return s.repo.Update(ctx, existing)
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *TaskService) validate(t *model.Task) error {
	if t.Date.Empty() {
		return ErrEmptyDate
	}
	t.Date = model.NewDate(t.Date.Time)
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	if !t.Status.Valid() {
		return &ValidationError{Msg: fmt.Sprintf("unknown status %q", t.Status)}
	}
	return nil
}
