package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BuzzLyutic/tarefa-api/internal/model"
)

// sqliteDriver is go-sqlite3 with lower() replaced by a Unicode-aware
// version, so title matching folds "Ó" the way Postgres does.
const sqliteDriver = "sqlite3_unicode"

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

// GormTaskRepo stores tasks in SQLite through GORM. Updates are issued as
// explicit column maps, never via Save, so nothing depends on change tracking.
type GormTaskRepo struct {
	db *gorm.DB
}

func NewGormTaskRepo(db *gorm.DB) *GormTaskRepo {
	return &GormTaskRepo{db: db}
}

// OpenSQLite opens path (":memory:" for a private in-memory database) and
// makes sure the tasks table exists. Statement errors and slow queries are
// reported through log.
func OpenSQLite(path string, log *zap.Logger) (*gorm.DB, error) {
	dialector := sqlite.New(sqlite.Config{DriverName: sqliteDriver, DSN: path})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// A second connection to ":memory:" would see an empty database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Task{}); err != nil {
		return nil, fmt.Errorf("create tasks table: %w", err)
	}
	return db, nil
}

func (r *GormTaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return t, r.mapError("get task", err)
}

func (r *GormTaskRepo) List(ctx context.Context) ([]model.Task, error) {
	return r.find("list tasks", r.db.WithContext(ctx))
}

func (r *GormTaskRepo) FindByTitle(ctx context.Context, substr string) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("instr(lower(title), lower(?)) > 0", substr)
	return r.find("find tasks by title", q)
}

func (r *GormTaskRepo) FindByDate(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("date >= ? AND date < ?", from.UTC(), to.UTC())
	return r.find("find tasks by date", q)
}

func (r *GormTaskRepo) FindByStatus(ctx context.Context, status model.Status) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("status = ?", string(status))
	return r.find("find tasks by status", q)
}

func (r *GormTaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	t.ID = 0
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return model.Task{}, r.mapError("create task", err)
	}
	return t, nil
}

func (r *GormTaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"title":       t.Title,
			"description": t.Description,
			"date":        t.Date,
			"status":      string(t.Status),
		})
	if err := result.Error; err != nil {
		return model.Task{}, r.mapError("update task", err)
	}
	if result.RowsAffected == 0 {
		return model.Task{}, ErrorNotFound
	}
	return r.Get(ctx, t.ID)
}

func (r *GormTaskRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return r.mapError("delete task", err)
	}
	if result.RowsAffected == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *GormTaskRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("ping: %w: %w", ErrorUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w: %w", ErrorUnavailable, err)
	}
	return nil
}

func (r *GormTaskRepo) find(op string, q *gorm.DB) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	if err := q.Order("id").Find(&tasks).Error; err != nil {
		return nil, r.mapError(op, err)
	}
	return tasks, nil
}

func (r *GormTaskRepo) mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrorNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w: %w", op, ErrorConflict, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w: %w", op, ErrorUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
