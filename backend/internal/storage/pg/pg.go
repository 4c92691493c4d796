package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/taskboard-dev/taskboard/backend/internal/service"
	"github.com/taskboard-dev/taskboard/shared/config"
	internal_errors "github.com/taskboard-dev/taskboard/shared/errors"
	"github.com/taskboard-dev/taskboard/shared/logger"
	shared_pg "github.com/taskboard-dev/taskboard/shared/storage/pg"
)

// Storage is the datastore adapter behind the board service.
type Storage struct {
	db *sql.DB
}

var (
	_ service.BoardStorage = (*Storage)(nil)
	_ service.TeamStorage  = (*Storage)(nil)
)

func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to database", "host", cfg.Private.Pg.Host, "dbname", cfg.Private.Pg.Dbname)
	db, err := shared_pg.Connect(ctx, cfg.Private.Pg, shared_pg.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	logger.Log.Info("connected to database")
	return &Storage{db: db}, nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// View runs fn in a read-only repeatable-read transaction so that the project,
// its columns and its cards come from one snapshot.
func (s *Storage) View(ctx context.Context, fn func(q service.BoardQueries) error) error {
	err := shared_pg.WithTx(ctx, s.db, shared_pg.ReadOnly, func(tx *sql.Tx) error {
		return fn(&boardQueries{ctx: ctx, q: tx})
	})
	return classify(err, "")
}

func (s *Storage) Update(ctx context.Context, fn func(q service.BoardQueries) error) error {
	err := shared_pg.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		return fn(&boardQueries{ctx: ctx, q: tx})
	})
	return classify(err, "")
}

// classify maps driver errors onto the error taxonomy. Errors that already carry
// a kind pass through untouched.
func classify(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if internal_errors.KindOf(err) != internal_errors.KindUnknown {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) && notFound != "" {
		return internal_errors.Wrap(internal_errors.KindNotFound, notFound, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "foreign_key_violation":
			return internal_errors.Wrap(internal_errors.KindNotFound, "Referenced item not found", err)
		case "check_violation", "not_null_violation", "string_data_right_truncation", "invalid_text_representation":
			return internal_errors.Wrap(internal_errors.KindValidation, "Invalid input", err)
		case "unique_violation":
			return internal_errors.Wrap(internal_errors.KindConflict, "Item already exists", err)
		}
	}
	return internal_errors.Transient("", err)
}
