package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobboard-backend/internal/domain"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every
// repository can run against the pool or inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolationCode = "23505"

// mapError translates driver errors into domain errors. Unique index
// violations become ErrDuplicate so the caller can answer 409; the
// constraint closes the check-then-act race on inserts.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return domain.ErrDuplicate
	}
	return err
}

// UnitOfWork runs repository calls inside one pgx transaction.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(r domain.RepoSet) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	repos := domain.RepoSet{
		Users:         NewUserRepository(tx),
		Sessions:      NewSessionRepository(tx),
		Jobs:          NewJobRepository(tx),
		Applications:  NewApplicationRepository(tx),
		Notifications: NewNotificationRepository(tx),
		CvParses:      NewCvParseRepository(tx),
		Profiles:      NewProfileRepository(tx),
		Embeddings:    NewEmbeddingRepository(tx),
		Enhancements:  NewEnhancementRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
