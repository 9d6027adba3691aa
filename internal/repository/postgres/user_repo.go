package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
)

type userRepo struct {
	db Querier
}

// NewUserRepository creates a user account repository
func NewUserRepository(db Querier) domain.UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, password_hash, role, status, created_at, updated_at, status_changed_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.UserAccount, error) {
	var u domain.UserAccount
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&u.CreatedAt, &u.UpdatedAt, &u.StatusChangedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, user *domain.UserAccount) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Role, user.Status,
		user.CreatedAt, user.UpdatedAt,
	)
	return mapError(err)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.UserAccount, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) Update(ctx context.Context, user *domain.UserAccount) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, role = $4, status = $5,
		    updated_at = $6, status_changed_at = $7
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Role, user.Status,
		user.UpdatedAt, user.StatusChangedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) Search(ctx context.Context, filter domain.UserFilter, limit, offset int) ([]domain.UserAccount, int64, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argN := 1

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argN))
		args = append(args, *filter.Role)
		argN++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argN))
		args = append(args, *filter.Status)
		argN++
	} else if !filter.IncludeDeleted {
		conditions = append(conditions, fmt.Sprintf("status <> $%d", argN))
		args = append(args, domain.UserStatusDeleted)
		argN++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM users WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := fmt.Sprintf(
		`SELECT `+userColumns+` FROM users WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argN, argN+1,
	)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var users []domain.UserAccount
	for rows.Next() {
		var u domain.UserAccount
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
			&u.CreatedAt, &u.UpdatedAt, &u.StatusChangedAt,
		); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

type sessionRepo struct {
	db Querier
}

// NewSessionRepository creates a session repository
func NewSessionRepository(db Querier) domain.SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, token_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		session.ID, session.UserID, session.TokenID, session.ExpiresAt, session.CreatedAt,
	)
	return mapError(err)
}

func (r *sessionRepo) GetByTokenID(ctx context.Context, tokenID string) (*domain.Session, error) {
	query := `
		SELECT id, user_id, token_id, expires_at, created_at, revoked_at
		FROM sessions WHERE token_id = $1`

	var s domain.Session
	err := r.db.QueryRow(ctx, query, tokenID).Scan(
		&s.ID, &s.UserID, &s.TokenID, &s.ExpiresAt, &s.CreatedAt, &s.RevokedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}

func (r *sessionRepo) Revoke(ctx context.Context, tokenID string) error {
	query := `UPDATE sessions SET revoked_at = $2 WHERE token_id = $1 AND revoked_at IS NULL`
	_, err := r.db.Exec(ctx, query, tokenID, time.Now())
	return mapError(err)
}

func (r *sessionRepo) RevokeAllForUser(ctx context.Context, userID string) ([]domain.Session, error) {
	query := `
		UPDATE sessions SET revoked_at = $2
		WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > $2
		RETURNING id, user_id, token_id, expires_at, created_at, revoked_at`

	rows, err := r.db.Query(ctx, query, userID, time.Now())
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.TokenID, &s.ExpiresAt, &s.CreatedAt, &s.RevokedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

type resetTokenRepo struct {
	db Querier
}

// NewResetTokenRepository creates a password reset token repository
func NewResetTokenRepository(db Querier) domain.ResetTokenRepository {
	return &resetTokenRepo{db: db}
}

func (r *resetTokenRepo) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)`
	_, err := r.db.Exec(ctx, query, token.Token, token.UserID, token.ExpiresAt)
	return mapError(err)
}

func (r *resetTokenRepo) Get(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	query := `SELECT token, user_id, expires_at, used_at FROM password_reset_tokens WHERE token = $1`

	var t domain.PasswordResetToken
	err := r.db.QueryRow(ctx, query, token).Scan(&t.Token, &t.UserID, &t.ExpiresAt, &t.UsedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (r *resetTokenRepo) MarkUsed(ctx context.Context, token string) error {
	query := `UPDATE password_reset_tokens SET used_at = $2 WHERE token = $1 AND used_at IS NULL`
	result, err := r.db.Exec(ctx, query, token, time.Now())
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
