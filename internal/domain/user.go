package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusDeleted   UserStatus = "deleted"
)

// userTransitions: suspension is reversible, deletion is a soft flag
// reversible through reinstatement.
var userTransitions = map[UserStatus]map[UserStatus]bool{
	UserStatusActive:    {UserStatusSuspended: true, UserStatusDeleted: true},
	UserStatusSuspended: {UserStatusActive: true},
	UserStatusDeleted:   {UserStatusActive: true},
}

type UserAccount struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Role            string     `json:"role"`
	Status          UserStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	StatusChangedAt *time.Time `json:"status_changed_at,omitempty"`
}

// NewUserAccount creates an active account. The password hash is
// produced by the auth usecase; the entity never sees plaintext.
func NewUserAccount(email, passwordHash, role string) *UserAccount {
	now := time.Now()
	return &UserAccount{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (u *UserAccount) transition(to UserStatus) error {
	if !userTransitions[u.Status][to] {
		return &InvalidTransitionError{Entity: "user", From: string(u.Status), To: string(to)}
	}
	now := time.Now()
	u.Status = to
	u.StatusChangedAt = &now
	u.UpdatedAt = now
	return nil
}

// Suspend blocks the account. Revoking its sessions is a side effect
// owned by the usecase and committed in the same unit of work.
func (u *UserAccount) Suspend() error {
	return u.transition(UserStatusSuspended)
}

// Reinstate restores a suspended or soft-deleted account.
func (u *UserAccount) Reinstate() error {
	return u.transition(UserStatusActive)
}

// SoftDelete flags the account deleted without removing the row.
func (u *UserAccount) SoftDelete() error {
	return u.transition(UserStatusDeleted)
}

// CanLogin reports whether the account may authenticate.
func (u *UserAccount) CanLogin() bool {
	return u.Status == UserStatusActive
}

// Session is one issued access token, keyed by its jti.
type Session struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	TokenID   string     `json:"token_id"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func NewSession(userID, tokenID string, expiresAt time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

// PasswordResetToken is a single-use token mailed to the account owner.
type PasswordResetToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// UserFilter holds optional admin listing filters.
type UserFilter struct {
	Role           *string
	Status         *UserStatus
	IncludeDeleted bool
}

type UserRepository interface {
	Create(ctx context.Context, user *UserAccount) error
	GetByID(ctx context.Context, id string) (*UserAccount, error)
	GetByEmail(ctx context.Context, email string) (*UserAccount, error)
	Update(ctx context.Context, user *UserAccount) error
	Search(ctx context.Context, filter UserFilter, limit, offset int) ([]UserAccount, int64, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByTokenID(ctx context.Context, tokenID string) (*Session, error)
	Revoke(ctx context.Context, tokenID string) error
	// RevokeAllForUser marks every live session revoked and returns the
	// affected sessions so their token IDs can be denylisted.
	RevokeAllForUser(ctx context.Context, userID string) ([]Session, error)
}

type ResetTokenRepository interface {
	Create(ctx context.Context, token *PasswordResetToken) error
	Get(ctx context.Context, token string) (*PasswordResetToken, error)
	MarkUsed(ctx context.Context, token string) error
}

// SessionRevoker pushes revoked token IDs to the fast denylist checked
// by the auth middleware.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
}

type AuthUsecase interface {
	Register(ctx context.Context, email, password, role string) (*UserAccount, error)
	Login(ctx context.Context, email, password string) (*UserAccount, string, error)
	Logout(ctx context.Context, tokenID string) error
	GetCurrentUser(ctx context.Context, id string) (*UserAccount, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

type UserAdminUsecase interface {
	ListUsers(ctx context.Context, actorRole string, filter UserFilter, page, pageSize int) (*PaginatedResult[UserAccount], error)
	SuspendUser(ctx context.Context, actorID, actorRole, userID string) (*UserAccount, error)
	ReinstateUser(ctx context.Context, actorID, actorRole, userID string) (*UserAccount, error)
	SoftDeleteUser(ctx context.Context, actorID, actorRole, userID string) (*UserAccount, error)
}
