package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/email"
	"go-jobboard-backend/pkg/logger"
)

// ResetMailer sends password reset mail. Satisfied by *email.EmailService.
type ResetMailer interface {
	IsConfigured() bool
	SendPasswordResetEmail(data email.PasswordResetData) error
}

type authUsecase struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	resetRepo   domain.ResetTokenRepository
	tokens      *auth.TokenManager
	revoker     domain.SessionRevoker
	mailer      ResetMailer
	frontendURL string
	resetTTL    time.Duration
}

// NewAuthUsecase creates the auth usecase
func NewAuthUsecase(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	resetRepo domain.ResetTokenRepository,
	tokens *auth.TokenManager,
	revoker domain.SessionRevoker,
	mailer ResetMailer,
	frontendURL string,
	resetTTL time.Duration,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		resetRepo:   resetRepo,
		tokens:      tokens,
		revoker:     revoker,
		mailer:      mailer,
		frontendURL: frontendURL,
		resetTTL:    resetTTL,
	}
}

// Register creates a new active account. Admins are provisioned out of
// band, not through the public endpoint.
func (u *authUsecase) Register(ctx context.Context, emailAddr, password, role string) (*domain.UserAccount, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	if role != domain.RoleCandidate && role != domain.RoleEmployer {
		return nil, apperror.BadRequest("Role must be candidate or employer")
	}
	if len(password) < 8 {
		return nil, apperror.BadRequest("Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := domain.NewUserAccount(emailAddr, string(hash), role)
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("An account with this email already exists")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// Login verifies credentials and issues an access token. Suspended and
// soft-deleted accounts cannot authenticate.
func (u *authUsecase) Login(ctx context.Context, emailAddr, password string) (*domain.UserAccount, string, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	user, err := u.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		// Same response as a wrong password so emails cannot be probed.
		return nil, "", apperror.Unauthorized("Invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", apperror.Unauthorized("Invalid email or password")
	}
	if !user.CanLogin() {
		return nil, "", apperror.Forbidden("This account is not active")
	}

	token, jti, expiresAt, err := u.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	if err := u.sessionRepo.Create(ctx, domain.NewSession(user.ID, jti, expiresAt)); err != nil {
		return nil, "", apperror.Internal(err)
	}
	return user, token, nil
}

// Logout revokes the presented token.
func (u *authUsecase) Logout(ctx context.Context, tokenID string) error {
	session, err := u.sessionRepo.GetByTokenID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil // already gone, nothing to revoke
		}
		return apperror.Internal(err)
	}
	if err := u.sessionRepo.Revoke(ctx, tokenID); err != nil {
		return apperror.Internal(err)
	}
	if err := u.revoker.Revoke(ctx, tokenID, session.ExpiresAt); err != nil {
		logger.Log.Warn("Failed to push token to denylist", "token_id", tokenID, "error", err)
	}
	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.UserAccount, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

// RequestPasswordReset always reports success so account existence
// cannot be enumerated. The mail is only sent for active accounts.
func (u *authUsecase) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	user, err := u.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil || user.Status != domain.UserStatusActive {
		return nil
	}

	token := &domain.PasswordResetToken{
		Token:     auth.NewResetToken(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.resetTTL),
	}
	if err := u.resetRepo.Create(ctx, token); err != nil {
		logger.Log.Error("Failed to store reset token", "error", err)
		return nil
	}

	if !u.mailer.IsConfigured() {
		logger.Log.Warn("SMTP not configured, skipping password reset mail", "user_id", user.ID)
		return nil
	}
	mail := email.PasswordResetData{
		RecipientEmail: user.Email,
		ResetURL:       fmt.Sprintf("%s/reset-password?token=%s", u.frontendURL, token.Token),
		ExpiresMinutes: int(u.resetTTL.Minutes()),
	}
	if err := u.mailer.SendPasswordResetEmail(mail); err != nil {
		logger.Log.Error("Failed to send password reset mail", "error", err)
	}
	return nil
}

func (u *authUsecase) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperror.BadRequest("Password must be at least 8 characters")
	}

	reset, err := u.resetRepo.Get(ctx, token)
	if err != nil {
		return apperror.BadRequest("Invalid or expired reset token")
	}
	if reset.UsedAt != nil || time.Now().After(reset.ExpiresAt) {
		return apperror.BadRequest("Invalid or expired reset token")
	}

	user, err := u.userRepo.GetByID(ctx, reset.UserID)
	if err != nil {
		return apperror.BadRequest("Invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal(err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()

	if err := u.userRepo.Update(ctx, user); err != nil {
		return apperror.Internal(err)
	}
	if err := u.resetRepo.MarkUsed(ctx, token); err != nil {
		logger.Log.Warn("Failed to mark reset token used", "error", err)
	}
	return nil
}
