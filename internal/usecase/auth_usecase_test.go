package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/auth"
)

func newAuthUsecase(userRepo *MockUserRepo, sessionRepo *MockSessionRepo, resetRepo *MockResetTokenRepo, mailer *stubMailer) domain.AuthUsecase {
	return usecase.NewAuthUsecase(
		userRepo, sessionRepo, resetRepo,
		auth.NewTokenManager("test-secret", time.Hour),
		&stubRevoker{}, mailer,
		"http://localhost:3000", 30*time.Minute,
	)
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestRegister(t *testing.T) {
	t.Run("Should reject admin role", func(t *testing.T) {
		uc := newAuthUsecase(new(MockUserRepo), new(MockSessionRepo), new(MockResetTokenRepo), &stubMailer{})

		_, err := uc.Register(context.Background(), "a@b.com", "password123", domain.RoleAdmin)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "candidate or employer")
	})

	t.Run("Should reject short password", func(t *testing.T) {
		uc := newAuthUsecase(new(MockUserRepo), new(MockSessionRepo), new(MockResetTokenRepo), &stubMailer{})

		_, err := uc.Register(context.Background(), "a@b.com", "short", domain.RoleCandidate)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("Should map duplicate email to conflict", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.UserAccount")).Return(domain.ErrDuplicate)
		uc := newAuthUsecase(userRepo, new(MockSessionRepo), new(MockResetTokenRepo), &stubMailer{})

		_, err := uc.Register(context.Background(), "a@b.com", "password123", domain.RoleCandidate)
		assert.Equal(t, apperror.CodeConflict, appCode(t, err))
	})

	t.Run("Should normalize email and hash the password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.UserAccount")).Return(nil).Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.UserAccount)
			assert.Equal(t, "a@b.com", u.Email)
			assert.NotEqual(t, "password123", u.PasswordHash)
			assert.Equal(t, domain.UserStatusActive, u.Status)
		})
		uc := newAuthUsecase(userRepo, new(MockSessionRepo), new(MockResetTokenRepo), &stubMailer{})

		user, err := uc.Register(context.Background(), "  A@B.com ", "password123", domain.RoleCandidate)
		assert.NoError(t, err)
		assert.NotEmpty(t, user.ID)
	})
}

func TestLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	t.Run("Should return the same message for unknown email and wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("GetByEmail", mock.Anything, "missing@b.com").Return(nil, domain.ErrNotFound)
		user := domain.NewUserAccount("known@b.com", string(hash), domain.RoleCandidate)
		userRepo.On("GetByEmail", mock.Anything, "known@b.com").Return(user, nil)
		uc := newAuthUsecase(userRepo, new(MockSessionRepo), new(MockResetTokenRepo), &stubMailer{})

		_, _, errUnknown := uc.Login(context.Background(), "missing@b.com", "password123")
		_, _, errWrong := uc.Login(context.Background(), "known@b.com", "not-the-password")
		assert.Error(t, errUnknown)
		assert.Error(t, errWrong)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("Should refuse suspended accounts with correct credentials", func(t *testing.T) {
		user := domain.NewUserAccount("s@b.com", string(hash), domain.RoleCandidate)
		assert.NoError(t, user.Suspend())

		userRepo := new(MockUserRepo)
		userRepo.On("GetByEmail", mock.Anything, "s@b.com").Return(user, nil)
		uc := newAuthUsecase(userRepo, new(MockSessionRepo), new(MockResetTokenRepo), &stubMailer{})

		_, _, err := uc.Login(context.Background(), "s@b.com", "password123")
		assert.Equal(t, apperror.CodeAccessDenied, appCode(t, err))
	})

	t.Run("Should issue a token and record a session", func(t *testing.T) {
		user := domain.NewUserAccount("ok@b.com", string(hash), domain.RoleCandidate)

		userRepo := new(MockUserRepo)
		userRepo.On("GetByEmail", mock.Anything, "ok@b.com").Return(user, nil)
		sessionRepo := new(MockSessionRepo)
		sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil).Run(func(args mock.Arguments) {
			s := args.Get(1).(*domain.Session)
			assert.Equal(t, user.ID, s.UserID)
			assert.NotEmpty(t, s.TokenID)
		})
		uc := newAuthUsecase(userRepo, sessionRepo, new(MockResetTokenRepo), &stubMailer{})

		got, token, err := uc.Login(context.Background(), "ok@b.com", "password123")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, user.ID, got.ID)
		sessionRepo.AssertExpectations(t)
	})
}

func TestRequestPasswordReset(t *testing.T) {
	t.Run("Should succeed silently for unknown email", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		userRepo.On("GetByEmail", mock.Anything, "ghost@b.com").Return(nil, domain.ErrNotFound)
		mailer := &stubMailer{}
		uc := newAuthUsecase(userRepo, new(MockSessionRepo), new(MockResetTokenRepo), mailer)

		err := uc.RequestPasswordReset(context.Background(), "ghost@b.com")
		assert.NoError(t, err)
		assert.Empty(t, mailer.sent)
	})

	t.Run("Should succeed silently for suspended accounts without sending mail", func(t *testing.T) {
		user := domain.NewUserAccount("s@b.com", "hash", domain.RoleCandidate)
		assert.NoError(t, user.Suspend())

		userRepo := new(MockUserRepo)
		userRepo.On("GetByEmail", mock.Anything, "s@b.com").Return(user, nil)
		mailer := &stubMailer{}
		uc := newAuthUsecase(userRepo, new(MockSessionRepo), new(MockResetTokenRepo), mailer)

		err := uc.RequestPasswordReset(context.Background(), "s@b.com")
		assert.NoError(t, err)
		assert.Empty(t, mailer.sent)
	})

	t.Run("Should mail a reset link for active accounts", func(t *testing.T) {
		user := domain.NewUserAccount("ok@b.com", "hash", domain.RoleCandidate)

		userRepo := new(MockUserRepo)
		userRepo.On("GetByEmail", mock.Anything, "ok@b.com").Return(user, nil)
		resetRepo := new(MockResetTokenRepo)
		resetRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.PasswordResetToken")).Return(nil)
		mailer := &stubMailer{}
		uc := newAuthUsecase(userRepo, new(MockSessionRepo), resetRepo, mailer)

		err := uc.RequestPasswordReset(context.Background(), "ok@b.com")
		assert.NoError(t, err)
		assert.Len(t, mailer.sent, 1)
		assert.Equal(t, "ok@b.com", mailer.sent[0].RecipientEmail)
		assert.Contains(t, mailer.sent[0].ResetURL, "reset-password?token=")
	})
}

func TestConfirmPasswordReset(t *testing.T) {
	t.Run("Should reject an expired token", func(t *testing.T) {
		resetRepo := new(MockResetTokenRepo)
		resetRepo.On("Get", mock.Anything, "tok").Return(&domain.PasswordResetToken{
			Token:     "tok",
			UserID:    "u1",
			ExpiresAt: time.Now().Add(-time.Minute),
		}, nil)
		uc := newAuthUsecase(new(MockUserRepo), new(MockSessionRepo), resetRepo, &stubMailer{})

		err := uc.ConfirmPasswordReset(context.Background(), "tok", "newpassword")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid or expired")
	})

	t.Run("Should reject a used token", func(t *testing.T) {
		used := time.Now().Add(-time.Hour)
		resetRepo := new(MockResetTokenRepo)
		resetRepo.On("Get", mock.Anything, "tok").Return(&domain.PasswordResetToken{
			Token:     "tok",
			UserID:    "u1",
			ExpiresAt: time.Now().Add(time.Hour),
			UsedAt:    &used,
		}, nil)
		uc := newAuthUsecase(new(MockUserRepo), new(MockSessionRepo), resetRepo, &stubMailer{})

		err := uc.ConfirmPasswordReset(context.Background(), "tok", "newpassword")
		assert.Error(t, err)
	})

	t.Run("Should rehash the password and burn the token", func(t *testing.T) {
		user := domain.NewUserAccount("ok@b.com", "oldhash", domain.RoleCandidate)

		resetRepo := new(MockResetTokenRepo)
		resetRepo.On("Get", mock.Anything, "tok").Return(&domain.PasswordResetToken{
			Token:     "tok",
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)
		resetRepo.On("MarkUsed", mock.Anything, "tok").Return(nil)
		userRepo := new(MockUserRepo)
		userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		userRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.UserAccount")).Return(nil).Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.UserAccount)
			assert.NotEqual(t, "oldhash", u.PasswordHash)
		})
		uc := newAuthUsecase(userRepo, new(MockSessionRepo), resetRepo, &stubMailer{})

		err := uc.ConfirmPasswordReset(context.Background(), "tok", "newpassword")
		assert.NoError(t, err)
		resetRepo.AssertExpectations(t)
	})
}

func TestLogout(t *testing.T) {
	t.Run("Should be a no-op when the session is already gone", func(t *testing.T) {
		sessionRepo := new(MockSessionRepo)
		sessionRepo.On("GetByTokenID", mock.Anything, "jti").Return(nil, domain.ErrNotFound)
		uc := newAuthUsecase(new(MockUserRepo), sessionRepo, new(MockResetTokenRepo), &stubMailer{})

		assert.NoError(t, uc.Logout(context.Background(), "jti"))
		sessionRepo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})

	t.Run("Should revoke the session row", func(t *testing.T) {
		session := domain.NewSession("u1", "jti", time.Now().Add(time.Hour))
		sessionRepo := new(MockSessionRepo)
		sessionRepo.On("GetByTokenID", mock.Anything, "jti").Return(session, nil)
		sessionRepo.On("Revoke", mock.Anything, "jti").Return(nil)
		uc := newAuthUsecase(new(MockUserRepo), sessionRepo, new(MockResetTokenRepo), &stubMailer{})

		assert.NoError(t, uc.Logout(context.Background(), "jti"))
		sessionRepo.AssertExpectations(t)
	})
}
