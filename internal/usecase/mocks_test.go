package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/email"
)

// Mock Repositories

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.UserAccount) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.UserAccount) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.UserAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserAccount), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserAccount), args.Error(1)
}
func (m *MockUserRepo) Search(ctx context.Context, filter domain.UserFilter, limit, offset int) ([]domain.UserAccount, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.UserAccount), args.Get(1).(int64), args.Error(2)
}

type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	return m.Called(ctx, session).Error(0)
}
func (m *MockSessionRepo) GetByTokenID(ctx context.Context, tokenID string) (*domain.Session, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}
func (m *MockSessionRepo) Revoke(ctx context.Context, tokenID string) error {
	return m.Called(ctx, tokenID).Error(0)
}
func (m *MockSessionRepo) RevokeAllForUser(ctx context.Context, userID string) ([]domain.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Session), args.Error(1)
}

type MockResetTokenRepo struct {
	mock.Mock
}

func (m *MockResetTokenRepo) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	return m.Called(ctx, token).Error(0)
}
func (m *MockResetTokenRepo) Get(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PasswordResetToken), args.Error(1)
}
func (m *MockResetTokenRepo) MarkUsed(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobRepo) Search(ctx context.Context, filter domain.JobFilter, limit, offset int) ([]domain.Job, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.JobApplication) error {
	return m.Called(ctx, app).Error(0)
}
func (m *MockApplicationRepo) Update(ctx context.Context, app *domain.JobApplication) error {
	return m.Called(ctx, app).Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.JobApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobApplication), args.Error(1)
}
func (m *MockApplicationRepo) Exists(ctx context.Context, jobID, candidateID string) (bool, error) {
	args := m.Called(ctx, jobID, candidateID)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationRepo) Search(ctx context.Context, filter domain.ApplicationFilter, limit, offset int) ([]domain.JobApplication, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.JobApplication), args.Get(1).(int64), args.Error(2)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *MockNotificationRepo) Update(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *MockNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}
func (m *MockNotificationRepo) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, recipientID, unreadOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}
func (m *MockNotificationRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationRepo) MarkAllRead(ctx context.Context, recipientID string) error {
	return m.Called(ctx, recipientID).Error(0)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile *domain.CandidateProfile) error {
	return m.Called(ctx, profile).Error(0)
}
func (m *MockProfileRepo) Update(ctx context.Context, profile *domain.CandidateProfile) error {
	return m.Called(ctx, profile).Error(0)
}
func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateProfile), args.Error(1)
}

type MockCvParseRepo struct {
	mock.Mock
}

func (m *MockCvParseRepo) Create(ctx context.Context, result *domain.CvParseResult) error {
	return m.Called(ctx, result).Error(0)
}
func (m *MockCvParseRepo) Update(ctx context.Context, result *domain.CvParseResult) error {
	return m.Called(ctx, result).Error(0)
}
func (m *MockCvParseRepo) GetByID(ctx context.Context, id string) (*domain.CvParseResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CvParseResult), args.Error(1)
}
func (m *MockCvParseRepo) ListByCandidate(ctx context.Context, candidateID string, limit, offset int) ([]domain.CvParseResult, int64, error) {
	args := m.Called(ctx, candidateID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.CvParseResult), args.Get(1).(int64), args.Error(2)
}

type MockEmbeddingRepo struct {
	mock.Mock
}

func (m *MockEmbeddingRepo) Upsert(ctx context.Context, record *domain.EmbeddingRecord) error {
	return m.Called(ctx, record).Error(0)
}
func (m *MockEmbeddingRepo) GetBySubject(ctx context.Context, subject domain.EmbeddingSubject, subjectID string) (*domain.EmbeddingRecord, error) {
	args := m.Called(ctx, subject, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmbeddingRecord), args.Error(1)
}
func (m *MockEmbeddingRepo) ListReady(ctx context.Context, subject domain.EmbeddingSubject) ([]domain.EmbeddingRecord, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmbeddingRecord), args.Error(1)
}
func (m *MockEmbeddingRepo) MarkStaleBySubject(ctx context.Context, subject domain.EmbeddingSubject, subjectID string) error {
	return m.Called(ctx, subject, subjectID).Error(0)
}

type MockEnhancementRepo struct {
	mock.Mock
}

func (m *MockEnhancementRepo) Create(ctx context.Context, result *domain.EnhancementResult) error {
	return m.Called(ctx, result).Error(0)
}
func (m *MockEnhancementRepo) Update(ctx context.Context, result *domain.EnhancementResult) error {
	return m.Called(ctx, result).Error(0)
}
func (m *MockEnhancementRepo) GetByID(ctx context.Context, id string) (*domain.EnhancementResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EnhancementResult), args.Error(1)
}
func (m *MockEnhancementRepo) ListByCandidate(ctx context.Context, candidateID string, limit, offset int) ([]domain.EnhancementResult, int64, error) {
	args := m.Called(ctx, candidateID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.EnhancementResult), args.Get(1).(int64), args.Error(2)
}

// Collaborator stand-ins

// fakeUOW hands fn the configured RepoSet without any transaction.
type fakeUOW struct {
	repos domain.RepoSet
}

func (u *fakeUOW) Do(ctx context.Context, fn func(r domain.RepoSet) error) error {
	return fn(u.repos)
}

type stubRevoker struct {
	revoked []string
}

func (s *stubRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	s.revoked = append(s.revoked, tokenID)
	return nil
}

type stubMailer struct {
	sent []email.PasswordResetData
}

func (s *stubMailer) IsConfigured() bool { return true }
func (s *stubMailer) SendPasswordResetEmail(data email.PasswordResetData) error {
	s.sent = append(s.sent, data)
	return nil
}

type stubBlob struct {
	keys []string
	data [][]byte
}

func (s *stubBlob) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	s.keys = append(s.keys, key)
	s.data = append(s.data, data)
	return "s3://test-bucket/" + key, nil
}

// stubEmbedder returns a fixed-direction vector scaled by text length,
// so different texts still compare deterministically.
type stubEmbedder struct {
	vec []float32
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.vec != nil {
		return s.vec, nil
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

type stubEnhancer struct {
	out string
	err error
}

func (s *stubEnhancer) Enhance(ctx context.Context, profile *domain.CandidateProfile) (string, error) {
	return s.out, s.err
}
