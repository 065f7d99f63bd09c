package service

import (
	"context"
	"sync"
	"time"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == "" {
		user.ID = "generated-" + user.Username
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockTitleRepository mocks the TitleRepository interface
type MockTitleRepository struct {
	mock.Mock
}

func (m *MockTitleRepository) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]models.Title), args.Get(1).(int64), args.Error(2)
}

func (m *MockTitleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleRepository) Create(ctx context.Context, title *models.Title) error {
	return m.Called(ctx, title).Error(0)
}

func (m *MockTitleRepository) Update(ctx context.Context, title *models.Title, genres []models.Genre) error {
	return m.Called(ctx, title, genres).Error(0)
}

func (m *MockTitleRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockSlugRepository mocks SlugRepository for either catalog type
type MockSlugRepository[T repository.SlugEntity] struct {
	mock.Mock
}

func (m *MockSlugRepository[T]) List(ctx context.Context, search string, page, pageSize int) ([]T, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	return args.Get(0).([]T), args.Get(1).(int64), args.Error(2)
}

func (m *MockSlugRepository[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockSlugRepository[T]) FindBySlugs(ctx context.Context, slugs []string) ([]T, error) {
	args := m.Called(ctx, slugs)
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockSlugRepository[T]) Create(ctx context.Context, entity *T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *MockSlugRepository[T]) DeleteBySlug(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	args := m.Called(ctx, titleID, page, pageSize)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) GetInTitle(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ExistsForAuthor(ctx context.Context, titleID int64, authorID string) (bool, error) {
	args := m.Called(ctx, titleID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) CreateUnique(ctx context.Context, review *models.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *models.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReviewRepository) WithTx(tx *gorm.DB) repository.ReviewRepository {
	return m
}

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) ListByReview(ctx context.Context, reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	args := m.Called(ctx, reviewID, page, pageSize)
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentRepository) GetInReview(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	args := m.Called(ctx, reviewID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// memoryCodeStore is a ConfirmationCodeStore kept in a map
type memoryCodeStore struct {
	mu     sync.Mutex
	hashes map[string]string
}

func newMemoryCodeStore() *memoryCodeStore {
	return &memoryCodeStore{hashes: make(map[string]string)}
}

func (s *memoryCodeStore) Save(_ context.Context, userID, codeHash string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes[userID] = codeHash
	return nil
}

func (s *memoryCodeStore) Get(_ context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash, ok := s.hashes[userID]
	if !ok {
		return "", repository.ErrCodeNotFound
	}
	return hash, nil
}

func (s *memoryCodeStore) Consume(_ context.Context, userID, codeHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hash, ok := s.hashes[userID]; !ok || hash != codeHash {
		return repository.ErrCodeNotFound
	}
	delete(s.hashes, userID)
	return nil
}

// recordingChannel keeps every message instead of sending it
type recordingChannel struct {
	mu   sync.Mutex
	sent []sentMessage
}

type sentMessage struct {
	To, Subject, Body string
}

func (c *recordingChannel) Send(_ context.Context, to, subject, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentMessage{To: to, Subject: subject, Body: body})
	return nil
}

func (c *recordingChannel) last() sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[len(c.sent)-1]
}
