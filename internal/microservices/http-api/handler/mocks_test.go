package handler

import (
	"context"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/permission"

	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock implementation of service.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RequestCode(ctx context.Context, email, username string) (*models.User, error) {
	args := m.Called(ctx, email, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) ExchangeCode(ctx context.Context, email, code string) (string, error) {
	args := m.Called(ctx, email, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockReviewService is a mock implementation of service.ReviewService
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.ReviewResponse]), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, actor *models.User, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, req permission.Request, titleID, reviewID int64, in dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, req, titleID, reviewID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, req permission.Request, titleID, reviewID int64) error {
	args := m.Called(ctx, req, titleID, reviewID)
	return args.Error(0)
}

// MockCatalogService is a mock implementation of service.CatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.SlugEntityResponse], error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.SlugEntityResponse]), args.Error(1)
}

func (m *MockCatalogService) Create(ctx context.Context, req dto.CreateSlugEntityRequest) (*dto.SlugEntityResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SlugEntityResponse), args.Error(1)
}

func (m *MockCatalogService) Delete(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// MockTitleService is a mock implementation of service.TitleService
type MockTitleService struct {
	mock.Mock
}

func (m *MockTitleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.TitleResponse]), args.Error(1)
}

func (m *MockTitleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
