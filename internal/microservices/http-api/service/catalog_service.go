package service

import (
	"context"
	"log/slog"

	"yamdb/internal/apperror"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

// CatalogService manages one slug-addressed collection: categories or genres.
type CatalogService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.SlugEntityResponse], error)
	Create(ctx context.Context, req dto.CreateSlugEntityRequest) (*dto.SlugEntityResponse, error)
	Delete(ctx context.Context, slug string) error
}

type catalogService[T repository.SlugEntity] struct {
	repo         repository.SlugRepository[T]
	build        func(name, slug string) *T
	toResponse   func(*T) *dto.SlugEntityResponse
	notFoundCode string
	kind         string
	logger       *slog.Logger
}

func NewCategoryService(repo repository.SlugRepository[models.Category]) CatalogService {
	return &catalogService[models.Category]{
		repo:         repo,
		build:        func(name, slug string) *models.Category { return &models.Category{Name: name, Slug: slug} },
		toResponse:   dto.FromModelToCategoryResponse,
		notFoundCode: apperror.CodeCategoryNotFound,
		kind:         "category",
		logger:       slog.Default(),
	}
}

func NewGenreService(repo repository.SlugRepository[models.Genre]) CatalogService {
	return &catalogService[models.Genre]{
		repo:         repo,
		build:        func(name, slug string) *models.Genre { return &models.Genre{Name: name, Slug: slug} },
		toResponse:   dto.FromModelToGenreResponse,
		notFoundCode: apperror.CodeGenreNotFound,
		kind:         "genre",
		logger:       slog.Default(),
	}
}

func (s *catalogService[T]) List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.SlugEntityResponse], error) {
	list, total, err := s.repo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	data := make([]dto.SlugEntityResponse, 0, len(list))
	for i := range list {
		data = append(data, *s.toResponse(&list[i]))
	}
	return dto.NewPaginated(data, int(total), page, pageSize), nil
}

func (s *catalogService[T]) Create(ctx context.Context, req dto.CreateSlugEntityRequest) (*dto.SlugEntityResponse, error) {
	entity := s.build(req.Name, req.Slug)
	if err := s.repo.Create(ctx, entity); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperror.Conflict(apperror.CodeSlugTaken, req.Slug).WithField("slug")
		}
		return nil, apperror.Internal(err)
	}
	s.logger.Info("catalog_entry_created", "kind", s.kind, "slug", req.Slug)
	return s.toResponse(entity), nil
}

func (s *catalogService[T]) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		return storageError(err, s.notFoundCode)
	}
	s.logger.Info("catalog_entry_deleted", "kind", s.kind, "slug", slug)
	return nil
}
