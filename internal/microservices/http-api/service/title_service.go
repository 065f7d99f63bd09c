package service

import (
	"context"
	"log/slog"

	"yamdb/internal/apperror"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.SlugRepository[models.Category]
	genreRepo    repository.SlugRepository[models.Genre]
	logger       *slog.Logger
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.SlugRepository[models.Category],
	genreRepo repository.SlugRepository[models.Genre],
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		logger:       slog.Default(),
	}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error) {
	titles, total, err := s.titleRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	data := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		data = append(data, *dto.FromModelToTitleResponse(&titles[i]))
	}
	return dto.NewPaginated(data, int(total), page, pageSize), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err, apperror.CodeTitleNotFound)
	}
	return dto.FromModelToTitleResponse(title), nil
}

func (s *titleService) Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	title := req.ToModel()

	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	if err := s.titleRepo.Create(ctx, &title); err != nil {
		return nil, storageError(err, apperror.CodeTitleNotFound)
	}
	s.logger.Info("title_created", "title_id", title.ID, "name", title.Name)

	// reload for the expanded references and the rating column
	return s.Get(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err, apperror.CodeTitleNotFound)
	}

	req.ApplyTo(title)

	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	var genres []models.Genre
	if req.Genre != nil {
		if genres, err = s.resolveGenres(ctx, *req.Genre); err != nil {
			return nil, err
		}
	}

	if err := s.titleRepo.Update(ctx, title, genres); err != nil {
		return nil, storageError(err, apperror.CodeTitleNotFound)
	}
	return s.Get(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		return storageError(err, apperror.CodeTitleNotFound)
	}
	s.logger.Info("title_deleted", "title_id", id)
	return nil
}

// resolveGenres maps slugs to stored genres. The result is never nil so an
// explicit empty list clears the genres on update.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	unique := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		if !seen[slug] {
			seen[slug] = true
			unique = append(unique, slug)
		}
	}

	genres, err := s.genreRepo.FindBySlugs(ctx, unique)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(genres) == len(unique) {
		if genres == nil {
			genres = []models.Genre{}
		}
		return genres, nil
	}

	found := make(map[string]bool, len(genres))
	for _, g := range genres {
		found[g.Slug] = true
	}
	for _, slug := range unique {
		if !found[slug] {
			return nil, apperror.Validation(apperror.CodeUnknownSlug, "genre", slug)
		}
	}
	return genres, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.Validation(apperror.CodeUnknownSlug, "category", slug)
		}
		return nil, apperror.Internal(err)
	}
	return category, nil
}
