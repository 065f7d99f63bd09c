package repository

import (
	"context"
	"fmt"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// SlugEntity is a catalog entry addressed by its slug instead of its id.
type SlugEntity interface {
	models.Category | models.Genre
}

// SlugRepository serves categories and genres, which share shape and behaviour.
type SlugRepository[T SlugEntity] interface {
	List(ctx context.Context, search string, page, pageSize int) ([]T, int64, error)
	FindBySlug(ctx context.Context, slug string) (*T, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]T, error)
	Create(ctx context.Context, entity *T) error
	DeleteBySlug(ctx context.Context, slug string) error
}

type slugRepository[T SlugEntity] struct {
	db   *gorm.DB
	kind string
}

func NewCategoryRepository(db *gorm.DB) SlugRepository[models.Category] {
	return &slugRepository[models.Category]{db: db, kind: "category"}
}

func NewGenreRepository(db *gorm.DB) SlugRepository[models.Genre] {
	return &slugRepository[models.Genre]{db: db, kind: "genre"}
}

func (r *slugRepository[T]) List(ctx context.Context, search string, page, pageSize int) ([]T, int64, error) {
	var list []T
	var total int64

	q := r.db.WithContext(ctx).Model(new(T))
	if search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.kind, err)
	}
	if err := q.Order("name asc").Limit(pageSize).Offset(offset(page, pageSize)).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.kind, err)
	}
	return list, total, nil
}

func (r *slugRepository[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// FindBySlugs returns the entries that exist; callers compare lengths to spot unknown slugs.
func (r *slugRepository[T]) FindBySlugs(ctx context.Context, slugs []string) ([]T, error) {
	var list []T
	if len(slugs) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find %s by slugs: %w", r.kind, err)
	}
	return list, nil
}

func (r *slugRepository[T]) Create(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.kind, err)
	}
	return nil
}

func (r *slugRepository[T]) DeleteBySlug(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("delete %s: %w", r.kind, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
