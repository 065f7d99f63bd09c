package repository

import (
	"context"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ratingColumn computes the average score on read; it is never stored.
const ratingColumn = "(SELECT AVG(reviews.score) FROM reviews WHERE reviews.title_id = titles.id) AS rating"

// TitleFilter narrows the title list. Zero values are ignored.
type TitleFilter struct {
	Genre    string // genre slug
	Category string // category slug
	Name     string // substring of the name, case-insensitive
	Year     *int
}

type TitleRepository interface {
	List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, title *models.Title) error
	// Update writes the scalar fields and the category. A nil genres slice keeps the current set.
	Update(ctx context.Context, title *models.Title, genres []models.Genre) error
	Delete(ctx context.Context, id int64) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func applyTitleFilter(q *gorm.DB, f TitleFilter) *gorm.DB {
	if f.Genre != "" {
		q = q.Where("EXISTS (SELECT 1 FROM title_genres tg JOIN genres g ON g.id = tg.genre_id WHERE tg.title_id = titles.id AND g.slug = ?)", f.Genre)
	}
	if f.Category != "" {
		q = q.Where("titles.category_id IN (SELECT id FROM categories WHERE slug = ?)", f.Category)
	}
	if f.Name != "" {
		q = q.Where("titles.name ILIKE ?", "%"+f.Name+"%")
	}
	if f.Year != nil {
		q = q.Where("titles.year = ?", *f.Year)
	}
	return q
}

func (r *titleRepository) List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var titles []models.Title
	var total int64

	if err := applyTitleFilter(r.db.WithContext(ctx).Model(&models.Title{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyTitleFilter(r.db.WithContext(ctx).Model(&models.Title{}), filter).
		Select("titles.*, " + ratingColumn).
		Preload("Category").
		Preload("Genres").
		Order("titles.id ASC").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&titles).Error
	if err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var title models.Title
	err := r.db.WithContext(ctx).
		Select("titles.*, "+ratingColumn).
		Preload("Category").
		Preload("Genres").
		Where("titles.id = ?", id).
		First(&title).Error
	if err != nil {
		return nil, err
	}
	return &title, nil
}

// Create inserts the title and its genre links; the genres themselves must already exist.
func (r *titleRepository) Create(ctx context.Context, title *models.Title) error {
	return r.db.WithContext(ctx).Omit("Category", "Genres.*", "Reviews").Create(title).Error
}

func (r *titleRepository) Update(ctx context.Context, title *models.Title, genres []models.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(title).
			Omit(clause.Associations).
			Select("name", "year", "description", "category_id").
			Updates(title).Error
		if err != nil {
			return err
		}
		if genres == nil {
			return nil
		}
		if err := tx.Model(title).Association("Genres").Replace(genres); err != nil {
			return err
		}
		title.Genres = genres
		return nil
	})
}

func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
