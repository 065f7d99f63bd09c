package repository

import (
	"context"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	GetInTitle(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	ExistsForAuthor(ctx context.Context, titleID int64, authorID string) (bool, error)
	// CreateUnique checks for an existing review by the same author and inserts in one
	// transaction. It returns ErrDuplicateReview when the pair is taken, whether the
	// check or the unique index catches it.
	CreateUnique(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id int64) error
	WithTx(tx *gorm.DB) ReviewRepository
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepository{db: tx}
}

// ListByTitle retrieves the reviews of one title, newest first, with pagination
func (r *reviewRepository) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).Where("title_id = ?", titleID).
		Preload("Author").
		Order("pub_date DESC, id DESC").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// GetInTitle only finds the review inside the given title's collection
func (r *reviewRepository) GetInTitle(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND title_id = ?", reviewID, titleID).
		Preload("Author").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ExistsForAuthor(ctx context.Context, titleID int64, authorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) CreateUnique(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := r.WithTx(tx).ExistsForAuthor(ctx, review.TitleID, review.AuthorID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateReview
		}
		if err := tx.Omit(clause.Associations).Create(review).Error; err != nil {
			if IsUniqueViolation(err) {
				return ErrDuplicateReview
			}
			return err
		}
		return nil
	})
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Model(review).
		Omit(clause.Associations).
		Select("text", "score").
		Updates(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
