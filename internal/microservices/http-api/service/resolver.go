package service

import (
	"context"

	"yamdb/internal/apperror"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

// Resolver walks Title -> Review -> Comment. Each child is looked up inside its
// parent's collection only, and the walk stops at the first missing link.
type Resolver interface {
	Title(ctx context.Context, titleID int64) (*models.Title, error)
	Review(ctx context.Context, titleID, reviewID int64) (*models.Title, *models.Review, error)
	Comment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Title, *models.Review, *models.Comment, error)
}

type resolver struct {
	titleRepo   repository.TitleRepository
	reviewRepo  repository.ReviewRepository
	commentRepo repository.CommentRepository
}

func NewResolver(
	titleRepo repository.TitleRepository,
	reviewRepo repository.ReviewRepository,
	commentRepo repository.CommentRepository,
) Resolver {
	return &resolver{titleRepo: titleRepo, reviewRepo: reviewRepo, commentRepo: commentRepo}
}

func (r *resolver) Title(ctx context.Context, titleID int64) (*models.Title, error) {
	title, err := r.titleRepo.GetByID(ctx, titleID)
	if err != nil {
		return nil, storageError(err, apperror.CodeTitleNotFound)
	}
	return title, nil
}

func (r *resolver) Review(ctx context.Context, titleID, reviewID int64) (*models.Title, *models.Review, error) {
	title, err := r.Title(ctx, titleID)
	if err != nil {
		return nil, nil, err
	}
	review, err := r.reviewRepo.GetInTitle(ctx, title.ID, reviewID)
	if err != nil {
		return nil, nil, storageError(err, apperror.CodeReviewNotFound)
	}
	return title, review, nil
}

func (r *resolver) Comment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Title, *models.Review, *models.Comment, error) {
	title, review, err := r.Review(ctx, titleID, reviewID)
	if err != nil {
		return nil, nil, nil, err
	}
	comment, err := r.commentRepo.GetInReview(ctx, review.ID, commentID)
	if err != nil {
		return nil, nil, nil, storageError(err, apperror.CodeCommentNotFound)
	}
	return title, review, comment, nil
}
