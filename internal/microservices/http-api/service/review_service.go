package service

import (
	"context"
	"errors"
	"log/slog"

	"yamdb/internal/apperror"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/permission"
)

type ReviewService interface {
	List(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	// Create either returns the stored review or rejects it with a
	// validation, not-found or conflict error. Nothing is written on rejection.
	Create(ctx context.Context, actor *models.User, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Update(ctx context.Context, req permission.Request, titleID, reviewID int64, in dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, req permission.Request, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	resolver   Resolver
	policy     permission.Policy
	logger     *slog.Logger
}

func NewReviewService(reviewRepo repository.ReviewRepository, resolver Resolver) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		resolver:   resolver,
		policy:     permission.AuthoredDetail,
		logger:     slog.Default(),
	}
}

func scoreError(score int) error {
	if models.ValidScore(score) {
		return nil
	}
	return apperror.Validation(apperror.CodeScoreOutOfRange, "score", models.MinScore, models.MaxScore)
}

func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error) {
	title, err := s.resolver.Title(ctx, titleID)
	if err != nil {
		return nil, err
	}
	reviews, total, err := s.reviewRepo.ListByTitle(ctx, title.ID, page, pageSize)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	data := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		data = append(data, *dto.FromModelToReviewResponse(&reviews[i], title.Name))
	}
	return dto.NewPaginated(data, int(total), page, pageSize), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	title, review, err := s.resolver.Review(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review, title.Name), nil
}

func (s *reviewService) Create(ctx context.Context, actor *models.User, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if actor == nil {
		return nil, apperror.Authorization(apperror.CodePermissionDenied)
	}

	title, err := s.resolver.Title(ctx, titleID)
	if err != nil {
		return nil, err
	}

	score := 0
	if req.Score != nil {
		score = *req.Score
	}
	if err := scoreError(score); err != nil {
		return nil, err
	}

	review := &models.Review{
		TitleID:  title.ID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    score,
	}

	err = s.reviewRepo.CreateUnique(ctx, review)
	switch {
	case errors.Is(err, repository.ErrDuplicateReview):
		s.logger.Info("review_rejected_duplicate", "title_id", title.ID, "author_id", actor.ID)
		return nil, apperror.Conflict(apperror.CodeDuplicateReview)
	case err != nil && repository.IsForeignKeyViolation(err):
		// title removed between lookup and insert
		return nil, apperror.NotFound(apperror.CodeTitleNotFound).Wrap(err)
	case err != nil:
		return nil, storageError(err, apperror.CodeTitleNotFound)
	}

	review.Author = *actor
	s.logger.Info("review_created", "review_id", review.ID, "title_id", title.ID, "author_id", actor.ID, "score", score)
	return dto.FromModelToReviewResponse(review, title.Name), nil
}

func (s *reviewService) Update(ctx context.Context, req permission.Request, titleID, reviewID int64, in dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	title, review, err := s.resolver.Review(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Check(req, review); err != nil {
		return nil, err
	}

	if in.Score != nil {
		if err := scoreError(*in.Score); err != nil {
			return nil, err
		}
		review.Score = *in.Score
	}
	if in.Text != nil {
		review.Text = *in.Text
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, storageError(err, apperror.CodeReviewNotFound)
	}
	return dto.FromModelToReviewResponse(review, title.Name), nil
}

func (s *reviewService) Delete(ctx context.Context, req permission.Request, titleID, reviewID int64) error {
	_, review, err := s.resolver.Review(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := s.policy.Check(req, review); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		return storageError(err, apperror.CodeReviewNotFound)
	}
	s.logger.Info("review_deleted", "review_id", review.ID, "title_id", titleID)
	return nil
}
