package service

import (
	"context"
	"log/slog"

	"yamdb/internal/apperror"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/permission"
)

type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	Update(ctx context.Context, req permission.Request, titleID, reviewID, commentID int64, in dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, req permission.Request, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	resolver    Resolver
	policy      permission.Policy
	logger      *slog.Logger
}

func NewCommentService(commentRepo repository.CommentRepository, resolver Resolver) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		resolver:    resolver,
		policy:      permission.AuthoredDetail,
		logger:      slog.Default(),
	}
}

// List retrieves the comments of a review, newest first
func (s *commentService) List(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error) {
	_, review, err := s.resolver.Review(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	comments, total, err := s.commentRepo.ListByReview(ctx, review.ID, page, pageSize)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	data := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		data = append(data, *dto.FromModelToCommentResponse(&comments[i]))
	}
	return dto.NewPaginated(data, int(total), page, pageSize), nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	_, _, comment, err := s.resolver.Comment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

// Create creates a new comment under a review of the title
func (s *commentService) Create(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if actor == nil {
		return nil, apperror.Authorization(apperror.CodePermissionDenied)
	}
	_, review, err := s.resolver.Review(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: review.ID,
		AuthorID: actor.ID,
		Text:     req.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, apperror.NotFound(apperror.CodeReviewNotFound).Wrap(err)
		}
		return nil, apperror.Internal(err)
	}

	comment.Author = *actor
	s.logger.Info("comment_created", "comment_id", comment.ID, "review_id", review.ID, "author_id", actor.ID)
	return dto.FromModelToCommentResponse(comment), nil
}

// Update updates an existing comment
func (s *commentService) Update(ctx context.Context, req permission.Request, titleID, reviewID, commentID int64, in dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	_, _, comment, err := s.resolver.Comment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Check(req, comment); err != nil {
		return nil, err
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, storageError(err, apperror.CodeCommentNotFound)
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Delete(ctx context.Context, req permission.Request, titleID, reviewID, commentID int64) error {
	_, _, comment, err := s.resolver.Comment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := s.policy.Check(req, comment); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return storageError(err, apperror.CodeCommentNotFound)
	}
	s.logger.Info("comment_deleted", "comment_id", comment.ID, "review_id", reviewID)
	return nil
}
