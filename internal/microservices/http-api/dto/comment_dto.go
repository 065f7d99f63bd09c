package dto

import (
	"time"

	"yamdb/internal/microservices/http-api/models"
)

// CreateCommentRequest for creating a comment
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}

// UpdateCommentRequest for updating a comment
type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}

// CommentResponse for returning comment information
type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
	Review  int64     `json:"review"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO
func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:      comment.ID,
		Text:    comment.Text,
		Author:  comment.Author.Username,
		PubDate: comment.PubDate,
		Review:  comment.ReviewID,
	}
}
