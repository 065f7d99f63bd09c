package dto

import (
	"time"

	"yamdb/internal/microservices/http-api/models"
)

// CreateReviewRequest for creating a review. The score range is checked by the
// service so the rejection carries its own error code.
type CreateReviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score *int   `json:"score" binding:"required"`
}

// UpdateReviewRequest for PATCH; absent fields are left untouched
type UpdateReviewRequest struct {
	Text  *string `json:"text,omitempty" binding:"omitempty,min=1"`
	Score *int    `json:"score,omitempty"`
}

// ReviewResponse shows the author by username and the title by name
type ReviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
	Title   string    `json:"title"`
}

// FromModelToReviewResponse converts a Review model to ReviewResponse DTO
func FromModelToReviewResponse(review *models.Review, titleName string) *ReviewResponse {
	return &ReviewResponse{
		ID:      review.ID,
		Text:    review.Text,
		Author:  review.Author.Username,
		Score:   review.Score,
		PubDate: review.PubDate,
		Title:   titleName,
	}
}
