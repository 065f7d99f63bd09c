package dto

import (
	"math"

	"yamdb/internal/microservices/http-api/models"
)

// Titles reference genres and a category by slug on write and expand them on read.

// CreateTitleRequest used for POST /titles/
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Year        *int     `json:"year,omitempty" binding:"omitempty,min=0"`
	Description string   `json:"description" binding:"max=400"`
	Genre       []string `json:"genre" binding:"omitempty,dive,slug"`
	Category    *string  `json:"category,omitempty" binding:"omitempty,slug"`
}

// UpdateTitleRequest used for PATCH /titles/:id (partial updates allowed)
type UpdateTitleRequest struct {
	Name        *string   `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	Year        *int      `json:"year,omitempty" binding:"omitempty,min=0"`
	Description *string   `json:"description,omitempty" binding:"omitempty,max=400"`
	Genre       *[]string `json:"genre,omitempty" binding:"omitempty,dive,slug"`
	Category    *string   `json:"category,omitempty" binding:"omitempty,slug"`
}

func (d CreateTitleRequest) ToModel() models.Title {
	return models.Title{
		Name:        d.Name,
		Year:        d.Year,
		Description: d.Description,
	}
}

// ApplyTo copies the scalar fields; genre and category are resolved by the service
func (d UpdateTitleRequest) ApplyTo(t *models.Title) {
	if d.Name != nil {
		t.Name = *d.Name
	}
	if d.Year != nil {
		t.Year = d.Year
	}
	if d.Description != nil {
		t.Description = *d.Description
	}
}

// TitleFilterQuery binds the list filters of GET /titles/
type TitleFilterQuery struct {
	PageQuery
	Genre    string `form:"genre"`
	Category string `form:"category"`
	Name     string `form:"name"`
	Year     *int   `form:"year"`
}

type TitleResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Year        *int                 `json:"year"`
	Rating      *int                 `json:"rating"`
	Description string               `json:"description"`
	Genre       []SlugEntityResponse `json:"genre"`
	Category    *SlugEntityResponse  `json:"category"`
}

// FromModelToTitleResponse converts a Title model to TitleResponse DTO.
// Rating is the mean score truncated toward zero (int(avg)), never rounded:
// scores 8 and 5 give 6, and 7.9 gives 7. A title without reviews has a nil rating.
func FromModelToTitleResponse(t *models.Title) *TitleResponse {
	resp := &TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Genre:       make([]SlugEntityResponse, 0, len(t.Genres)),
		Category:    FromModelToCategoryResponse(t.Category),
	}
	if t.Rating != nil {
		rating := int(math.Trunc(*t.Rating))
		resp.Rating = &rating
	}
	for i := range t.Genres {
		resp.Genre = append(resp.Genre, *FromModelToGenreResponse(&t.Genres[i]))
	}
	return resp
}
