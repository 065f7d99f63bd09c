package dto

import "yamdb/internal/microservices/http-api/models"

// CreateSlugEntityRequest is the body for POST /categories/ and POST /genres/
type CreateSlugEntityRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

// SlugEntityResponse exposes categories and genres without their numeric id
type SlugEntityResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromModelToCategoryResponse(c *models.Category) *SlugEntityResponse {
	if c == nil {
		return nil
	}
	return &SlugEntityResponse{Name: c.Name, Slug: c.Slug}
}

func FromModelToGenreResponse(g *models.Genre) *SlugEntityResponse {
	return &SlugEntityResponse{Name: g.Name, Slug: g.Slug}
}
