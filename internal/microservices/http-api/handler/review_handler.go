package handler

import (
	"context"
	"net/http"

	"yamdb/internal/apperror"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/internal/permission"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
	limits        PageLimits
}

func NewReviewHandler(reviewService service.ReviewService, limits PageLimits) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, limits: limits}
}

// RegisterRoutes registers review routes nested under a title
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	collection := permission.AuthoredCollection
	detail := permission.AuthoredDetail

	reviews := rg.Group("/titles/:title_id/reviews")
	{
		reviews.GET("/", middleware.Authorize(collection, permission.ActionList), h.List)
		reviews.POST("/", middleware.Authorize(collection, permission.ActionCreate), h.Create)
		reviews.GET("/:review_id/", middleware.Authorize(detail, permission.ActionRetrieve), h.Get)
		reviews.PATCH("/:review_id/", middleware.Authorize(detail, permission.ActionPartialUpdate), h.Update)
		reviews.DELETE("/:review_id/", middleware.Authorize(detail, permission.ActionDestroy), h.Delete)
	}
}

func reviewPath(c *gin.Context) (titleID, reviewID int64, err error) {
	if titleID, err = idParam(c, "title_id", apperror.CodeTitleNotFound); err != nil {
		return 0, 0, err
	}
	if c.Param("review_id") == "" {
		return titleID, 0, nil
	}
	reviewID, err = idParam(c, "review_id", apperror.CodeReviewNotFound)
	return titleID, reviewID, err
}

// List returns the reviews of a title, newest first
// GET /v1/titles/:title_id/reviews/
func (h *ReviewHandler) List(c *gin.Context) {
	titleID, _, err := reviewPath(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, pageSize, err := h.limits.page(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.reviewService.List(ctx, titleID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create adds the caller's review; a second one for the same title is a 409
// POST /v1/titles/:title_id/reviews/
func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, _, err := reviewPath(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.reviewService.Create(ctx, middleware.CurrentUser(c), titleID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.reviewService.Get(ctx, titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	perm := middleware.PermissionRequest(c, permission.ActionPartialUpdate)
	resp, err := h.reviewService.Update(ctx, perm, titleID, reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	perm := middleware.PermissionRequest(c, permission.ActionDestroy)
	if err := h.reviewService.Delete(ctx, perm, titleID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}
