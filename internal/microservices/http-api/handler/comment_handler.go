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

type CommentHandler struct {
	commentService service.CommentService
	limits         PageLimits
}

func NewCommentHandler(commentService service.CommentService, limits PageLimits) *CommentHandler {
	return &CommentHandler{commentService: commentService, limits: limits}
}

// RegisterRoutes registers comment routes nested under a review
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	collection := permission.AuthoredCollection
	detail := permission.AuthoredDetail

	comments := rg.Group("/titles/:title_id/reviews/:review_id/comments")
	{
		comments.GET("/", middleware.Authorize(collection, permission.ActionList), h.List)
		comments.POST("/", middleware.Authorize(collection, permission.ActionCreate), h.Create)
		comments.GET("/:comment_id/", middleware.Authorize(detail, permission.ActionRetrieve), h.Get)
		comments.PATCH("/:comment_id/", middleware.Authorize(detail, permission.ActionPartialUpdate), h.Update)
		comments.DELETE("/:comment_id/", middleware.Authorize(detail, permission.ActionDestroy), h.Delete)
	}
}

type commentPathIDs struct {
	title, review, comment int64
}

func commentPath(c *gin.Context, withComment bool) (commentPathIDs, error) {
	var ids commentPathIDs
	var err error
	if ids.title, err = idParam(c, "title_id", apperror.CodeTitleNotFound); err != nil {
		return ids, err
	}
	if ids.review, err = idParam(c, "review_id", apperror.CodeReviewNotFound); err != nil {
		return ids, err
	}
	if withComment {
		ids.comment, err = idParam(c, "comment_id", apperror.CodeCommentNotFound)
	}
	return ids, err
}

// List retrieves all comments for a review with pagination
// GET /v1/titles/:title_id/reviews/:review_id/comments/
func (h *CommentHandler) List(c *gin.Context) {
	ids, err := commentPath(c, false)
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

	resp, err := h.commentService.List(ctx, ids.title, ids.review, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create creates a new comment for a review
// POST /v1/titles/:title_id/reviews/:review_id/comments/
func (h *CommentHandler) Create(c *gin.Context) {
	ids, err := commentPath(c, false)
	if err != nil {
		respondError(c, err)
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.commentService.Create(ctx, middleware.CurrentUser(c), ids.title, ids.review, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CommentHandler) Get(c *gin.Context) {
	ids, err := commentPath(c, true)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.commentService.Get(ctx, ids.title, ids.review, ids.comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update updates an existing comment
func (h *CommentHandler) Update(c *gin.Context) {
	ids, err := commentPath(c, true)
	if err != nil {
		respondError(c, err)
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	perm := middleware.PermissionRequest(c, permission.ActionPartialUpdate)
	resp, err := h.commentService.Update(ctx, perm, ids.title, ids.review, ids.comment, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete deletes a comment
func (h *CommentHandler) Delete(c *gin.Context) {
	ids, err := commentPath(c, true)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	perm := middleware.PermissionRequest(c, permission.ActionDestroy)
	if err := h.commentService.Delete(ctx, perm, ids.title, ids.review, ids.comment); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}
