package handler

import (
	"context"
	"net/http"

	"yamdb/internal/apperror"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/internal/permission"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	titleService service.TitleService
	limits       PageLimits
}

func NewTitleHandler(titleService service.TitleService, limits PageLimits) *TitleHandler {
	return &TitleHandler{titleService: titleService, limits: limits}
}

func (h *TitleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	policy := permission.Titles
	titles := rg.Group("/titles")
	{
		titles.GET("/", middleware.Authorize(policy, permission.ActionList), h.List)
		titles.POST("/", middleware.Authorize(policy, permission.ActionCreate), h.Create)
		titles.GET("/:title_id/", middleware.Authorize(policy, permission.ActionRetrieve), h.Get)
		titles.PATCH("/:title_id/", middleware.Authorize(policy, permission.ActionPartialUpdate), h.Update)
		titles.DELETE("/:title_id/", middleware.Authorize(policy, permission.ActionDestroy), h.Delete)
	}
}

// List filters by ?genre=, ?category= (slugs), ?name= (substring) and ?year=
// GET /v1/titles/
func (h *TitleHandler) List(c *gin.Context) {
	var q dto.TitleFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, bindError(err))
		return
	}
	page, pageSize := q.Normalize(h.limits.Default, h.limits.Max)

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	filter := repository.TitleFilter{Genre: q.Genre, Category: q.Category, Name: q.Name, Year: q.Year}
	resp, err := h.titleService.List(ctx, filter, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TitleHandler) Get(c *gin.Context) {
	id, err := idParam(c, "title_id", apperror.CodeTitleNotFound)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.titleService.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.titleService.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TitleHandler) Update(c *gin.Context) {
	id, err := idParam(c, "title_id", apperror.CodeTitleNotFound)
	if err != nil {
		respondError(c, err)
		return
	}

	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.titleService.Update(ctx, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TitleHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "title_id", apperror.CodeTitleNotFound)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.titleService.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}
