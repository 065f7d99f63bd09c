package handler

import (
	"context"
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/internal/permission"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves /categories/ or /genres/. Single entries cannot be
// retrieved or edited, only deleted by slug.
type CatalogHandler struct {
	path    string
	service service.CatalogService
	limits  PageLimits
	policy  permission.Policy
}

func NewCatalogHandler(path string, svc service.CatalogService, limits PageLimits) *CatalogHandler {
	return &CatalogHandler{path: path, service: svc, limits: limits, policy: permission.Catalog}
}

func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(h.path)
	{
		group.GET("/", middleware.Authorize(h.policy, permission.ActionList), h.List)
		group.POST("/", middleware.Authorize(h.policy, permission.ActionCreate), h.Create)
		group.DELETE("/:slug/", middleware.Authorize(h.policy, permission.ActionDestroy), h.Delete)

		group.GET("/:slug/", middleware.MethodNotAllowed)
		group.PUT("/:slug/", middleware.MethodNotAllowed)
		group.PATCH("/:slug/", middleware.MethodNotAllowed)
	}
}

// List supports ?search= on the name
func (h *CatalogHandler) List(c *gin.Context) {
	page, pageSize, err := h.limits.page(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.service.List(ctx, c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req dto.CreateSlugEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.service.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.service.Delete(ctx, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}
