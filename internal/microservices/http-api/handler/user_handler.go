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

type UserHandler struct {
	userService service.UserService
	limits      PageLimits
}

func NewUserHandler(userService service.UserService, limits PageLimits) *UserHandler {
	return &UserHandler{userService: userService, limits: limits}
}

// RegisterRoutes registers admin user management and the self profile
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := permission.Users
	self := permission.Self

	users := rg.Group("/users")
	{
		users.GET("/", middleware.Authorize(admin, permission.ActionList), h.List)
		users.POST("/", middleware.Authorize(admin, permission.ActionCreate), h.Create)

		users.GET("/me/", middleware.Authorize(self, permission.ActionRetrieve), h.Me)
		users.PATCH("/me/", middleware.Authorize(self, permission.ActionPartialUpdate), h.UpdateMe)

		users.GET("/:username/", middleware.Authorize(admin, permission.ActionRetrieve), h.Get)
		users.PATCH("/:username/", middleware.Authorize(admin, permission.ActionPartialUpdate), h.Update)
		users.DELETE("/:username/", middleware.Authorize(admin, permission.ActionDestroy), h.Delete)
	}
}

// List supports ?search= on the username
// GET /v1/users/
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize, err := h.limits.page(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.userService.List(ctx, c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create provisions an account
// POST /v1/users/
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.userService.Provision(ctx, middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.userService.Get(ctx, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.userService.Update(ctx, middleware.CurrentUser(c), c.Param("username"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.userService.Delete(ctx, c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}

// Me returns the caller's own profile
// GET /v1/users/me/
func (h *UserHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, apperror.Authorization(apperror.CodePermissionDenied))
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(user))
}

// UpdateMe edits the caller's own profile; a role change still needs admin authority
// PATCH /v1/users/me/
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.userService.UpdateMe(ctx, middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
