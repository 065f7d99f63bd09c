package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"yamdb/internal/apperror"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const requestTimeout = 5 * time.Second

// PageLimits bounds ?page_size= on every list endpoint
type PageLimits struct {
	Default int
	Max     int
}

// DefaultPageLimits match the configuration defaults
var DefaultPageLimits = PageLimits{Default: 20, Max: 100}

func (l PageLimits) page(c *gin.Context) (int, int, error) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return 0, 0, bindError(err)
	}
	page, size := q.Normalize(l.Default, l.Max)
	return page, size, nil
}

// respondError writes err as a localised JSON body with the status of its kind
func respondError(c *gin.Context, err error) {
	appErr := apperror.As(err)
	if appErr.Kind == apperror.KindInternal {
		slog.Error("request_failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		_ = c.Error(err)
	}
	c.JSON(apperror.HTTPStatus(appErr.Kind), middleware.ErrorBody(c, appErr))
}

// bindError converts gin binding failures into validation errors naming the first bad field
func bindError(err error) *apperror.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperror.Validation(apperror.CodeInvalidInput, verrs[0].Field()).Wrap(err)
	}
	return apperror.Validation(apperror.CodeInvalidInput, "").Wrap(err)
}

// idParam parses a numeric path segment; a non-numeric one cannot name a row
func idParam(c *gin.Context, name, notFoundCode string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.NotFound(notFoundCode)
	}
	return id, nil
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
