package middleware

import (
	"strings"

	"yamdb/internal/apperror"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const (
	userKey   = "user"
	userIDKey = "userID"
)

// OptionalAuth resolves a Bearer token to the calling user.
// No Authorization header means an anonymous caller; a malformed or invalid
// token is rejected with 401 instead of silently downgrading to anonymous.
func OptionalAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortWithError(c, apperror.Authentication(apperror.CodeInvalidToken))
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Set user info in context for handlers to use
		c.Set(userKey, user)
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// CurrentUser returns the authenticated caller or nil for anonymous requests
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// abortWithError writes the localised error body and stops the chain
func abortWithError(c *gin.Context, err error) {
	appErr := apperror.As(err)
	c.AbortWithStatusJSON(apperror.HTTPStatus(appErr.Kind), ErrorBody(c, appErr))
}

// ErrorBody renders an error in the language negotiated from Accept-Language
func ErrorBody(c *gin.Context, appErr *apperror.Error) gin.H {
	body := gin.H{
		"error": appErr.Message(apperror.MatchLanguage(c.GetHeader("Accept-Language"))),
		"kind":  appErr.Kind,
		"code":  appErr.Code,
	}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	return body
}
