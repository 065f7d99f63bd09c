package middleware

import (
	"yamdb/internal/apperror"
	"yamdb/internal/permission"

	"github.com/gin-gonic/gin"
)

// Authorize evaluates the view layer of policy for action before the handler
// runs. Object-level checks happen in the services once the target is loaded.
func Authorize(policy permission.Policy, action permission.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !policy.AllowsView(PermissionRequest(c, action)) {
			abortWithError(c, apperror.Authorization(apperror.CodePermissionDenied))
			return
		}
		c.Next()
	}
}

// PermissionRequest describes the current call to the permission resolver
func PermissionRequest(c *gin.Context, action permission.Action) permission.Request {
	return permission.Request{
		Method:   c.Request.Method,
		Action:   action,
		Identity: CurrentUser(c),
	}
}

// MethodNotAllowed answers with the 405 error body
func MethodNotAllowed(c *gin.Context) {
	abortWithError(c, apperror.MethodNotAllowed())
}
