package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"yamdb/internal/apperror"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/permission"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenAuth accepts the tokens in its map and rejects everything else
type tokenAuth map[string]*models.User

func (a tokenAuth) RequestCode(context.Context, string, string) (*models.User, error) {
	return nil, apperror.Internal(nil)
}

func (a tokenAuth) ExchangeCode(context.Context, string, string) (string, error) {
	return "", apperror.Internal(nil)
}

func (a tokenAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if user, ok := a[token]; ok {
		return user, nil
	}
	return nil, apperror.Authentication(apperror.CodeInvalidToken)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r http.Handler, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOptionalAuth(t *testing.T) {
	alice := &models.User{ID: "u-1", Username: "alice"}
	r := gin.New()
	r.Use(OptionalAuth(tokenAuth{"good": alice}))
	r.GET("/whoami", func(c *gin.Context) {
		if user := CurrentUser(c); user != nil {
			c.String(http.StatusOK, user.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no header is anonymous", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer good", http.StatusOK, "alice"},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"empty token", "Bearer ", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, "/whoami", tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	admin := &models.User{ID: "u-2", Username: "boss", Role: models.RoleAdmin}
	r := gin.New()
	r.Use(OptionalAuth(tokenAuth{"admin": admin}))
	r.GET("/titles", Authorize(permission.Titles, permission.ActionList), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/titles", Authorize(permission.Titles, permission.ActionCreate), func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/titles", "").Code)
	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/titles", "Bearer admin").Code)

	w := serve(r, http.MethodPost, "/titles", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "authorization", body["kind"])
	assert.NotContains(t, body, "field")
}

func TestPermissionRequest(t *testing.T) {
	alice := &models.User{ID: "u-1"}
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPatch, "/x", nil)
	c.Set(userKey, alice)

	req := PermissionRequest(c, permission.ActionPartialUpdate)

	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, permission.ActionPartialUpdate, req.Action)
	assert.Same(t, alice, req.Identity)
}

func TestMethodNotAllowed(t *testing.T) {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(MethodNotAllowed)
	r.GET("/genres/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodPut, "/genres/", "")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeMethodNotAllowed)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, http.MethodGet, "/missing", "")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http_request", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, "/missing", entry["path"])
}

func TestMetricsHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	r := gin.New()
	r.Use(m.Handler())
	r.GET("/titles/:title_id/", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/titles/1/", "")
	serve(r, http.MethodGet, "/titles/2/", "")
	serve(r, http.MethodGet, "/nowhere", "")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/titles/:title_id/", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.HTTPRequestDuration))
}
