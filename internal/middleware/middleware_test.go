package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tipster/internal/auth"
	"tipster/internal/domain"
	"tipster/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth map[string]*auth.Principal

func (f fakeAuth) Authenticate(_ context.Context, token string) (*auth.Principal, error) {
	if p, ok := f[token]; ok {
		return p, nil
	}
	return nil, auth.ErrInvalidToken
}

type fakeUsers map[string]*domain.User

func (f fakeUsers) UserByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var tokens = fakeAuth{
	"user":    {UserID: "u1", Email: "a@x.com"},
	"pending": {UserID: "u2", Email: "b@x.com"},
	"ghost":   {UserID: "u3", Email: "c@x.com"},
	"admin":   {UserID: "adm", Email: "admin@codenxt.online", Roles: []auth.Role{auth.RoleAdmin}},
}

var users = fakeUsers{
	"u1":  {ID: "u1", Status: domain.UserActive},
	"u2":  {ID: "u2", Status: domain.UserPending},
	"adm": {ID: "adm", Status: domain.UserPending},
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := newRouter(JWTAuthMiddleware(tokens))

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "bogus").Code)
	assert.Equal(t, http.StatusNoContent, do(r, "user").Code)
}

func TestAdminOnlyMiddleware(t *testing.T) {
	r := newRouter(JWTAuthMiddleware(tokens), AdminOnlyMiddleware())

	assert.Equal(t, http.StatusForbidden, do(r, "user").Code)
	assert.Equal(t, http.StatusNoContent, do(r, "admin").Code)
}

func TestActiveAccountMiddleware(t *testing.T) {
	r := newRouter(JWTAuthMiddleware(tokens), ActiveAccountMiddleware(users))

	assert.Equal(t, http.StatusNoContent, do(r, "user").Code)
	assert.Equal(t, http.StatusNoContent, do(r, "admin").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "ghost").Code)

	w := do(r, "pending")
	require.Equal(t, http.StatusForbidden, w.Code)
	var body struct {
		Access auth.Access `json:"access"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, domain.UserPending, body.Access.Status)
	assert.Equal(t, auth.NoticePending, body.Access.Notice)
	assert.Equal(t, []string{auth.ActionSignOut}, body.Access.Actions)
}

type failingUsers struct{}

func (failingUsers) UserByID(context.Context, string) (*domain.User, error) {
	return nil, errors.New("db down")
}

func TestActiveAccountMiddlewareStoreFailure(t *testing.T) {
	r := newRouter(JWTAuthMiddleware(tokens), ActiveAccountMiddleware(failingUsers{}))
	assert.Equal(t, http.StatusInternalServerError, do(r, "user").Code)
}
