package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/foodorders/internal/apperr"
	"github.com/MikeMC777/foodorders/internal/auth"
	"github.com/MikeMC777/foodorders/internal/user"
)

func init() {
	gin.SetMode(gin.TestMode)
	log.SetOutput(io.Discard)
	UseJSONFieldNames()
}

type users map[string]*user.User

func (u users) Get(_ context.Context, id string) (*user.User, error) {
	if id == "u-down" {
		return nil, errors.New("dial tcp: connection refused")
	}
	if x, ok := u[id]; ok {
		return x, nil
	}
	return nil, user.ErrUserNotFound
}

type body struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) body {
	t.Helper()
	var b body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b), w.Body.String())
	return b
}

func TestAuth(t *testing.T) {
	iss := auth.NewIssuer("s3cret", time.Hour)
	db := users{
		"u-1": {ID: "u-1", Role: user.RoleCustomer, IsActive: true},
		"u-2": {ID: "u-2", Role: user.RoleRestaurantOwner, IsActive: false},
	}
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", Auth(iss, db), RequireRole(user.RoleCustomer), func(c *gin.Context) {
		OK(c, http.StatusOK, CurrentUser(c).ID)
	})

	call := func(token string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		r.ServeHTTP(w, req)
		return w
	}

	w := call("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "MissingToken", decode(t, w).Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusUnauthorized, call("garbage").Code)

	tok, _ := iss.Issue("u-1", "a@example.com", user.RoleCustomer)
	w = call(tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode(t, w).Success)

	tok, _ = iss.Issue("u-2", "b@example.com", user.RoleRestaurantOwner)
	w = call(tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AccountInactive", decode(t, w).Code)

	db["u-2"].IsActive = true
	w = call(tok)
	assert.Equal(t, http.StatusForbidden, w.Code)

	tok, _ = iss.Issue("u-9", "c@example.com", user.RoleCustomer)
	w = call(tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "InvalidToken", decode(t, w).Code)

	tok, _ = iss.Issue("u-down", "d@example.com", user.RoleCustomer)
	w = call(tok)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal", decode(t, w).Code)
}

func TestFail(t *testing.T) {
	type req struct {
		Email    string `json:"email"    binding:"required,email"`
		Quantity int    `json:"quantity" binding:"min=1"`
	}
	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var in req
		if err := c.ShouldBindJSON(&in); err != nil {
			Fail(c, err)
			return
		}
		OK(c, http.StatusCreated, in)
	})
	r.GET("/domain", func(c *gin.Context) {
		Fail(c, apperr.State("CartExpired", "cart has expired"))
	})
	r.GET("/query", func(c *gin.Context) {
		var q struct {
			Page int       `form:"page"`
			From time.Time `form:"from" time_format:"2006-01-02"`
		}
		if err := c.ShouldBindQuery(&q); err != nil {
			Fail(c, err)
			return
		}
		OK(c, http.StatusOK, q.Page)
	})
	r.GET("/boom", func(c *gin.Context) {
		Fail(c, errors.New("connection refused"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"email":"nope","quantity":0}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	b := decode(t, w)
	assert.Equal(t, "ValidationError", b.Code)
	require.Len(t, b.Details, 2)
	assert.Equal(t, "email", b.Details[0].Field)
	assert.Equal(t, "quantity", b.Details[1].Field)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"email":`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/domain", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cart has expired", decode(t, w).Error)

	for _, q := range []string{"page=abc", "from=not-a-date"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/query?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Equal(t, "InvalidQuery", decode(t, w).Code, q)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
