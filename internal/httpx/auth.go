package httpx

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/foodorders/internal/apperr"
	"github.com/MikeMC777/foodorders/internal/auth"
	"github.com/MikeMC777/foodorders/internal/user"
)

const userKey = "user"

var (
	errMissingToken = apperr.Unauthorized("MissingToken", "access denied, no token provided")
	errUnknownUser  = apperr.Unauthorized("InvalidToken", "token is not valid, user not found")
)

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

type UserLoader interface {
	Get(ctx context.Context, id string) (*user.User, error)
}

// Auth resolves the bearer token to an active user and stores it on the context.
func Auth(tokens TokenParser, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || raw == "" {
			// browsers cannot set headers on websocket upgrades
			raw = c.Query("token")
		}
		if raw == "" {
			Fail(c, errMissingToken)
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			Fail(c, err)
			return
		}
		u, err := users.Get(c.Request.Context(), claims.UserID)
		if errors.Is(err, user.ErrUserNotFound) {
			Fail(c, errUnknownUser)
			return
		}
		if err != nil {
			Fail(c, err)
			return
		}
		if !u.IsActive {
			Fail(c, user.ErrInactive)
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

// RequireRole rejects requests whose user does not hold role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := user.RequireRole(CurrentUser(c), role); err != nil {
			Fail(c, err)
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *user.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*user.User)
	return u
}
