package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/foodorders/internal/auth"
	"github.com/MikeMC777/foodorders/internal/httpx"
	"github.com/MikeMC777/foodorders/internal/user"
)

type session struct {
	User  *user.User `json:"user"`
	Token string     `json:"token"`
}

func issue(c *gin.Context, tokens *auth.Issuer, u *user.User, status int) {
	tok, err := tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, status, session{User: u, Token: tok})
}

// POST /api/auth/register
func registerHandler(users *user.Service, tokens *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.RegisterRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, err)
			return
		}
		u, err := users.Register(c.Request.Context(), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		issue(c, tokens, u, http.StatusCreated)
	}
}

// POST /api/auth/login
func loginHandler(users *user.Service, tokens *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.LoginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, err)
			return
		}
		u, err := users.Authenticate(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		issue(c, tokens, u, http.StatusOK)
	}
}

// GET /api/auth/me
func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		httpx.OK(c, http.StatusOK, httpx.CurrentUser(c))
	}
}

// PUT /api/auth/profile
func updateProfileHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.ProfileRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, err)
			return
		}
		u, err := users.UpdateProfile(c.Request.Context(), httpx.CurrentUser(c).ID, in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, u)
	}
}

// PUT /api/auth/change-password
func changePasswordHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.ChangePasswordRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, err)
			return
		}
		if err := users.ChangePassword(c.Request.Context(), httpx.CurrentUser(c).ID, in); err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, gin.H{"message": "password updated"})
	}
}

// GET /api/customer/addresses
func listAddressesHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		as, err := users.Addresses(c.Request.Context(), httpx.CurrentUser(c).ID)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, as)
	}
}

// POST /api/customer/addresses
func addAddressHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.AddressRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, err)
			return
		}
		a, err := users.AddAddress(c.Request.Context(), httpx.CurrentUser(c).ID, in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusCreated, a)
	}
}

// PUT /api/customer/addresses/:addressId
func updateAddressHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.AddressRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, err)
			return
		}
		a, err := users.UpdateAddress(c.Request.Context(), httpx.CurrentUser(c).ID, c.Param("addressId"), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, a)
	}
}

// DELETE /api/customer/addresses/:addressId
func deleteAddressHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := users.DeleteAddress(c.Request.Context(), httpx.CurrentUser(c).ID, c.Param("addressId")); err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, gin.H{"message": "address deleted"})
	}
}
