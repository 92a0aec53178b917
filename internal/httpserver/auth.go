package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	identitysvc "storefront/internal/service/identity"
)

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handlers) signUp(c *gin.Context) {
	var req identitysvc.SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	sess, token, err := h.deps.Identity.SignUp(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"accessToken": token,
		"tokenType":   "Bearer",
		"expiresIn":   h.deps.Identity.SessionTTLSeconds(),
		"user":        sessionUser(sess),
	})
}

func (h *handlers) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Please fill in all required fields")
		return
	}
	sess, token, err := h.deps.Identity.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"tokenType":   "Bearer",
		"expiresIn":   h.deps.Identity.SessionTTLSeconds(),
		"user":        sessionUser(sess),
	})
}

func (h *handlers) profile(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - No token provided"})
		return
	}
	u, err := h.deps.Identity.Profile(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profileResponse{Email: u.Email, Name: u.Name, Role: u.Role}})
}

func (h *handlers) logout(c *gin.Context) {
	sess := sessionFromContext(c.Request.Context())
	if err := h.deps.Identity.Logout(c.Request.Context(), sess); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
