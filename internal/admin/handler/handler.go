// Package handler exposes the admin account and passcode login routes.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/faqhub/faqhub/backend/go-services/internal/admin"
	"github.com/faqhub/faqhub/backend/go-services/pkg/logger"
	"github.com/faqhub/faqhub/backend/go-services/pkg/middleware"
	"github.com/gin-gonic/gin"
)

type Service interface {
	Add(ctx context.Context, in admin.AddInput) (*admin.Admin, error)
	Login(ctx context.Context, username, password string) error
	Verify(ctx context.Context, username, otp string) (*admin.Session, error)
	Logout(ctx context.Context, token string, claims map[string]interface{}) error
	Get(ctx context.Context, id string) (*admin.Admin, error)
}

// RegisterAdminRoutes mounts /admin. auth guards logout and me; a nil auth
// leaves those two routes unregistered.
func RegisterAdminRoutes(r *gin.Engine, svc Service, auth gin.HandlerFunc) {
	g := r.Group("/admin")

	g.POST("/add", func(c *gin.Context) {
		var in admin.AddInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		a, err := svc.Add(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	})

	g.POST("/login", func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := svc.Login(c.Request.Context(), req.Username, req.Password); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "OTP sent to registered email"})
	})

	g.POST("/verify", func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			OTP      string `json:"otp"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		sess, err := svc.Verify(c.Request.Context(), req.Username, req.OTP)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":     "Login successful",
			"accessToken": sess.AccessToken,
			"expiresIn":   int(sess.ExpiresIn.Seconds()),
			"admin":       sess.Admin,
		})
	})

	if auth == nil {
		return
	}

	g.POST("/logout", auth, func(c *gin.Context) {
		token := c.GetString(middleware.TokenKey)
		claims, _ := c.Get(middleware.ClaimsKey)
		cm, _ := claims.(map[string]interface{})
		if err := svc.Logout(c.Request.Context(), token, cm); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	})

	g.GET("/me", auth, func(c *gin.Context) {
		claims, _ := c.Get(middleware.ClaimsKey)
		cm, _ := claims.(map[string]interface{})
		sub, _ := cm["sub"].(string)
		if sub == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token has no subject"})
			return
		}
		a, err := svc.Get(c.Request.Context(), sub)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, admin.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, admin.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "admin not found"})
	case errors.Is(err, admin.ErrExists):
		c.JSON(http.StatusConflict, gin.H{"error": "admin already exists"})
	case errors.Is(err, admin.ErrInvalidCredentials), errors.Is(err, admin.ErrInvalidOTP):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		logger.Errorf("admin request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
