package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/faqhub/faqhub/backend/go-services/internal/export"
	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
	"github.com/faqhub/faqhub/backend/go-services/internal/faq/service"
	"github.com/faqhub/faqhub/backend/go-services/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Service is the subset of the FAQ manager the routes need.
type Service interface {
	Create(ctx context.Context, question, answer string) (*faq.Record, error)
	Read(ctx context.Context, lang string) ([]faq.View, error)
	Get(ctx context.Context, id, lang string) (*faq.View, error)
	Update(ctx context.Context, id string, in service.UpdateInput) (*faq.Record, error)
	Delete(ctx context.Context, id string) error
}

type Exporter interface {
	Export(ctx context.Context, lang string) (*export.Result, error)
}

// Options configure optional route behaviour. A nil WriteAuth leaves write
// routes open; a nil Exporter answers /faq/export with 503.
type Options struct {
	WriteAuth gin.HandlerFunc
	AdminAuth gin.HandlerFunc
	Exporter  Exporter
}

// RegisterFAQRoutes mounts the FAQ API under /faq.
func RegisterFAQRoutes(r *gin.Engine, svc Service, opts Options) {
	g := r.Group("/faq")

	g.POST("/add", chain(opts.WriteAuth, func(c *gin.Context) {
		var req struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		rec, err := svc.Create(c.Request.Context(), req.Question, req.Answer)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "FAQ Created Successfully", "faq": rec})
	})...)

	g.GET("/all", func(c *gin.Context) {
		views, err := svc.Read(c.Request.Context(), langParam(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	})

	g.GET("/export", chain(opts.AdminAuth, func(c *gin.Context) {
		if opts.Exporter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "object storage not configured"})
			return
		}
		res, err := opts.Exporter.Export(c.Request.Context(), langParam(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})...)

	g.GET("/:id", func(c *gin.Context) {
		v, err := svc.Get(c.Request.Context(), c.Param("id"), langParam(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	})

	g.PUT("/:id", chain(opts.WriteAuth, func(c *gin.Context) {
		var in service.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		rec, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "FAQ updated successfully", "faq": rec})
	})...)

	g.DELETE("/:id", chain(opts.WriteAuth, func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "FAQ deleted successfully"})
	})...)
}

func chain(mw, h gin.HandlerFunc) []gin.HandlerFunc {
	if mw == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{mw, h}
}

// langParam reads ?lang=, falling back to the older ?lng= spelling.
func langParam(c *gin.Context) string {
	if l := c.Query("lang"); l != "" {
		return l
	}
	return c.Query("lng")
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, faq.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, faq.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "FAQ not found"})
	default:
		logger.Errorf("faq request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
