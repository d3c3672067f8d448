package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency is a named readiness check. Optional dependencies are reported
// but never make the service unready.
type Dependency struct {
	Name     string
	Pinger   Pinger
	Optional bool
}

var startTime = time.Now()

// RegisterHealth mounts /health (liveness) and /ready (readiness).
func RegisterHealth(r *gin.Engine, deps ...Dependency) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		status := map[string]bool{}
		for _, d := range deps {
			ok := d.Pinger != nil && d.Pinger.Ping(ctx) == nil
			status[d.Name] = ok
			if !ok && !d.Optional {
				ready = false
			}
		}

		uptime := time.Since(startTime).Round(time.Second).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": status, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": status, "uptime": uptime})
	})
}
