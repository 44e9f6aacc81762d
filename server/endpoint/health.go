// Package endpoint provides the operational HTTP endpoints /health and
// /info.
package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check verifies one dependency; a nil error means healthy.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Health returns a handler that reports service health including the
// status of each registered check.
func Health(serviceName string, checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		results := make([]gin.H, 0, len(checks))

		for _, check := range checks {
			entry := gin.H{"name": check.Name, "status": "healthy"}
			if err := check.Ping(c.Request.Context()); err != nil {
				status = "unhealthy"
				entry["status"] = "unhealthy"
				entry["error"] = err.Error()
			}
			results = append(results, entry)
		}

		httpStatus := http.StatusOK
		if status == "unhealthy" {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     status,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": results,
		})
	}
}
