package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const probeTimeout = 5 * time.Second

type readinessProbe struct {
	component string
	check     func(context.Context) error
}

// registerHealthRoutes exposes liveness and readiness endpoints. Readiness
// verifies the catalog database and the blob bucket this deployment actually
// writes to.
func registerHealthRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	probes := []readinessProbe{
		{component: "postgres", check: func(ctx context.Context) error {
			return deps.DB.Ping(ctx)
		}},
		{component: "minio", check: func(ctx context.Context) error {
			return checkBlobBucket(ctx, deps)
		}},
	}

	router.GET("/health/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()

		for _, probe := range probes {
			if err := probe.check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "degraded",
					"component": probe.component,
					"error":     err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func checkBlobBucket(ctx context.Context, deps Dependencies) error {
	bucket := deps.Config.MinIO.Bucket
	exists, err := deps.ObjectStore.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", bucket)
	}
	return nil
}
