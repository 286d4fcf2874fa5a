package logger

import (
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CorrelationIDHeader is echoed on every response so clients can reference requests.
const CorrelationIDHeader = "X-Correlation-ID"

const correlationContextKey = "shareboxCorrelationID"

// Init builds the application logger. LOG_LEVEL selects the minimum level,
// defaulting to info.
func Init() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if raw, ok := os.LookupEnv("LOG_LEVEL"); ok {
		var level zapcore.Level
		if err := level.Set(strings.ToLower(strings.TrimSpace(raw))); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	return cfg.Build()
}

// Middleware tags every request with a correlation ID and logs its outcome.
func Middleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(correlationContextKey, id)
		c.Header(CorrelationIDHeader, id)

		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("correlation_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// CorrelationID returns the request's correlation ID, or empty when the
// middleware did not run.
func CorrelationID(c *gin.Context) string {
	value, exists := c.Get(correlationContextKey)
	if !exists {
		return ""
	}
	id, _ := value.(string)
	return id
}
