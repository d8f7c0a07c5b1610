package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/metrics"
	"github.com/kitbuilder587/lead-radar/internal/ratelimit"
)

const (
	headerRequestID = "X-Request-ID"
	headerOwnerID   = "X-Owner-ID"
	ctxRequestID    = "request_id"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func requestLogger(logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		if m != nil {
			m.IncRequestsInFlight()
			defer m.DecRequestsInFlight()
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", latency),
			zap.String("request_id", c.GetString(ctxRequestID)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("http request", fields...)
		case status >= 400:
			logger.Warn("http request", fields...)
		default:
			logger.Info("http request", fields...)
		}

		if m != nil {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			m.RecordRequest("http", route, strconv.Itoa(status), latency)
		}
	}
}

func recovery(logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in http handler",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(ctxRequestID)),
				)
				if m != nil {
					m.RecordRequest("http", c.FullPath(), "panic", 0)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{
					Error:   "internal_error",
					Message: "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// rateLimit - скользящее окно на IP, тот же лимитер, что у бота
func rateLimit(l *ratelimit.Limiter, logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		allowed := l.Allow(key)
		reset := l.ResetTime(key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(l.RemainingRequests(key)))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			retry := int(time.Until(reset).Seconds()) + 1
			if retry < 1 {
				retry = 1
			}
			logger.Warn("rate limit exceeded", zap.String("key", key))
			if m != nil {
				m.RecordRateLimitHit("http")
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody{
				Error:   "rate_limit_exceeded",
				Message: "too many requests, please try again later",
			})
			return
		}

		c.Next()
	}
}

// ownerID - владелец истории из заголовка; пусто, если заголовка нет
func ownerID(c *gin.Context) string {
	id := c.GetHeader(headerOwnerID)
	if id == "" {
		return ""
	}
	return "api:" + id
}
