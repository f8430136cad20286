package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
	"go.uber.org/zap"
)

// redactedQueryParams never reach the request log. Inquiry form values and
// relay credentials can both arrive as query parameters.
var redactedQueryParams = map[string]bool{
	"access_key":     true,
	"api_key":        true,
	"apikey":         true,
	"email":          true,
	"recaptchatoken": true,
	"secret":         true,
	"token":          true,
}

// unmatchedRoute labels requests gin could not route, keeping metric
// cardinality bounded
const unmatchedRoute = "unmatched"

// ObservabilityMiddleware records request metrics by route template and logs
// each request. Failed requests also carry their route params, the
// non-sensitive query and any handler errors.
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		metrics.ActiveRequests.WithLabelValues(method).Inc()
		defer metrics.ActiveRequests.WithLabelValues(method).Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := c.Writer.Status()
		duration := metrics.MeasureDuration(start)

		statusLabel := strconv.Itoa(status)
		metrics.HTTPRequestDuration.WithLabelValues(method, route, statusLabel).Observe(duration)
		metrics.HTTPRequestTotal.WithLabelValues(method, route, statusLabel).Inc()

		fields := []zap.Field{
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("response_size", c.Writer.Size()),
		}
		if session, err := GetVisitorSession(c); err == nil {
			fields = append(fields, zap.String("visitor_id", session.VisitorID))
		}
		if status >= 400 {
			fields = append(fields, failureFields(c)...)
		}

		logger.LogHTTPRequest(c.Request.Context(), method, c.Request.URL.Path, status, duration, fields...)
	}
}

func failureFields(c *gin.Context) []zap.Field {
	var fields []zap.Field

	if len(c.Params) > 0 {
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		fields = append(fields, zap.Any("route_params", params))
	}
	if query := loggableQuery(c); len(query) > 0 {
		fields = append(fields, zap.Any("query_params", query))
	}
	if len(c.Errors) > 0 {
		fields = append(fields, zap.String("error", c.Errors.String()))
	}
	return fields
}

// loggableQuery returns the first value of each query parameter that is not
// redacted
func loggableQuery(c *gin.Context) map[string]string {
	query := c.Request.URL.Query()
	out := make(map[string]string, len(query))
	for k, v := range query {
		if redactedQueryParams[strings.ToLower(k)] || len(v) == 0 {
			continue
		}
		out[k] = v[0]
	}
	return out
}
