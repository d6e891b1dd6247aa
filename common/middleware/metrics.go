package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	awspkg "github.com/HamzaHashone/ecommerce-hijaab-collection/pkg/aws"
)

// RequestRecorder is the subset of *awspkg.MetricsClient the HTTP metrics use.
type RequestRecorder interface {
	IsEnabled() bool
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
}

// MetricsMiddleware records request count and latency per route template,
// plus a 4xx or 5xx counter. Publishing happens off the request path.
func MetricsMiddleware(recorder RequestRecorder, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if recorder == nil || !recorder.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		sample := requestSample{
			status:   c.Writer.Status(),
			duration: time.Since(start),
			dims: map[string]string{
				"Service": serviceName,
				"Method":  c.Request.Method,
				"Path":    routeTemplate(c),
				"Status":  statusCodeToRange(c.Writer.Status()),
			},
		}
		go sample.publish(recorder)
	}
}

type requestSample struct {
	status   int
	duration time.Duration
	dims     map[string]string
}

func (s requestSample) publish(recorder RequestRecorder) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = recorder.RecordCount(ctx, awspkg.MetricHTTPRequests, s.dims)
	_ = recorder.RecordLatency(ctx, awspkg.MetricHTTPLatency, s.duration, s.dims)
	if metric := errorMetric(s.status); metric != "" {
		_ = recorder.RecordCount(ctx, metric, s.dims)
	}
}

// routeTemplate keeps path parameters out of metric dimensions.
func routeTemplate(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

func errorMetric(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return awspkg.MetricHTTP5xx
	case status >= http.StatusBadRequest:
		return awspkg.MetricHTTP4xx
	}
	return ""
}

func statusCodeToRange(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
