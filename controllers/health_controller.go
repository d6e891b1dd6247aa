package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController reports liveness for load balancers and uptime checks.
type HealthController struct {
	environment string
	dbOnline    func(ctx context.Context) bool
	connections func() int
}

// NewHealthController takes a database probe and the live websocket count.
// Either may be nil.
func NewHealthController(environment string, dbOnline func(ctx context.Context) bool, connections func() int) *HealthController {
	return &HealthController{environment: environment, dbOnline: dbOnline, connections: connections}
}

func (hc *HealthController) Health(ctx *gin.Context) {
	status, message, code := "ok", "Server is running", http.StatusOK
	if hc.dbOnline != nil && !hc.dbOnline(ctx.Request.Context()) {
		status, message, code = "degraded", "Database unavailable", http.StatusServiceUnavailable
	}

	online := 0
	if hc.connections != nil {
		online = hc.connections()
	}

	ctx.JSON(code, gin.H{
		"status":      status,
		"message":     message,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": hc.environment,
		"online":      online,
	})
}
