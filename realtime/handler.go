package realtime

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

// Frame is a client message.
type Frame struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

const frameRegister = "register"

// Handler upgrades GET /ws and tracks register frames in the registry.
type Handler struct {
	registry *Registry
	logger   *zap.Logger
}

func NewHandler(registry *Registry, logger *zap.Logger) *Handler {
	return &Handler{registry: registry, logger: logger}
}

// Serve is the gin handler for the websocket endpoint.
func (h *Handler) Serve(c *gin.Context) {
	// Origin is already enforced by the CORS middleware.
	server := websocket.Server{Handler: h.handle}
	server.ServeHTTP(c.Writer, c.Request)
}

func (h *Handler) handle(ws *websocket.Conn) {
	h.logger.Info("New client connected", zap.String("remote_addr", ws.Request().RemoteAddr))

	var registered []string
	defer func() {
		for _, userID := range registered {
			if h.registry.Unregister(userID, ws) {
				h.logger.Info("User disconnected", zap.String("user_id", userID))
			}
		}
		_ = ws.Close()
	}()

	for {
		var frame Frame
		if err := websocket.JSON.Receive(ws, &frame); err != nil {
			if isDecodeError(err) {
				h.logger.Debug("Dropping malformed websocket frame", zap.Error(err))
				continue
			}
			if !errors.Is(err, io.EOF) {
				h.logger.Debug("Websocket read failed", zap.Error(err))
			}
			return
		}

		if frame.Type == frameRegister && frame.UserID != "" {
			h.registry.Register(frame.UserID, ws)
			registered = append(registered, frame.UserID)
			h.logger.Info("User registered", zap.String("user_id", frame.UserID))
		}
	}
}

// isDecodeError reports a frame that arrived whole but was not valid JSON.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
