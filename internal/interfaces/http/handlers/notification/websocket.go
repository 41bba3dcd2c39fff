package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/coachhub/coachhub/internal/infrastructure/realtime"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

// WebSocketHandler upgrades authenticated requests and hands the connection
// to the realtime hub.
type WebSocketHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	logger   logger.Interface
}

func NewWebSocketHandler(hub *realtime.Hub, allowedOrigins []string, logger logger.Interface) *WebSocketHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(origins) == 0 {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
		logger: logger,
	}
}

// Connect handles GET /ws/notifications
func (h *WebSocketHandler) Connect(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warnw("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	h.logger.Debugw("notification websocket connected", "user_id", userID)
	h.hub.Serve(h.hub.Register(userID, conn))
	h.logger.Debugw("notification websocket closed", "user_id", userID)
}
