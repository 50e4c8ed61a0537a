package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/pkg/logger"
	wrap "github.com/tanker-union/fleet-system/pkg/logger/wrapper"
	"github.com/tanker-union/fleet-system/pkg/metrics"
	"github.com/tanker-union/fleet-system/pkg/wshub"
)

// Updates streams change events to clients so dashboards refresh without
// polling. One connection per user; a reconnect replaces the old one.
type Updates struct {
	hub *wshub.Hub
	l   logger.Logger

	upgrader websocket.Upgrader
}

func NewUpdates(hub *wshub.Hub, l logger.Logger) *Updates {
	return &Updates{
		hub: hub,
		l:   l,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the dashboard origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe godoc
// @Summary      Change event stream
// @Description  Upgrades to a websocket that receives a message whenever drivers, trips or companies change
// @Tags         Updates
// @Success      101
// @Security     BearerAuth
// @Router       /ws/updates [get]
func (h *Updates) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws_subscribe")

	user := models.UserFromContext(ctx)
	if user == nil || user.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to upgrade connection", err)
		return
	}

	conn := wshub.NewConn(r.Context(), user.ID, wsConn)
	if err := h.hub.Add(conn); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register connection", err)
		_ = conn.Close()
		return
	}

	metrics.WebSocketConnectionsGauge.WithLabelValues("fleet").Set(float64(h.hub.Count()))
	h.l.Info(ctx, "websocket client connected", "user_id", user.ID.String())

	// The stream is one-way; keep reading only to observe the close frame.
	go func() {
		defer func() {
			_ = h.hub.Delete(conn.EntityID())
			metrics.WebSocketConnectionsGauge.WithLabelValues("fleet").Set(float64(h.hub.Count()))
			h.l.Info(ctx, "websocket client disconnected", "user_id", user.ID.String())
		}()

		_ = conn.Listen(func(msg map[string]any) error {
			// Clients are not expected to send anything.
			return nil
		})
	}()
}
