package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// subscribe upgrades the connection and attaches it to the room's
// event channel. A breakout channel is subscribed the same way, using
// the breakout id in place of the room id; the hub does not care
// which kind it is. The subscription lives on the server context, not
// the request context, which dies once the handler returns.
func (h *handlers) subscribe(c *gin.Context) {
	id := roomID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.httpapi").Msg("ws upgrade failed")
		return
	}
	log.Info().Str("module", "adapters.httpapi").Str("room", string(id)).Msg("event subscriber connected")

	cancel := h.hub.Subscribe(h.ctx, id, conn)

	// the read loop only watches for the client going away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
