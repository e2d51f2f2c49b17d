// Package httpapi exposes the command surface and snapshot queries
// over HTTP and hands event subscriptions to the ws hub. Commands
// enter here; authentication itself belongs to the platform gateway.
package httpapi

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/openseminar/server/internal/adapters/ws"
	"github.com/openseminar/server/internal/app"
	"github.com/openseminar/server/internal/config"
	"github.com/openseminar/server/internal/domain"
)

const userIDHeader = "X-User-ID"

// ClientTokenMiddleware gives every browser a stable guest identity;
// authenticated callers override it with the user id header.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		token, _ := sess.Get("ct").(string)
		if token == "" {
			token = uuid.NewString()
			sess.Set("ct", token)
			_ = sess.Save()
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func callerID(c *gin.Context) domain.UserID {
	if id := c.GetHeader(userIDHeader); id != "" {
		return domain.UserID(id)
	}
	return domain.UserID(c.GetString("client_token"))
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("layout", func(fl validator.FieldLevel) bool {
			return domain.ValidLayout(domain.Layout(fl.Field().String()))
		})
		_ = v.RegisterValidation("assignmethod", func(fl validator.FieldLevel) bool {
			return domain.ValidAssignmentMethod(domain.AssignmentMethod(fl.Field().String()))
		})
		_ = v.RegisterValidation("reaction", func(fl validator.FieldLevel) bool {
			return domain.ValidReaction(domain.ReactionType(fl.Field().String()))
		})
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator, hub *ws.Hub) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("SeminarSessions", store))
	r.Use(ClientTokenMiddleware())
	registerValidators()

	h := &handlers{ctx: ctx, orch: orch, hub: hub}

	api := r.Group("/api")

	api.POST("/rooms", h.createRoom)
	api.GET("/rooms", h.listRooms)
	api.GET("/rooms/:id", h.roomSnapshot)
	api.POST("/rooms/:id/start", h.startRoom)
	api.POST("/rooms/:id/end", h.endRoom)
	api.POST("/rooms/:id/cancel", h.cancelRoom)
	api.POST("/rooms/:id/layout", h.updateLayout)

	api.POST("/rooms/:id/join", h.joinRoom)
	api.POST("/rooms/:id/leave", h.leaveRoom)
	api.POST("/rooms/:id/admit", h.admitParticipant)
	api.POST("/rooms/:id/heartbeat", h.heartbeat)
	api.GET("/rooms/:id/participants", h.listParticipants)
	api.POST("/rooms/:id/hand/raise", h.raiseHand)
	api.POST("/rooms/:id/hand/lower", h.lowerHand)
	api.POST("/rooms/:id/mute", h.toggleMute)
	api.POST("/rooms/:id/video", h.toggleVideo)
	api.POST("/rooms/:id/screenshare/start", h.startScreenShare)
	api.POST("/rooms/:id/screenshare/stop", h.stopScreenShare)
	api.POST("/rooms/:id/chat", h.sendChat)
	api.POST("/rooms/:id/reactions", h.sendReaction)

	api.POST("/rooms/:id/queue", h.enqueueSpeaker)
	api.GET("/rooms/:id/queue", h.listQueue)
	api.DELETE("/rooms/:id/queue/:entryID", h.dequeueSpeaker)
	api.POST("/rooms/:id/queue/:entryID/grant", h.grantTurn)
	api.POST("/rooms/:id/queue/:entryID/complete", h.completeTurn)

	api.POST("/rooms/:id/breakouts", h.createBreakouts)
	api.GET("/rooms/:id/breakouts", h.listBreakouts)
	api.POST("/rooms/:id/breakouts/assign", h.assignParticipants)
	api.POST("/rooms/:id/breakouts/broadcast", h.broadcastToBreakouts)
	api.POST("/rooms/:id/breakouts/:breakoutID/start", h.startBreakout)
	api.POST("/rooms/:id/breakouts/:breakoutID/close", h.closeBreakout)

	api.GET("/rooms/:id/events", h.subscribe)

	log.Info().Str("module", "adapters.httpapi").Msg("router setup")
	return r
}
