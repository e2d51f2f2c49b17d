package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openseminar/server/internal/adapters/ws"
	"github.com/openseminar/server/internal/app"
	"github.com/openseminar/server/internal/domain"
)

type handlers struct {
	ctx  context.Context
	orch *app.Orchestrator
	hub  *ws.Hub
}

func roomID(c *gin.Context) domain.RoomID { return domain.RoomID(c.Param("id")) }

type createRoomRequest struct {
	SessionID string              `json:"sessionId" binding:"required"`
	Capacity  int                 `json:"maxParticipants" binding:"omitempty,gt=0"`
	Settings  domain.RoomSettings `json:"settings"`
}

func (h *handlers) createRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	room, err := h.orch.CreateRoom(domain.SessionID(req.SessionID), callerID(c), req.Capacity, req.Settings)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *handlers) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.Rooms())
}

func (h *handlers) roomSnapshot(c *gin.Context) {
	snap, err := h.orch.Snapshot(roomID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *handlers) startRoom(c *gin.Context) {
	room, err := h.orch.StartRoom(roomID(c), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *handlers) endRoom(c *gin.Context) {
	room, err := h.orch.EndRoom(roomID(c), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *handlers) cancelRoom(c *gin.Context) {
	room, err := h.orch.CancelRoom(roomID(c), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type layoutRequest struct {
	Layout string `json:"layout" binding:"required,layout"`
}

func (h *handlers) updateLayout(c *gin.Context) {
	var req layoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	room, err := h.orch.UpdateLayout(roomID(c), callerID(c), domain.Layout(req.Layout))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}
