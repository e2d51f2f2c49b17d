package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openseminar/server/internal/domain"
)

type joinRequest struct {
	Muted   bool `json:"muted"`
	VideoOn bool `json:"videoOn"`
}

func (h *handlers) joinRoom(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	p, err := h.orch.JoinRoom(c.Request.Context(), roomID(c), callerID(c), domain.MediaPrefs{
		Muted:   req.Muted,
		VideoOn: req.VideoOn,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) leaveRoom(c *gin.Context) {
	p, err := h.orch.LeaveRoom(roomID(c), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type admitRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
}

func (h *handlers) admitParticipant(c *gin.Context) {
	var req admitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	p, err := h.orch.AdmitParticipant(roomID(c), callerID(c), domain.ParticipantID(req.ParticipantID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) heartbeat(c *gin.Context) {
	if err := h.orch.Heartbeat(roomID(c), callerID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listParticipants(c *gin.Context) {
	parts, err := h.orch.Participants(roomID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, parts)
}

func (h *handlers) raiseHand(c *gin.Context) {
	p, err := h.orch.RaiseHand(roomID(c), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) lowerHand(c *gin.Context) {
	p, err := h.orch.LowerHand(roomID(c), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) toggleMute(c *gin.Context) {
	p, err := h.orch.ToggleMute(roomID(c), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) toggleVideo(c *gin.Context) {
	p, err := h.orch.ToggleVideo(roomID(c), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) startScreenShare(c *gin.Context) {
	p, err := h.orch.StartScreenShare(roomID(c), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) stopScreenShare(c *gin.Context) {
	p, err := h.orch.StopScreenShare(roomID(c), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type chatRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
	Type    string `json:"messageType" binding:"omitempty,oneof=PUBLIC SYSTEM"`
}

func (h *handlers) sendChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	typ := domain.ChatMessageType(req.Type)
	if typ == "" {
		typ = domain.ChatPublic
	}
	msg, err := h.orch.SendChat(roomID(c), callerID(c), typ, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

type reactionRequest struct {
	Type string `json:"reactionType" binding:"required,reaction"`
}

func (h *handlers) sendReaction(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	r, err := h.orch.SendReaction(roomID(c), callerID(c), domain.ReactionType(req.Type))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
