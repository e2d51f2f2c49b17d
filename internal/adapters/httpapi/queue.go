package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openseminar/server/internal/domain"
)

func entryID(c *gin.Context) domain.EntryID { return domain.EntryID(c.Param("entryID")) }

type enqueueRequest struct {
	Topic string `json:"topic" binding:"omitempty,max=200"`
}

func (h *handlers) enqueueSpeaker(c *gin.Context) {
	var req enqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	e, err := h.orch.EnqueueSpeaker(roomID(c), callerID(c), req.Topic)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *handlers) listQueue(c *gin.Context) {
	entries, err := h.orch.ListQueue(roomID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *handlers) dequeueSpeaker(c *gin.Context) {
	e, err := h.orch.DequeueSpeaker(roomID(c), callerID(c), entryID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *handlers) grantTurn(c *gin.Context) {
	e, err := h.orch.GrantTurn(roomID(c), callerID(c), entryID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *handlers) completeTurn(c *gin.Context) {
	e, err := h.orch.CompleteTurn(roomID(c), callerID(c), entryID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}
