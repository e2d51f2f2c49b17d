package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openseminar/server/internal/core"
	"github.com/openseminar/server/internal/domain"
)

func breakoutID(c *gin.Context) domain.BreakoutID { return domain.BreakoutID(c.Param("breakoutID")) }

type breakoutSpecRequest struct {
	Name            string `json:"name"`
	Topic           string `json:"topic"`
	Capacity        int    `json:"capacity" binding:"omitempty,gt=0"`
	DurationMinutes int    `json:"durationMinutes" binding:"omitempty,gt=0"`
}

type createBreakoutsRequest struct {
	Count int                   `json:"totalRooms" binding:"omitempty,gt=0,lte=50"`
	Rooms []breakoutSpecRequest `json:"rooms" binding:"omitempty,max=50"`
}

func (h *handlers) createBreakouts(c *gin.Context) {
	var req createBreakoutsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	specs := make([]core.BreakoutSpec, 0, len(req.Rooms))
	for _, r := range req.Rooms {
		specs = append(specs, core.BreakoutSpec{
			Name:            r.Name,
			Topic:           r.Topic,
			Capacity:        r.Capacity,
			DurationMinutes: r.DurationMinutes,
		})
	}
	rooms, err := h.orch.CreateBreakoutRooms(roomID(c), callerID(c), req.Count, specs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rooms)
}

func (h *handlers) listBreakouts(c *gin.Context) {
	snaps, err := h.orch.Breakouts(roomID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snaps)
}

type assignRequest struct {
	Method      string            `json:"assignmentMethod" binding:"omitempty,assignmethod"`
	Assignments map[string]string `json:"assignments"` // userId -> breakoutRoomId
}

func (h *handlers) assignParticipants(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	method := domain.AssignmentMethod(req.Method)
	if method != "" && method != domain.AssignManual {
		results, err := h.orch.AssignParticipantsAuto(roomID(c), callerID(c), method)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
		return
	}

	assignments := make([]core.Assignment, 0, len(req.Assignments))
	for uid, bid := range req.Assignments {
		assignments = append(assignments, core.Assignment{
			UserID:     domain.UserID(uid),
			BreakoutID: domain.BreakoutID(bid),
		})
	}
	results, err := h.orch.AssignParticipants(roomID(c), callerID(c), assignments)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *handlers) startBreakout(c *gin.Context) {
	b, err := h.orch.StartBreakout(roomID(c), callerID(c), breakoutID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *handlers) closeBreakout(c *gin.Context) {
	b, err := h.orch.CloseBreakout(roomID(c), callerID(c), breakoutID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type broadcastRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

func (h *handlers) broadcastToBreakouts(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	results, err := h.orch.BroadcastToBreakouts(c.Request.Context(), roomID(c), callerID(c), req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
