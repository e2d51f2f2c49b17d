package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/openseminar/server/internal/domain"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// writeError maps the domain taxonomy to HTTP statuses; anything
// outside it is an internal failure and is not detailed to clients.
func writeError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	var status int
	switch kind {
	case domain.ErrKindNotFound:
		status = http.StatusNotFound
	case domain.ErrKindPermissionDenied:
		status = http.StatusForbidden
	case domain.ErrKindConflict, domain.ErrKindInvalidState, domain.ErrKindCapacityExceeded:
		status = http.StatusConflict
	default:
		log.Error().Err(err).Str("module", "adapters.httpapi").Str("path", c.FullPath()).Msg("internal error")
		c.JSON(http.StatusInternalServerError, errorBody{Kind: "internal", Message: "internal error"})
		return
	}
	c.JSON(status, errorBody{Kind: string(kind), Message: err.Error()})
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorBody{Kind: "bad_request", Message: err.Error()})
}
