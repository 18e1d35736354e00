// README: Base handler utilities (JSON helpers, error mapping, time parsing).
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meetpoint/internal/modules/meetpoint"
	"meetpoint/internal/modules/room"
	"meetpoint/internal/modules/venue"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeServiceError maps module sentinel errors onto HTTP statuses. The
// response body carries the bare sentinel string so clients can key off it.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, meetpoint.ErrNoPoints) || errors.Is(err, venue.ErrNoPoints):
		writeError(c, http.StatusBadRequest, "no_points")
	case errors.Is(err, room.ErrBadLatLng):
		writeError(c, http.StatusBadRequest, room.ErrBadLatLng.Error())
	case errors.Is(err, room.ErrRoomNotFound):
		writeError(c, http.StatusNotFound, room.ErrRoomNotFound.Error())
	case errors.Is(err, room.ErrParticipantNotFound):
		writeError(c, http.StatusNotFound, room.ErrParticipantNotFound.Error())
	case errors.Is(err, room.ErrHostSecretMismatch):
		writeError(c, http.StatusForbidden, room.ErrHostSecretMismatch.Error())
	case errors.Is(err, venue.ErrSearchUnavailable):
		writeError(c, http.StatusBadGateway, venue.ErrSearchUnavailable.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

const timestampLayout = "2006-01-02T15:04:05"

// parseTimeOrNow accepts anything starting with an ISO local timestamp
// (trailing zone suffixes are ignored) and falls back to now.
func parseTimeOrNow(s string) time.Time {
	if len(s) >= len(timestampLayout) {
		if t, err := time.Parse(timestampLayout, s[:len(timestampLayout)]); err == nil {
			return t
		}
	}
	return time.Now()
}
