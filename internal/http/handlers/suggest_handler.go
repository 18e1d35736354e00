// README: Venue suggestion handler; resolves the group from a room or inline.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"meetpoint/internal/modules/meetpoint"
	"meetpoint/internal/modules/room"
	"meetpoint/internal/modules/venue"
	"meetpoint/internal/types"
)

type SuggestHandler struct {
	room    *room.Service
	venue   *venue.Service
	radiusM int
	log     *slog.Logger
}

func NewSuggestHandler(roomSvc *room.Service, venueSvc *venue.Service, defaultRadiusM int, log *slog.Logger) *SuggestHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SuggestHandler{room: roomSvc, venue: venueSvc, radiusM: defaultRadiusM, log: log}
}

type suggestReq struct {
	RoomCode     string           `json:"room_code"`
	Participants []participantReq `json:"participants"`
	Centroid     *types.Point     `json:"centroid"`
	Category     string           `json:"category"`
	RadiusMeters int              `json:"radius_m"`
	Query        string           `json:"query"`
	MeetingTime  string           `json:"meeting_time"`
}

func (h *SuggestHandler) Suggest(c *gin.Context) {
	var req suggestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	cmd := venue.SuggestCommand{
		Centroid:     req.Centroid,
		Category:     req.Category,
		RadiusMeters: req.RadiusMeters,
		Query:        req.Query,
	}
	if cmd.RadiusMeters <= 0 {
		cmd.RadiusMeters = h.radiusM
	}

	meetingTime := req.MeetingTime
	if req.RoomCode != "" {
		participants, roomMeetingTime, err := h.room.Participants(c.Request.Context(), req.RoomCode)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		cmd.Participants = participants
		if meetingTime == "" {
			meetingTime = roomMeetingTime
		}
	} else {
		for _, p := range req.Participants {
			cmd.Participants = append(cmd.Participants, meetpoint.Participant{
				ID:       types.ID(p.PID),
				Nickname: p.Nickname,
				Position: types.Point{Lat: p.Lat, Lng: p.Lng},
				Mode:     meetpoint.ParseMode(p.Mode),
			})
		}
	}
	cmd.MeetingTime = parseTimeOrNow(meetingTime)

	result, err := h.venue.Suggest(c.Request.Context(), cmd)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if req.RoomCode != "" {
		if err := h.room.AttachSuggest(c.Request.Context(), req.RoomCode, result); err != nil {
			h.log.Warn("attach suggest result failed", "room", req.RoomCode, "err", err)
		}
	}
	writeJSON(c, http.StatusOK, result)
}
