// README: Optimize handler; resolves participants from a room or inline.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meetpoint/internal/modules/meetpoint"
	"meetpoint/internal/modules/room"
	"meetpoint/internal/types"
)

type OptimizeHandler struct {
	room      *room.Service
	meetpoint *meetpoint.Service
	radiusM   int
	topN      int
	log       *slog.Logger
}

func NewOptimizeHandler(roomSvc *room.Service, mpSvc *meetpoint.Service, defaultRadiusM, defaultTopN int, log *slog.Logger) *OptimizeHandler {
	if log == nil {
		log = slog.Default()
	}
	return &OptimizeHandler{room: roomSvc, meetpoint: mpSvc, radiusM: defaultRadiusM, topN: defaultTopN, log: log}
}

type participantReq struct {
	PID      string  `json:"pid"`
	Nickname string  `json:"nickname"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Mode     string  `json:"mode"`
}

type optimizeReq struct {
	RoomCode     string           `json:"room_code"`
	Participants []participantReq `json:"participants"`
	RadiusMeters int              `json:"radius_m"`
	TopN         int              `json:"top_n"`
	TwoStage     *bool            `json:"two_stage"`
	Departure    string           `json:"departure"`
}

func (h *OptimizeHandler) Optimize(c *gin.Context) {
	var req optimizeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	participants, departure, err := h.resolveParticipants(c, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	cmd := meetpoint.OptimizeCommand{
		Participants: participants,
		RadiusMeters: req.RadiusMeters,
		TopN:         req.TopN,
		TwoStage:     true,
		Departure:    departure,
	}
	if cmd.RadiusMeters <= 0 {
		cmd.RadiusMeters = h.radiusM
	}
	if cmd.TopN <= 0 {
		cmd.TopN = h.topN
	}
	if req.TwoStage != nil {
		cmd.TwoStage = *req.TwoStage
	}

	result, err := h.meetpoint.Optimize(c.Request.Context(), cmd)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if req.RoomCode != "" {
		if err := h.room.AttachOptimize(c.Request.Context(), req.RoomCode, result); err != nil {
			h.log.Warn("attach optimize result failed", "room", req.RoomCode, "err", err)
		}
	}
	writeJSON(c, http.StatusOK, result)
}

// resolveParticipants picks the room roster when a room code is supplied,
// inline participants otherwise. The request departure wins over the room
// meeting time.
func (h *OptimizeHandler) resolveParticipants(c *gin.Context, req optimizeReq) ([]meetpoint.Participant, time.Time, error) {
	if req.RoomCode != "" {
		participants, meetingTime, err := h.room.Participants(c.Request.Context(), req.RoomCode)
		if err != nil {
			return nil, time.Time{}, err
		}
		departure := req.Departure
		if departure == "" {
			departure = meetingTime
		}
		return participants, parseTimeOrNow(departure), nil
	}

	participants := make([]meetpoint.Participant, 0, len(req.Participants))
	for _, p := range req.Participants {
		participants = append(participants, meetpoint.Participant{
			ID:       types.ID(p.PID),
			Nickname: p.Nickname,
			Position: types.Point{Lat: p.Lat, Lng: p.Lng},
			Mode:     meetpoint.ParseMode(p.Mode),
		})
	}
	return participants, parseTimeOrNow(req.Departure), nil
}
