// README: Room handlers for create/join/update/leave/close/state.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"meetpoint/internal/modules/room"
	"meetpoint/internal/types"
)

type RoomHandler struct {
	room *room.Service
}

func NewRoomHandler(svc *room.Service) *RoomHandler {
	return &RoomHandler{room: svc}
}

type createRoomReq struct {
	TTLMinutes  int    `json:"ttl_minutes"`
	Purpose     string `json:"purpose"`
	MeetingTime string `json:"meeting_time"`
}

func (h *RoomHandler) Create(c *gin.Context) {
	var req createRoomReq
	// an empty body means all defaults
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.room.Create(c.Request.Context(), room.CreateCommand{
		TTLMinutes:  req.TTLMinutes,
		Purpose:     req.Purpose,
		MeetingTime: req.MeetingTime,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, map[string]any{
		"code":        r.Code,
		"host_secret": r.HostSecret,
		"expires_at":  r.ExpiresAt,
	})
}

type joinRoomReq struct {
	Code     string `json:"code"`
	Nickname string `json:"nickname"`
	PID      string `json:"pid"`
}

func (h *RoomHandler) Join(c *gin.Context) {
	var req joinRoomReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Code == "" {
		writeError(c, http.StatusBadRequest, "missing room code")
		return
	}
	pid, err := h.room.Join(c.Request.Context(), req.Code, req.Nickname, types.ID(req.PID))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"pid": pid})
}

type updateRoomReq struct {
	Code string   `json:"code"`
	PID  string   `json:"pid"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
	Mode string   `json:"mode"`
}

func (h *RoomHandler) Update(c *gin.Context) {
	var req updateRoomReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Code == "" || req.PID == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	err := h.room.Update(c.Request.Context(), room.UpdateCommand{
		Code: req.Code,
		PID:  types.ID(req.PID),
		Lat:  req.Lat,
		Lng:  req.Lng,
		Mode: req.Mode,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"ok": true})
}

type leaveRoomReq struct {
	Code string `json:"code"`
	PID  string `json:"pid"`
}

func (h *RoomHandler) Leave(c *gin.Context) {
	var req leaveRoomReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Code == "" || req.PID == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	if err := h.room.Leave(c.Request.Context(), req.Code, types.ID(req.PID)); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"ok": true})
}

type closeRoomReq struct {
	Code       string `json:"code"`
	HostSecret string `json:"host_secret"`
}

func (h *RoomHandler) Close(c *gin.Context) {
	var req closeRoomReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Code == "" {
		writeError(c, http.StatusBadRequest, "missing room code")
		return
	}
	if err := h.room.Close(c.Request.Context(), req.Code, req.HostSecret); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"ok": true})
}

func (h *RoomHandler) State(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		writeError(c, http.StatusBadRequest, "missing room code")
		return
	}
	state, err := h.room.State(c.Request.Context(), code)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, state)
}
