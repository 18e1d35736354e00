// README: Room aggregate: shared session holding participants and results.
package room

import (
	"encoding/json"
	"time"

	"meetpoint/internal/types"
)

// Participant is one member of a room. Position stays nil until the member
// shares a location.
type Participant struct {
	ID        types.ID     `json:"pid"`
	Nickname  string       `json:"nickname"`
	Mode      string       `json:"mode"`
	Position  *types.Point `json:"position,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Room is a shared planning session, reachable by its join code until it
// expires. Version increases on every mutation so polling clients can
// detect changes.
type Room struct {
	Code         string                    `json:"code"`
	CreatedAt    time.Time                 `json:"created_at"`
	ExpiresAt    time.Time                 `json:"expires_at"`
	Purpose      string                    `json:"purpose"`
	MeetingTime  string                    `json:"meeting_time"`
	HostSecret   string                    `json:"-"`
	Version      int                       `json:"ver"`
	Participants map[types.ID]*Participant `json:"participants"`

	// cached outputs of the last optimize / suggest runs, echoed back in
	// room state for late joiners
	LastOptimize json.RawMessage `json:"eta,omitempty"`
	LastSuggest  json.RawMessage `json:"results,omitempty"`
}

// Expired reports whether the room's TTL has passed at now.
func (r *Room) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// clone returns a deep copy. Stores hand out clones so no two callers ever
// share the participants map.
func (r *Room) clone() *Room {
	cp := *r
	cp.Participants = make(map[types.ID]*Participant, len(r.Participants))
	for id, p := range r.Participants {
		pc := *p
		cp.Participants[id] = &pc
	}
	cp.LastOptimize = append(json.RawMessage(nil), r.LastOptimize...)
	cp.LastSuggest = append(json.RawMessage(nil), r.LastSuggest...)
	return &cp
}
