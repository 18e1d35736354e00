// README: Meetpoint participant model, travel modes and optimization results.
package meetpoint

import (
	"meetpoint/internal/types"
)

// Mode is a participant's travel mode.
type Mode string

const (
	ModeCar    Mode = "car"
	ModeBus    Mode = "bus"
	ModeSubway Mode = "subway"
	ModeWalk   Mode = "walk"
)

// assumed speeds in km/h, used for the centroid weights and the ETA fallback.
var modeSpeedsKmh = map[Mode]float64{
	ModeCar:    40.0,
	ModeBus:    20.0,
	ModeSubway: 35.0,
	ModeWalk:   5.0,
}

// ParseMode normalizes a raw mode string; anything unrecognized is treated
// as car.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeCar, ModeBus, ModeSubway, ModeWalk:
		return Mode(s)
	default:
		return ModeCar
	}
}

// SpeedKmh returns the assumed travel speed for the mode.
func (m Mode) SpeedKmh() float64 {
	if v, ok := modeSpeedsKmh[m]; ok {
		return v
	}
	return modeSpeedsKmh[ModeCar]
}

// Participant is one member of the group, immutable for the duration of a
// single optimization run.
type Participant struct {
	ID       types.ID
	Nickname string
	Position types.Point
	Mode     Mode
}

// Candidate is a scored point in the search lattice. ETAs is positional:
// ETAs[i] belongs to the i-th participant of the run.
type Candidate struct {
	Point types.Point
	ETAs  []int
	Sum   int
	Max   int
	Avg   float64
}

// better reports whether c should rank before o under the fixed
// (max, sum, avg) ordering. Worst-case time dominates.
func (c Candidate) better(o Candidate) bool {
	if c.Max != o.Max {
		return c.Max < o.Max
	}
	if c.Sum != o.Sum {
		return c.Sum < o.Sum
	}
	return c.Avg < o.Avg
}

// ParticipantETA is one row of the per-participant report for the winning
// candidate.
type ParticipantETA struct {
	Index    int      `json:"index"`
	ID       types.ID `json:"pid,omitempty"`
	Nickname string   `json:"nickname,omitempty"`
	Mode     Mode     `json:"mode"`
	Minutes  int      `json:"eta_min"`
}

// Result is the outcome of one optimization run.
type Result struct {
	Seed        types.Point      `json:"seed"`
	Best        types.Point      `json:"best"`
	Stage1Count int              `json:"candidate_count_stage1"`
	Stage2Count int              `json:"candidate_count_stage2"`
	ETAs        []ParticipantETA `json:"participants_eta"`
}
