// README: Room lifecycle service (create/join/update/leave/close/state).
package room

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"meetpoint/internal/modules/meetpoint"
	"meetpoint/internal/types"
)

var (
	ErrRoomNotFound        = errors.New("room_not_found")
	ErrParticipantNotFound = errors.New("participant_not_found")
	ErrBadLatLng           = errors.New("bad_latlng")
	ErrHostSecretMismatch  = errors.New("host_secret_mismatch")
)

// codeAlphabet avoids ambiguous characters (no I, O, 0, 1).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	codeLength       = 6
	pidLength        = 6
	hostSecretLength = 8
	defaultTTL       = 120 * time.Minute
	cleanupInterval  = time.Minute
)

// Config tunes room lifetimes. Zero values fall back to the package
// defaults.
type Config struct {
	TTLMinutes     int
	CleanupSeconds int
}

type Service struct {
	store        Store
	log          *slog.Logger
	defaultTTL   time.Duration
	cleanupEvery time.Duration

	// mu serializes get-mutate-put cycles so concurrent joins and updates
	// to the same room cannot lose each other's writes. Reads (State,
	// Participants) work on store snapshots and skip the lock.
	mu sync.Mutex
}

func NewService(store Store, cfg Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{store: store, log: log, defaultTTL: defaultTTL, cleanupEvery: cleanupInterval}
	if cfg.TTLMinutes > 0 {
		s.defaultTTL = time.Duration(cfg.TTLMinutes) * time.Minute
	}
	if cfg.CleanupSeconds > 0 {
		s.cleanupEvery = time.Duration(cfg.CleanupSeconds) * time.Second
	}
	return s
}

type CreateCommand struct {
	TTLMinutes  int
	Purpose     string
	MeetingTime string
}

// Create opens a new room and returns it, including the host secret the
// creator needs to close it later.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ttl := s.defaultTTL
	if cmd.TTLMinutes > 0 {
		ttl = time.Duration(cmd.TTLMinutes) * time.Minute
	}

	code := randomCode(codeLength)
	for {
		if _, err := s.store.Get(ctx, code); errors.Is(err, ErrRoomNotFound) {
			break
		}
		code = randomCode(codeLength)
	}

	now := time.Now()
	r := &Room{
		Code:         code,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		Purpose:      cmd.Purpose,
		MeetingTime:  cmd.MeetingTime,
		HostSecret:   "HS_" + randomCode(hostSecretLength),
		Participants: map[types.ID]*Participant{},
	}
	if err := s.store.Put(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info("room created", "code", code, "expires_at", r.ExpiresAt)
	return r, nil
}

// Join adds a participant (or, when pid already belongs to the room,
// refreshes its nickname) and returns the participant id.
func (s *Service) Join(ctx context.Context, code, nickname string, pid types.ID) (types.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.getLive(ctx, code)
	if err != nil {
		return "", err
	}
	if nickname == "" {
		nickname = "guest"
	}

	if p, ok := r.Participants[pid]; pid != "" && ok {
		p.Nickname = nickname
		p.UpdatedAt = time.Now()
		r.Version++
		return pid, s.store.Put(ctx, r)
	}

	pid = types.ID("P" + randomCode(pidLength))
	r.Participants[pid] = &Participant{
		ID:        pid,
		Nickname:  nickname,
		Mode:      string(meetpoint.ModeCar),
		UpdatedAt: time.Now(),
	}
	r.Version++
	return pid, s.store.Put(ctx, r)
}

type UpdateCommand struct {
	Code string
	PID  types.ID
	Lat  *float64
	Lng  *float64
	Mode string
}

// Update stores a participant's position and travel mode.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.getLive(ctx, cmd.Code)
	if err != nil {
		return err
	}
	p, ok := r.Participants[cmd.PID]
	if !ok {
		return ErrParticipantNotFound
	}

	if cmd.Lat != nil || cmd.Lng != nil {
		if cmd.Lat == nil || cmd.Lng == nil ||
			!isFinite(*cmd.Lat) || !isFinite(*cmd.Lng) {
			return ErrBadLatLng
		}
		p.Position = &types.Point{Lat: *cmd.Lat, Lng: *cmd.Lng}
	}
	switch meetpoint.Mode(cmd.Mode) {
	case meetpoint.ModeCar, meetpoint.ModeBus, meetpoint.ModeSubway, meetpoint.ModeWalk:
		p.Mode = cmd.Mode
	}
	p.UpdatedAt = time.Now()
	r.Version++
	return s.store.Put(ctx, r)
}

func (s *Service) Leave(ctx context.Context, code string, pid types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.getLive(ctx, code)
	if err != nil {
		return err
	}
	delete(r.Participants, pid)
	r.Version++
	return s.store.Put(ctx, r)
}

// Close deletes the room; only the creator holding the host secret may do
// this.
func (s *Service) Close(ctx context.Context, code, hostSecret string) error {
	r, err := s.getLive(ctx, code)
	if err != nil {
		return err
	}
	if hostSecret == "" || hostSecret != r.HostSecret {
		return ErrHostSecretMismatch
	}
	return s.store.Delete(ctx, code)
}

// State is the polling payload: the room plus the live weighted centroid of
// every located participant.
type State struct {
	Room     *Room        `json:"room"`
	Centroid *types.Point `json:"centroid,omitempty"`
}

func (s *Service) State(ctx context.Context, code string) (*State, error) {
	r, err := s.getLive(ctx, code)
	if err != nil {
		return nil, err
	}
	st := &State{Room: r}
	if located := s.locatedParticipants(r); len(located) > 0 {
		c := meetpoint.WeightedCentroid(located)
		st.Centroid = &c
	}
	return st, nil
}

// Participants materializes the room's located members for an optimization
// or suggestion run.
func (s *Service) Participants(ctx context.Context, code string) ([]meetpoint.Participant, string, error) {
	r, err := s.getLive(ctx, code)
	if err != nil {
		return nil, "", err
	}
	return s.locatedParticipants(r), r.MeetingTime, nil
}

// AttachOptimize caches an optimization payload on the room.
func (s *Service) AttachOptimize(ctx context.Context, code string, payload any) error {
	return s.attach(ctx, code, payload, func(r *Room, raw json.RawMessage) { r.LastOptimize = raw })
}

// AttachSuggest caches a suggestion payload on the room.
func (s *Service) AttachSuggest(ctx context.Context, code string, payload any) error {
	return s.attach(ctx, code, payload, func(r *Room, raw json.RawMessage) { r.LastSuggest = raw })
}

func (s *Service) attach(ctx context.Context, code string, payload any, set func(*Room, json.RawMessage)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.getLive(ctx, code)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	set(r, raw)
	r.Version++
	return s.store.Put(ctx, r)
}

// RunCleanup reaps expired rooms until ctx is cancelled.
func (s *Service) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reapExpired(ctx)
		}
	}
}

func (s *Service) reapExpired(ctx context.Context) {
	codes, err := s.store.Codes(ctx)
	if err != nil {
		s.log.Warn("room cleanup: listing codes failed", "err", err)
		return
	}
	now := time.Now()
	for _, code := range codes {
		r, err := s.store.Get(ctx, code)
		if err != nil {
			continue
		}
		if r.Expired(now) {
			if err := s.store.Delete(ctx, code); err != nil {
				s.log.Warn("room cleanup: delete failed", "code", code, "err", err)
				continue
			}
			s.log.Info("room expired", "code", code)
		}
	}
}

// getLive fetches a room, treating expired ones as gone.
func (s *Service) getLive(ctx context.Context, code string) (*Room, error) {
	r, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if r.Expired(time.Now()) {
		_ = s.store.Delete(ctx, code)
		return nil, ErrRoomNotFound
	}
	return r, nil
}

func (s *Service) locatedParticipants(r *Room) []meetpoint.Participant {
	out := make([]meetpoint.Participant, 0, len(r.Participants))
	for _, p := range r.Participants {
		if p.Position == nil {
			continue
		}
		out = append(out, meetpoint.Participant{
			ID:       p.ID,
			Nickname: p.Nickname,
			Position: *p.Position,
			Mode:     meetpoint.ParseMode(p.Mode),
		})
	}
	// map iteration order is random; keep runs reproducible
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func randomCode(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}
