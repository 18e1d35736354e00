// README: Room store backed by PostgreSQL (participants kept as JSONB).
package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"meetpoint/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Get(ctx context.Context, code string) (*Room, error) {
	row := s.db.QueryRow(ctx, `
        SELECT code, created_at, expires_at, purpose, meeting_time,
               host_secret, version, participants, last_optimize, last_suggest
        FROM rooms
        WHERE code = $1`, code,
	)

	var r Room
	var participants []byte
	var lastOptimize, lastSuggest []byte

	err := row.Scan(
		&r.Code, &r.CreatedAt, &r.ExpiresAt, &r.Purpose, &r.MeetingTime,
		&r.HostSecret, &r.Version, &participants, &lastOptimize, &lastSuggest,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	r.Participants = map[types.ID]*Participant{}
	if len(participants) > 0 {
		if err := json.Unmarshal(participants, &r.Participants); err != nil {
			return nil, fmt.Errorf("decode participants for room %s: %w", code, err)
		}
	}
	r.LastOptimize = lastOptimize
	r.LastSuggest = lastSuggest
	return &r, nil
}

func (s *PGStore) Put(ctx context.Context, r *Room) error {
	participants, err := json.Marshal(r.Participants)
	if err != nil {
		return fmt.Errorf("encode participants for room %s: %w", r.Code, err)
	}

	_, err = s.db.Exec(ctx, `
        INSERT INTO rooms (
            code, created_at, expires_at, purpose, meeting_time,
            host_secret, version, participants, last_optimize, last_suggest
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (code) DO UPDATE SET
            expires_at = EXCLUDED.expires_at,
            meeting_time = EXCLUDED.meeting_time,
            version = EXCLUDED.version,
            participants = EXCLUDED.participants,
            last_optimize = EXCLUDED.last_optimize,
            last_suggest = EXCLUDED.last_suggest`,
		r.Code, r.CreatedAt, r.ExpiresAt, r.Purpose, r.MeetingTime,
		r.HostSecret, r.Version, participants,
		nullableJSON(r.LastOptimize), nullableJSON(r.LastSuggest),
	)
	return err
}

func (s *PGStore) Delete(ctx context.Context, code string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM rooms WHERE code = $1`, code)
	return err
}

func (s *PGStore) Codes(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT code FROM rooms`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func nullableJSON(v json.RawMessage) any {
	if len(v) == 0 {
		return nil
	}
	return []byte(v)
}
