package venue

import (
	"context"
	"errors"
	"testing"
	"time"

	"meetpoint/internal/modules/meetpoint"
	"meetpoint/internal/types"
)

type stubSearch struct {
	venues []Venue
	err    error
}

func (s *stubSearch) Search(_ context.Context, _ types.Point, _ int, _, _ string) ([]Venue, error) {
	return s.venues, s.err
}

type stubEnricher struct {
	hours map[string][]OpeningPeriod
	err   error
	calls int
}

func (s *stubEnricher) Enrich(_ context.Context, v *Venue) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	if h, ok := s.hours[v.ID]; ok {
		v.Hours = h
	}
	return nil
}

func testParticipants() []meetpoint.Participant {
	return []meetpoint.Participant{
		{Position: types.Point{Lat: 37.50, Lng: 127.03}, Mode: meetpoint.ModeCar},
		{Position: types.Point{Lat: 37.52, Lng: 127.05}, Mode: meetpoint.ModeWalk},
	}
}

// Monday evening in the week used by the hours tests.
var meetingMonday = time.Date(2026, 9, 7, 19, 0, 0, 0, time.UTC)

func TestSuggest_NoPoints(t *testing.T) {
	svc := NewService(&stubSearch{}, nil, nil)
	_, err := svc.Suggest(context.Background(), SuggestCommand{})
	if !errors.Is(err, ErrNoPoints) {
		t.Fatalf("err = %v, want ErrNoPoints", err)
	}
}

func TestSuggest_NoProviderConfigured(t *testing.T) {
	svc := NewService(nil, nil, nil)
	_, err := svc.Suggest(context.Background(), SuggestCommand{Participants: testParticipants()})
	if !errors.Is(err, ErrSearchUnavailable) {
		t.Fatalf("err = %v, want ErrSearchUnavailable", err)
	}
}

func TestSuggest_SearchFailureIsReported(t *testing.T) {
	svc := NewService(&stubSearch{err: errors.New("quota exceeded")}, nil, nil)
	_, err := svc.Suggest(context.Background(), SuggestCommand{Participants: testParticipants()})
	if !errors.Is(err, ErrSearchUnavailable) {
		t.Fatalf("err = %v, want ErrSearchUnavailable", err)
	}
}

func TestSuggest_RanksOpenFirstAndDropsClosed(t *testing.T) {
	near := types.Point{Lat: 37.51, Lng: 127.04}
	search := &stubSearch{venues: []Venue{
		{ID: "v-closed", Name: "closed", Position: near, Category: "restaurant"},
		{ID: "v-nohours", Name: "nohours", Position: near, Category: "restaurant"},
		{ID: "v-open", Name: "open", Position: near, Category: "restaurant"},
	}}
	enrich := &stubEnricher{hours: map[string][]OpeningPeriod{
		"v-closed": {{Open: dt(time.Tuesday, 9, 0), Close: dtp(time.Tuesday, 17, 0)}},
		"v-open":   {{Open: dt(time.Monday, 9, 0), Close: dtp(time.Monday, 22, 0)}},
	}}

	svc := NewService(search, enrich, nil)
	res, err := svc.Suggest(context.Background(), SuggestCommand{
		Participants: testParticipants(),
		Category:     "restaurant",
		RadiusMeters: 2000,
		MeetingTime:  meetingMonday,
	})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}

	if len(res.Venues) != 2 {
		t.Fatalf("ranked venues = %d, want 2 (closed dropped)", len(res.Venues))
	}
	if res.Venues[0].Name != "open" {
		t.Errorf("first = %s, want open", res.Venues[0].Name)
	}
	if res.Venues[1].Name != "nohours" {
		t.Errorf("second = %s, want nohours", res.Venues[1].Name)
	}
	if res.Venues[0].DistanceKm == nil {
		t.Error("distance annotation missing")
	}
	if res.Venues[0].OpenMinutesLeft == nil || *res.Venues[0].OpenMinutesLeft != 180 {
		t.Errorf("OpenMinutesLeft = %v, want 180", res.Venues[0].OpenMinutesLeft)
	}
}

func TestSuggest_EnrichFailureTolerated(t *testing.T) {
	near := types.Point{Lat: 37.51, Lng: 127.04}
	search := &stubSearch{venues: []Venue{
		{ID: "v1", Name: "cafe", Position: near, Category: "cafe"},
	}}
	enrich := &stubEnricher{err: errors.New("details down")}

	svc := NewService(search, enrich, nil)
	res, err := svc.Suggest(context.Background(), SuggestCommand{
		Participants: testParticipants(),
		MeetingTime:  meetingMonday,
	})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(res.Venues) != 1 {
		t.Fatalf("venues = %d, want 1", len(res.Venues))
	}
	if res.Venues[0].OpenEnough != nil {
		t.Error("unenriched venue should carry unknown open status")
	}
}

func TestSuggest_EnrichLimitedToTwelve(t *testing.T) {
	var venues []Venue
	for i := 0; i < 15; i++ {
		venues = append(venues, Venue{
			ID:       string(rune('a' + i)),
			Position: types.Point{Lat: 37.51, Lng: 127.04},
		})
	}
	enrich := &stubEnricher{}
	svc := NewService(&stubSearch{venues: venues}, enrich, nil)

	if _, err := svc.Suggest(context.Background(), SuggestCommand{
		Participants: testParticipants(),
		MeetingTime:  meetingMonday,
	}); err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if enrich.calls != 12 {
		t.Errorf("enrich calls = %d, want 12", enrich.calls)
	}
}

func TestSuggest_ExplicitCentroidWins(t *testing.T) {
	centroid := types.Point{Lat: 37.40, Lng: 127.10}
	svc := NewService(&stubSearch{}, nil, nil)
	res, err := svc.Suggest(context.Background(), SuggestCommand{
		Centroid:    &centroid,
		MeetingTime: meetingMonday,
	})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if res.Centroid != centroid {
		t.Errorf("centroid = %+v, want %+v", res.Centroid, centroid)
	}
}
