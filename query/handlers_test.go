package query

import (
	"context"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tracking/core"
)

type stubReaders struct {
	playerBySteamIDFn func(ctx context.Context, steamID uint64) (core.PlayerResolution, error)
	playerByNameFn    func(ctx context.Context, name string) (core.PlayerResolution, error)
	mapByIDFn         func(ctx context.Context, id uint16) (core.MapResolution, error)
	mapByNameFn       func(ctx context.Context, name string) (core.MapResolution, error)
	currentMapFn      func() (core.Map, bool)
	healthFn          func() core.HealthSnapshot
}

func (s stubReaders) FetchPlayerBySteamID(ctx context.Context, steamID uint64) (core.PlayerResolution, error) {
	if s.playerBySteamIDFn == nil {
		return core.PlayerResolution{}, fmt.Errorf("unexpected steam id lookup")
	}
	return s.playerBySteamIDFn(ctx, steamID)
}

func (s stubReaders) FetchPlayerByName(ctx context.Context, name string) (core.PlayerResolution, error) {
	if s.playerByNameFn == nil {
		return core.PlayerResolution{}, fmt.Errorf("unexpected name lookup")
	}
	return s.playerByNameFn(ctx, name)
}

func (s stubReaders) FetchMapByID(ctx context.Context, id uint16) (core.MapResolution, error) {
	if s.mapByIDFn == nil {
		return core.MapResolution{}, fmt.Errorf("unexpected map id lookup")
	}
	return s.mapByIDFn(ctx, id)
}

func (s stubReaders) FetchMapByName(ctx context.Context, name string) (core.MapResolution, error) {
	if s.mapByNameFn == nil {
		return core.MapResolution{}, fmt.Errorf("unexpected map name lookup")
	}
	return s.mapByNameFn(ctx, name)
}

func (s stubReaders) CurrentMap() (core.Map, bool) {
	if s.currentMapFn == nil {
		return core.Map{}, false
	}
	return s.currentMapFn()
}

func (s stubReaders) Health() core.HealthSnapshot {
	if s.healthFn == nil {
		return core.HealthSnapshot{}
	}
	return s.healthFn()
}

func TestFetchPlayerQuery_SteamIDSelectorWins(t *testing.T) {
	reader := stubReaders{
		playerBySteamIDFn: func(_ context.Context, steamID uint64) (core.PlayerResolution, error) {
			if steamID != 76561198000000001 {
				t.Fatalf("unexpected steam id %d", steamID)
			}
			return core.PlayerResolution{
				Outcome: core.LookupFound,
				Player:  core.Player{SteamID: steamID, Name: "player one"},
			}, nil
		},
	}

	resolution, err := NewFetchPlayerQuery(reader).Query(context.Background(), FetchPlayerMessage{
		SteamID: 76561198000000001,
		Name:    "ignored when steam id set",
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if resolution.Outcome != core.LookupFound || resolution.Player.Name != "player one" {
		t.Fatalf("unexpected resolution %+v", resolution)
	}
}

func TestFetchPlayerQuery_NameSelectorTrimsInput(t *testing.T) {
	reader := stubReaders{
		playerByNameFn: func(_ context.Context, name string) (core.PlayerResolution, error) {
			if name != "player one" {
				t.Fatalf("name not trimmed: %q", name)
			}
			return core.PlayerResolution{Outcome: core.LookupNotFound}, nil
		},
	}

	resolution, err := NewFetchPlayerQuery(reader).Query(context.Background(), FetchPlayerMessage{
		Name: "  player one  ",
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if resolution.Outcome != core.LookupNotFound {
		t.Fatalf("absence must resolve as not_found, got %+v", resolution)
	}
}

func TestFetchPlayerQuery_RequiresASelector(t *testing.T) {
	_, err := NewFetchPlayerQuery(stubReaders{}).Query(context.Background(), FetchPlayerMessage{})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation envelope, got %v", err)
	}
}

func TestFetchMapQuery_SelectorDispatch(t *testing.T) {
	reader := stubReaders{
		mapByIDFn: func(_ context.Context, id uint16) (core.MapResolution, error) {
			return core.MapResolution{
				Outcome: core.LookupFound,
				Map:     core.Map{ID: id, Name: "industrial_complex"},
			}, nil
		},
		mapByNameFn: func(_ context.Context, name string) (core.MapResolution, error) {
			return core.MapResolution{
				Outcome: core.LookupFound,
				Map:     core.Map{ID: 7, Name: name},
			}, nil
		},
	}
	query := NewFetchMapQuery(reader)

	byID, err := query.Query(context.Background(), FetchMapMessage{ID: 42})
	if err != nil || byID.Map.ID != 42 {
		t.Fatalf("id lookup failed: %+v %v", byID, err)
	}
	byName, err := query.Query(context.Background(), FetchMapMessage{Name: "crag"})
	if err != nil || byName.Map.Name != "crag" {
		t.Fatalf("name lookup failed: %+v %v", byName, err)
	}
}

func TestCurrentMapQuery_EmptyCacheIsAbsence(t *testing.T) {
	query := NewCurrentMapQuery(stubReaders{})
	resolution, err := query.Query(context.Background(), CurrentMapMessage{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if resolution.Outcome != core.LookupNotFound {
		t.Fatalf("empty cache must resolve as not_found, got %+v", resolution)
	}

	query = NewCurrentMapQuery(stubReaders{
		currentMapFn: func() (core.Map, bool) {
			return core.Map{ID: 42, Name: "industrial_complex"}, true
		},
	})
	resolution, err = query.Query(context.Background(), CurrentMapMessage{})
	if err != nil || resolution.Outcome != core.LookupFound || resolution.Map.ID != 42 {
		t.Fatalf("cached map not surfaced: %+v %v", resolution, err)
	}
}

func TestHealthQuery_ReturnsSnapshot(t *testing.T) {
	query := NewHealthQuery(stubReaders{
		healthFn: func() core.HealthSnapshot {
			return core.HealthSnapshot{Healthy: true, Authenticated: true, LastHeartbeatStatus: 200}
		},
	})
	snapshot, err := query.Query(context.Background(), HealthMessage{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !snapshot.Healthy || !snapshot.Authenticated || snapshot.LastHeartbeatStatus != 200 {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}

func TestQueries_RequireDependencies(t *testing.T) {
	if _, err := (&FetchPlayerQuery{}).Query(context.Background(), FetchPlayerMessage{SteamID: 1}); err == nil {
		t.Fatalf("expected dependency error for player query")
	}
	if _, err := (&HealthQuery{}).Query(context.Background(), HealthMessage{}); err == nil {
		t.Fatalf("expected dependency error for health query")
	}
}
