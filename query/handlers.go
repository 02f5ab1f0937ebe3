package query

import (
	"context"
	"strings"

	"github.com/goliatone/go-tracking/core"
)

// PlayerReader is the read-side player surface of the tracking client.
type PlayerReader interface {
	FetchPlayerBySteamID(ctx context.Context, steamID uint64) (core.PlayerResolution, error)
	FetchPlayerByName(ctx context.Context, name string) (core.PlayerResolution, error)
}

// MapReader is the read-side map surface of the tracking client.
type MapReader interface {
	FetchMapByID(ctx context.Context, id uint16) (core.MapResolution, error)
	FetchMapByName(ctx context.Context, name string) (core.MapResolution, error)
	CurrentMap() (core.Map, bool)
}

// HealthReader exposes the connection state snapshot.
type HealthReader interface {
	Health() core.HealthSnapshot
}

type FetchPlayerQuery struct {
	reader PlayerReader
}

func NewFetchPlayerQuery(reader PlayerReader) *FetchPlayerQuery {
	return &FetchPlayerQuery{reader: reader}
}

func (q *FetchPlayerQuery) Query(ctx context.Context, msg FetchPlayerMessage) (core.PlayerResolution, error) {
	if q == nil || q.reader == nil {
		return core.PlayerResolution{}, queryDependencyError("query: player reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.PlayerResolution{}, err
	}
	if msg.SteamID != 0 {
		return q.reader.FetchPlayerBySteamID(ctx, msg.SteamID)
	}
	return q.reader.FetchPlayerByName(ctx, strings.TrimSpace(msg.Name))
}

type FetchMapQuery struct {
	reader MapReader
}

func NewFetchMapQuery(reader MapReader) *FetchMapQuery {
	return &FetchMapQuery{reader: reader}
}

func (q *FetchMapQuery) Query(ctx context.Context, msg FetchMapMessage) (core.MapResolution, error) {
	if q == nil || q.reader == nil {
		return core.MapResolution{}, queryDependencyError("query: map reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.MapResolution{}, err
	}
	if msg.ID != 0 {
		return q.reader.FetchMapByID(ctx, msg.ID)
	}
	return q.reader.FetchMapByName(ctx, strings.TrimSpace(msg.Name))
}

// CurrentMapQuery reads the cached current map without touching the remote
// API. An empty cache resolves as absence, not as an error.
type CurrentMapQuery struct {
	reader MapReader
}

func NewCurrentMapQuery(reader MapReader) *CurrentMapQuery {
	return &CurrentMapQuery{reader: reader}
}

func (q *CurrentMapQuery) Query(_ context.Context, _ CurrentMapMessage) (core.MapResolution, error) {
	if q == nil || q.reader == nil {
		return core.MapResolution{}, queryDependencyError("query: map reader is required")
	}
	cached, ok := q.reader.CurrentMap()
	if !ok {
		return core.MapResolution{Outcome: core.LookupNotFound}, nil
	}
	return core.MapResolution{Outcome: core.LookupFound, Map: cached}, nil
}

type HealthQuery struct {
	reader HealthReader
}

func NewHealthQuery(reader HealthReader) *HealthQuery {
	return &HealthQuery{reader: reader}
}

func (q *HealthQuery) Query(_ context.Context, _ HealthMessage) (core.HealthSnapshot, error) {
	if q == nil || q.reader == nil {
		return core.HealthSnapshot{}, queryDependencyError("query: health reader is required")
	}
	return q.reader.Health(), nil
}
