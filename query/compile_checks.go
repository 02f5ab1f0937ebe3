package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracking/core"
)

var (
	_ gocmd.Querier[FetchPlayerMessage, core.PlayerResolution] = (*FetchPlayerQuery)(nil)
	_ gocmd.Querier[FetchMapMessage, core.MapResolution]       = (*FetchMapQuery)(nil)
	_ gocmd.Querier[CurrentMapMessage, core.MapResolution]     = (*CurrentMapQuery)(nil)
	_ gocmd.Querier[HealthMessage, core.HealthSnapshot]        = (*HealthQuery)(nil)
)
