// Package core contains the canonical tracking client: connection state,
// the heartbeat and token-refresh loops, operation gating, and the
// player/map operations. Lower-level adapters must depend on this package;
// core must not depend on transport-specific or queue-specific adapters.
package core
