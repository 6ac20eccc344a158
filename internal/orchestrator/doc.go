// Package orchestrator drives a game from roster entry to the final
// leaderboard.
//
// The [Engine] owns the canonical [game.State]. Each action is a pure
// transition applied under a single mutex, so callers always observe a
// consistent state. Question generation is the only blocking step: while
// [Engine.SelectTopic] waits on the [Generator] the turn is visible as
// answering with no question, and no other selection may start.
//
// Every committed change is published on an [event.Bus] as a
// [event.StateChangedEvent], preceded by any action-specific events. The
// persistence scheduler subscribes to those to save the game.
package orchestrator
