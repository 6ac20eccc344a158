// Package game defines the trivia game's data model.
//
// The aggregate root is [State], a plain value that the orchestrator copies,
// transforms and commits. Optional fields use the generic [Option] type
// instead of pointers so that "no hot-seat player" or "no answer selected"
// is explicit and survives a JSON round trip as null.
//
// Derived read models such as [State.Leaderboard], [State.Winner] and
// [Team.Stats] are computed on demand and never stored.
package game
