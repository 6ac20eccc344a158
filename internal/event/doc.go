// Package event provides a pub-sub event bus that decouples the game engine
// from its observers.
//
// The orchestrator publishes an event after every committed transition;
// persistence, the TUI and logging subscribe without the engine knowing
// about them.
//
// # Main Types
//
//   - [Event]: implemented by every event; exposes EventType() and Timestamp()
//   - [Bus]: synchronous dispatcher, safe for concurrent use
//   - [Handler]: func(Event)
//
// # Event Categories
//
// Game:
//   - [PhaseChangedEvent]: the game-level phase moved
//   - [GameCompletedEvent]: every team answered its quota
//   - [GameResetEvent]: the game returned home; saved state is stale
//   - [StateChangedEvent]: carries a copy of the committed state
//
// Turn:
//   - [TopicSelectedEvent], [QuestionReadyEvent], [GenerationFailedEvent]
//   - [LifelineUsedEvent], [AnswerSubmittedEvent], [TurnAdvancedEvent]
//
// # Thread Safety
//
// Handlers run synchronously on the publisher's goroutine. The engine
// publishes after releasing its own lock, so a handler may call back into
// the engine. A panicking handler is recovered and logged.
//
// # Usage
//
//	bus := event.NewBus()
//	id := bus.Subscribe(event.TypeTurnAdvanced, func(e event.Event) {
//		adv := e.(event.TurnAdvancedEvent)
//		fmt.Println(adv.Result.Correct)
//	})
//	defer bus.Unsubscribe(id)
package event
