package orchestrator

import (
	"math/rand/v2"
	"slices"
	"time"

	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
	"github.com/shubham-0921/kbc-ai/internal/game"
)

// The functions in this file are the engine's transitions. Each takes the
// current state by value and returns the next one; on error the input is
// returned untouched and the engine commits nothing.

func wrongPhase(action string, s game.State) error {
	phase := s.GamePhase.String()
	if s.GamePhase == game.PhasePlaying {
		phase += "/" + s.Turn.Phase.String()
	}
	return kbcerrors.NewPreconditionError(action, kbcerrors.ErrWrongPhase).WithPhase(phase)
}

func requireTurnPhase(action string, s game.State, want game.TurnPhase) error {
	if s.GamePhase != game.PhasePlaying || s.Turn.Phase != want {
		return wrongPhase(action, s)
	}
	return nil
}

func startSetup(s game.State) (game.State, error) {
	if s.GamePhase != game.PhaseHome {
		return s, wrongPhase("start_setup", s)
	}
	s.GamePhase = game.PhaseSetup
	return s, nil
}

func formTeams(s game.State, players []game.Player, teams []game.Team) (game.State, error) {
	if s.GamePhase != game.PhaseSetup && s.GamePhase != game.PhaseTeamDisplay {
		return s, wrongPhase("form_teams", s)
	}
	if err := game.CheckRoster(players, teams); err != nil {
		return s, err
	}
	s.Players = players
	s.Teams = teams
	s.GamePhase = game.PhaseTeamDisplay
	return s, nil
}

func checkConfig(cfg game.Config) error {
	if cfg.QuestionsPerTeam < 1 {
		return kbcerrors.NewPreconditionError("initialize_game", kbcerrors.ErrInvalidConfig).
			WithDetail("questions per team must be at least 1")
	}
	if cfg.TimerLength < 0 {
		return kbcerrors.NewPreconditionError("initialize_game", kbcerrors.ErrInvalidConfig).
			WithDetail("timer length cannot be negative")
	}
	return nil
}

// initializeGame starts play with the given roster. Every per-game field is
// reset; only the roster and config are taken from the arguments.
func initializeGame(s game.State, players []game.Player, teams []game.Team, cfg game.Config, topics []string) (game.State, error) {
	if len(teams) == 0 {
		return s, kbcerrors.NewPreconditionError("initialize_game", kbcerrors.ErrNoTeams)
	}
	if err := checkConfig(cfg); err != nil {
		return s, err
	}
	if err := game.CheckRoster(players, teams); err != nil {
		return s, err
	}

	next := game.NewState(topics)
	next.GamePhase = game.PhasePlaying
	next.Players = players
	next.Teams = teams
	next.Config = cfg
	return next, nil
}

// pickHotSeat chooses the player who answers for team. Members not yet
// called this cycle are preferred; once everyone has had a turn the team's
// history is cleared and all members are eligible again.
func pickHotSeat(s game.State, team game.Team, rng *rand.Rand) (game.Player, game.HotSeatHistory, bool) {
	members := s.TeamPlayers(team.ID)
	if len(members) == 0 {
		return game.Player{}, s.HotSeatHistory, false
	}

	used := s.HotSeatHistory[team.ID]
	var eligible []game.Player
	for _, p := range members {
		if !slices.Contains(used, p.ID) {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		used = nil
		eligible = members
	}

	chosen := eligible[rng.IntN(len(eligible))]
	history := make(game.HotSeatHistory, len(s.HotSeatHistory)+1)
	for k, v := range s.HotSeatHistory {
		history[k] = v
	}
	history[team.ID] = append(slices.Clone(used), chosen.ID)
	return chosen, history, true
}

// beginSelection performs the synchronous half of topic selection: the hot
// seat is chosen, the topic leaves the pool and the turn enters answering
// with no question yet.
func beginSelection(s game.State, topic string, rng *rand.Rand) (game.State, error) {
	if err := requireTurnPhase("select_topic", s, game.TurnTopicSelection); err != nil {
		return s, err
	}
	if !s.HasTopic(topic) {
		return s, kbcerrors.NewPreconditionError("select_topic", kbcerrors.ErrUnknownTopic).
			WithDetail("topic " + topic + " is not in the pool")
	}
	team, ok := s.CurrentTeam()
	if !ok {
		return s, kbcerrors.NewPreconditionError("select_topic", kbcerrors.ErrNoTeams)
	}

	if player, history, ok := pickHotSeat(s, team, rng); ok {
		s.HotSeatPlayer = game.Some(player)
		s.HotSeatHistory = history
	} else {
		s.HotSeatPlayer = game.None[game.Player]()
	}

	i := slices.Index(s.AvailableTopics, topic)
	s.AvailableTopics = slices.Delete(slices.Clone(s.AvailableTopics), i, i+1)
	s.Turn.Phase = game.TurnAnswering
	s.Lifelines = game.Lifelines{}
	s.PollResults = game.None[[game.OptionCount]int]()
	s.CurrentQuestion = game.None[game.Question]()
	s.PendingTopic = game.Some(topic)
	return s, nil
}

// completeSelection stores the generated question for the pending topic.
func completeSelection(s game.State, q game.Question) (game.State, error) {
	pending, ok := s.PendingTopic.Get()
	if !ok || s.GamePhase != game.PhasePlaying || s.Turn.Phase != game.TurnAnswering {
		return s, wrongPhase("select_topic", s)
	}
	if team, ok := s.CurrentTeam(); ok {
		q.TeamID = team.ID
	}
	if q.Topic == "" {
		q.Topic = pending
	}
	s.CurrentQuestion = game.Some(q)
	s.SelectedAnswer = game.None[int]()
	s.TimeSpent = 0
	s.PendingTopic = game.None[string]()
	return s, nil
}

// rollbackSelection undoes beginSelection after a failed generation. The
// topic returns to the pool and the hot-seat pick is forgotten so that the
// player is not charged a turn they never played.
func rollbackSelection(s game.State) game.State {
	topic, ok := s.PendingTopic.Get()
	if !ok {
		return s
	}
	if !s.HasTopic(topic) {
		s.AvailableTopics = append(slices.Clone(s.AvailableTopics), topic)
	}

	if player, ok := s.HotSeatPlayer.Get(); ok {
		if team, ok := s.CurrentTeam(); ok {
			used := s.HotSeatHistory[team.ID]
			if n := len(used); n > 0 && used[n-1] == player.ID {
				history := make(game.HotSeatHistory, len(s.HotSeatHistory))
				for k, v := range s.HotSeatHistory {
					history[k] = v
				}
				history[team.ID] = slices.Clone(used[:n-1])
				s.HotSeatHistory = history
			}
		}
	}

	s.Turn.Phase = game.TurnTopicSelection
	s.CurrentQuestion = game.None[game.Question]()
	s.HotSeatPlayer = game.None[game.Player]()
	s.Lifelines = game.Lifelines{}
	s.PollResults = game.None[[game.OptionCount]int]()
	s.PendingTopic = game.None[string]()
	return s
}

func usePhoneAFriend(s game.State) (game.State, error) {
	if err := requireTurnPhase("use_phone_a_friend", s, game.TurnAnswering); err != nil {
		return s, err
	}
	if s.Lifelines.PhoneAFriend {
		return s, kbcerrors.NewPreconditionError("use_phone_a_friend", kbcerrors.ErrLifelineUsed)
	}
	s.Lifelines.PhoneAFriend = true
	return s, nil
}

// checkAudiencePoll validates the poll preconditions and returns the active
// question so the caller can draw the poll before committing.
func checkAudiencePoll(s game.State) (game.Question, error) {
	if err := requireTurnPhase("use_audience_poll", s, game.TurnAnswering); err != nil {
		return game.Question{}, err
	}
	if s.Lifelines.AudiencePoll {
		return game.Question{}, kbcerrors.NewPreconditionError("use_audience_poll", kbcerrors.ErrLifelineUsed)
	}
	q, ok := s.CurrentQuestion.Get()
	if !ok {
		return game.Question{}, kbcerrors.NewPreconditionError("use_audience_poll", kbcerrors.ErrNoActiveQuestion)
	}
	return q, nil
}

func useAudiencePoll(s game.State, poll [game.OptionCount]int) (game.State, error) {
	if _, err := checkAudiencePoll(s); err != nil {
		return s, err
	}
	s.Lifelines.AudiencePoll = true
	s.PollResults = game.Some(poll)
	return s, nil
}

// submitAnswer records the selection and moves to reveal. A None selection
// is a timeout.
func submitAnswer(s game.State, selected game.Option[int], spent time.Duration) (game.State, error) {
	if err := requireTurnPhase("submit_answer", s, game.TurnAnswering); err != nil {
		return s, err
	}
	if s.CurrentQuestion.IsNone() {
		return s, kbcerrors.NewPreconditionError("submit_answer", kbcerrors.ErrNoActiveQuestion)
	}
	if idx, ok := selected.Get(); ok && (idx < 0 || idx >= game.OptionCount) {
		return s, kbcerrors.NewPreconditionError("submit_answer", kbcerrors.ErrInvalidAnswer)
	}
	s.SelectedAnswer = selected
	s.TimeSpent = max(spent, 0)
	s.Turn.Phase = game.TurnReveal
	return s, nil
}

// nextTurn scores the revealed question and either advances to the next
// team or, once every team has answered its quota, ends the game.
func nextTurn(s game.State, topics []string, now time.Time) (game.State, game.QuestionResult, error) {
	if err := requireTurnPhase("next_turn", s, game.TurnReveal); err != nil {
		return s, game.QuestionResult{}, err
	}
	q, ok := s.CurrentQuestion.Get()
	if !ok {
		return s, game.QuestionResult{}, kbcerrors.NewPreconditionError("next_turn", kbcerrors.ErrNoActiveQuestion)
	}

	selected, answered := s.SelectedAnswer.Get()
	correct := answered && selected == q.CorrectIndex

	s.Teams = slices.Clone(s.Teams)
	team := &s.Teams[s.Turn.TeamIndex]
	if correct {
		team.Score++
	}
	team.QuestionsAnswered++

	result := game.QuestionResult{
		QuestionID: q.ID,
		TeamID:     team.ID,
		Topic:      q.Topic,
		Selected:   s.SelectedAnswer,
		Correct:    correct,
		TimeSpent:  s.TimeSpent,
		Timestamp:  now,
	}
	s.History = append(slices.Clone(s.History), result)
	s.Turn.QuestionIndex++

	if s.IsComplete() {
		s.GamePhase = game.PhaseResults
		return s, result, nil
	}

	s.Turn.TeamIndex = (s.Turn.TeamIndex + 1) % len(s.Teams)
	if len(s.AvailableTopics) == 0 {
		s.AvailableTopics = slices.Clone(topics)
	}
	s.Turn.Phase = game.TurnTopicSelection
	s.CurrentQuestion = game.None[game.Question]()
	s.SelectedAnswer = game.None[int]()
	s.TimeSpent = 0
	s.Lifelines = game.Lifelines{}
	s.PollResults = game.None[[game.OptionCount]int]()
	s.HotSeatPlayer = game.None[game.Player]()
	return s, result, nil
}

// resetGame returns to home with an empty roster. The config survives so a
// new game starts with the same settings.
func resetGame(s game.State, topics []string) game.State {
	next := game.NewState(topics)
	next.Config = s.Config
	return next
}

// replayWithSameTeams restarts play with the current roster and zeroed
// scores.
func replayWithSameTeams(s game.State, topics []string) (game.State, error) {
	if len(s.Teams) == 0 {
		return s, kbcerrors.NewPreconditionError("replay", kbcerrors.ErrNoTeams)
	}
	teams := slices.Clone(s.Teams)
	for i := range teams {
		teams[i].Score = 0
		teams[i].QuestionsAnswered = 0
	}
	return initializeGame(s, s.Players, teams, s.Config, topics)
}

// recoverPending repairs a state captured mid-selection, as found in a
// snapshot written while a question was being generated. Nothing can
// resume that generation, so the selection is rolled back.
func recoverPending(s game.State) game.State {
	if s.PendingTopic.IsSome() {
		return rollbackSelection(s)
	}
	if s.GamePhase == game.PhasePlaying && s.Turn.Phase != game.TurnTopicSelection && s.CurrentQuestion.IsNone() {
		s.Turn.Phase = game.TurnTopicSelection
		s.HotSeatPlayer = game.None[game.Player]()
		s.Lifelines = game.Lifelines{}
		s.PollResults = game.None[[game.OptionCount]int]()
	}
	return s
}
