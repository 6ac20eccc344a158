// Package team partitions a player roster into balanced, randomly assigned
// teams. Each team gets a fixed color and name identity so the front end can
// tell them apart.
package team

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
	"github.com/shubham-0921/kbc-ai/internal/game"
)

// Roster limits.
const (
	MinPlayers = 2
	MinTeams   = 2
	MaxTeams   = 6
)

// Palette is the color identity cycle; team i gets Palette[i%len(Palette)].
var Palette = []game.ColorScheme{
	{Name: "blue", Hex: "#3B82F6"},
	{Name: "red", Hex: "#EF4444"},
	{Name: "green", Hex: "#22C55E"},
	{Name: "purple", Hex: "#A855F7"},
	{Name: "orange", Hex: "#F97316"},
	{Name: "pink", Hex: "#EC4899"},
}

// Names is the team name cycle.
var Names = []string{
	"Chai Champions",
	"Masala Mavericks",
	"Tandoori Titans",
	"Biryani Bosses",
	"Jalebi Jugglers",
	"Lassi Legends",
}

// Service forms teams. It is safe for use by one goroutine at a time; the
// orchestrator serializes all calls.
type Service struct {
	rng   *rand.Rand
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithIDFunc overrides ID generation. Tests use it for stable IDs.
func WithIDFunc(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// NewService creates a Service drawing randomness from rng. A nil rng uses
// an unseeded source.
func NewService(rng *rand.Rand, opts ...Option) *Service {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := &Service{
		rng:   rng,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewPlayers builds unassigned players from raw names. Names are trimmed and
// blanks dropped; a repeated name (ignoring case) is rejected.
func (s *Service) NewPlayers(names []string) ([]game.Player, error) {
	seen := make(map[string]bool, len(names))
	players := make([]game.Player, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, kbcerrors.NewInvalidRosterError("player "+name+" entered twice", kbcerrors.ErrDuplicatePlayer)
		}
		seen[key] = true
		players = append(players, game.Player{ID: s.newID(), Name: name})
	}
	return players, nil
}

// CreateTeams shuffles players and deals them round-robin into numTeams
// teams, so team sizes differ by at most one. It returns the teams and a
// copy of players with TeamID set; the input slice is not modified.
func (s *Service) CreateTeams(players []game.Player, numTeams int) ([]game.Team, []game.Player, error) {
	if len(players) < MinPlayers {
		return nil, nil, kbcerrors.NewInvalidRosterError("at least 2 players required", kbcerrors.ErrTooFewPlayers).
			WithCounts(len(players), numTeams)
	}
	if numTeams < MinTeams || numTeams > MaxTeams {
		return nil, nil, kbcerrors.NewInvalidRosterError("team count must be between 2 and 6", kbcerrors.ErrTeamCountOutOfRange).
			WithCounts(len(players), numTeams)
	}

	shuffled := make([]game.Player, len(players))
	copy(shuffled, players)
	// Fisher-Yates
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	teams := make([]game.Team, numTeams)
	for i := range teams {
		teams[i] = game.Team{
			ID:          s.newID(),
			Name:        Names[i%len(Names)],
			ColorScheme: Palette[i%len(Palette)],
			PlayerIDs:   []string{},
		}
	}

	assigned := make(map[string]string, len(shuffled))
	for i, p := range shuffled {
		t := &teams[i%numTeams]
		t.PlayerIDs = append(t.PlayerIDs, p.ID)
		assigned[p.ID] = t.ID
	}

	out := make([]game.Player, len(players))
	for i, p := range players {
		p.TeamID = game.Some(assigned[p.ID])
		out[i] = p
	}
	return teams, out, nil
}

// ShuffleTeams discards the current assignment and forms a fresh random
// partition. The result may equal the previous one.
func (s *Service) ShuffleTeams(players []game.Player, numTeams int) ([]game.Team, []game.Player, error) {
	cleared := make([]game.Player, len(players))
	for i, p := range players {
		p.TeamID = game.None[string]()
		cleared[i] = p
	}
	return s.CreateTeams(cleared, numTeams)
}
