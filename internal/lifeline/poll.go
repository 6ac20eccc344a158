// Package lifeline implements the mechanics behind the player lifelines.
// Only the audience poll has any; phone-a-friend is purely a flag on the
// game state.
package lifeline

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/shubham-0921/kbc-ai/internal/game"
)

// ErrInvalidCorrectIndex is returned for a correct index outside 0..3.
var ErrInvalidCorrectIndex = errors.New("correct index out of range")

// Poll share bounds for the correct answer, in percent.
const (
	MinCorrectShare = 40
	MaxCorrectShare = 60

	// maxSpreadFraction caps how much of the remaining share one wrong
	// answer can take.
	maxSpreadFraction = 0.6
)

// PollGenerator produces simulated audience votes biased toward the correct
// answer.
type PollGenerator struct {
	rng *rand.Rand
}

// NewPollGenerator creates a PollGenerator. A nil rng uses an unseeded source.
func NewPollGenerator(rng *rand.Rand) *PollGenerator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &PollGenerator{rng: rng}
}

// Generate returns four integer percentages summing to 100. The entry at
// correctIndex always lies in [MinCorrectShare, MaxCorrectShare].
func (g *PollGenerator) Generate(correctIndex int) ([game.OptionCount]int, error) {
	var result [game.OptionCount]int
	if correctIndex < 0 || correctIndex >= game.OptionCount {
		return result, fmt.Errorf("%w: %d", ErrInvalidCorrectIndex, correctIndex)
	}

	var shares [game.OptionCount]float64
	shares[correctIndex] = MinCorrectShare + g.rng.Float64()*(MaxCorrectShare-MinCorrectShare)

	remaining := 100 - shares[correctIndex]
	others := otherIndices(correctIndex)
	for i, idx := range others {
		if i == len(others)-1 {
			shares[idx] = remaining
			break
		}
		shares[idx] = remaining * g.rng.Float64() * maxSpreadFraction
		remaining -= shares[idx]
	}

	total := 0
	for i, s := range shares {
		result[i] = int(math.Round(s))
		total += result[i]
	}
	result[correctIndex] += 100 - total

	// Rounding drift is at most a couple of points; if pushing it onto the
	// correct answer leaves the band, move it to a wrong answer instead.
	for result[correctIndex] > MaxCorrectShare {
		result[correctIndex]--
		result[smallest(result, others)]++
	}
	for result[correctIndex] < MinCorrectShare {
		result[correctIndex]++
		result[largest(result, others)]--
	}
	return result, nil
}

func otherIndices(correctIndex int) []int {
	others := make([]int, 0, game.OptionCount-1)
	for i := range game.OptionCount {
		if i != correctIndex {
			others = append(others, i)
		}
	}
	return others
}

func smallest(values [game.OptionCount]int, indices []int) int {
	best := indices[0]
	for _, i := range indices[1:] {
		if values[i] < values[best] {
			best = i
		}
	}
	return best
}

func largest(values [game.OptionCount]int, indices []int) int {
	best := indices[0]
	for _, i := range indices[1:] {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
