package lifeline

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestPollGenerator_Generate(t *testing.T) {
	gen := NewPollGenerator(rand.New(rand.NewPCG(1, 2)))

	for correct := range 4 {
		for range 2000 {
			poll, err := gen.Generate(correct)
			if err != nil {
				t.Fatalf("Generate(%d) failed: %v", correct, err)
			}

			sum := 0
			for i, v := range poll {
				if v < 0 {
					t.Fatalf("poll %v has negative share at %d", poll, i)
				}
				sum += v
			}
			if sum != 100 {
				t.Fatalf("poll %v sums to %d", poll, sum)
			}
			if poll[correct] < MinCorrectShare || poll[correct] > MaxCorrectShare {
				t.Fatalf("poll %v: correct share %d outside [40,60]", poll, poll[correct])
			}
		}
	}
}

func TestPollGenerator_Deterministic(t *testing.T) {
	a := NewPollGenerator(rand.New(rand.NewPCG(9, 9)))
	b := NewPollGenerator(rand.New(rand.NewPCG(9, 9)))

	for range 50 {
		pa, _ := a.Generate(1)
		pb, _ := b.Generate(1)
		if pa != pb {
			t.Fatalf("same seed produced %v and %v", pa, pb)
		}
	}
}

func TestPollGenerator_InvalidIndex(t *testing.T) {
	gen := NewPollGenerator(nil)

	for _, idx := range []int{-1, 4, 100} {
		if _, err := gen.Generate(idx); !errors.Is(err, ErrInvalidCorrectIndex) {
			t.Errorf("Generate(%d) error = %v, want ErrInvalidCorrectIndex", idx, err)
		}
	}
}

func TestRebalanceHelpers(t *testing.T) {
	values := [4]int{50, 10, 30, 10}
	others := otherIndices(0)

	if got := smallest(values, others); got != 1 {
		t.Errorf("smallest = %d, want 1", got)
	}
	if got := largest(values, others); got != 2 {
		t.Errorf("largest = %d, want 2", got)
	}
}
