// Package verdict judges an accusation against the collected clues.
package verdict

import (
	"github.com/myrjola/detectivequest/internal/clueindex"
	"github.com/myrjola/detectivequest/internal/clueset"
	"github.com/myrjola/detectivequest/internal/errors"
)

// GuiltyThreshold is the number of clues that must point at the accused for a conviction.
const GuiltyThreshold = 2

var ErrInvalidAccusation = errors.NewSentinel("invalid accusation")

type Outcome int

const (
	Innocent Outcome = iota
	Guilty
)

func (o Outcome) String() string {
	if o == Guilty {
		return "guilty"
	}
	return "innocent"
}

type Result struct {
	Accused string
	// Count is the number of collected clues the index attributes to Accused.
	Count   int
	Outcome Outcome
}

// Judge counts the collected clues whose suspect is exactly accused.
func Judge(clues *clueset.Set, index *clueindex.Index, accused string) (Result, error) {
	if accused == "" {
		return Result{Accused: "", Count: 0, Outcome: Innocent}, ErrInvalidAccusation
	}

	count := 0
	for clue := range clues.All() {
		if suspect, ok := index.Lookup(clue); ok && suspect == accused {
			count++
		}
	}

	outcome := Innocent
	if count >= GuiltyThreshold {
		outcome = Guilty
	}
	return Result{Accused: accused, Count: count, Outcome: outcome}, nil
}
