// Package mansion holds the static binary tree of rooms the player explores.
package mansion

import (
	"github.com/myrjola/detectivequest/internal/errors"
	"log/slog"
)

var (
	ErrNoPath      = errors.NewSentinel("no such path")
	ErrInvalidSeed = errors.NewSentinel("invalid room seed")
)

// NoChild marks an absent child in a [Seed].
const NoChild = -1

type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Room is a node of the mansion. A room owns its children exclusively and is never modified after [Build].
type Room struct {
	Name string
	// Clue is empty when the room holds no clue.
	Clue  string
	left  *Room
	right *Room
}

func (r *Room) HasClue() bool {
	return r.Clue != ""
}

// Child returns the room in the given direction or nil.
func (r *Room) Child(dir Direction) *Room {
	switch dir {
	case Left:
		return r.left
	case Right:
		return r.right
	default:
		return nil
	}
}

// Descend moves from current towards dir. When there is no room in that direction, current is returned together
// with ErrNoPath so that the caller keeps its position.
func Descend(current *Room, dir Direction) (*Room, error) {
	next := current.Child(dir)
	if next == nil {
		return current, errors.Wrap(ErrNoPath, "descend",
			slog.String("room", current.Name), slog.String("direction", dir.String()))
	}
	return next, nil
}

// Walk visits the room and its descendants in pre-order, left before right.
func (r *Room) Walk(fn func(depth int, room *Room)) {
	r.walk(0, fn)
}

func (r *Room) walk(depth int, fn func(depth int, room *Room)) {
	if r == nil {
		return
	}
	fn(depth, r)
	r.left.walk(depth+1, fn)
	r.right.walk(depth+1, fn)
}

// Seed describes one room for [Build]. Left and Right are indices into the seed slice or NoChild.
type Seed struct {
	Name  string
	Clue  string
	Left  int
	Right int
}

// Build links the seeds into a tree rooted at seeds[0].
//
// Every other seed must be the child of exactly one seed and reachable from the root, which guarantees the result
// is a strict tree without cycles or shared rooms.
func Build(seeds []Seed) (*Room, error) {
	if len(seeds) == 0 {
		return nil, errors.Wrap(ErrInvalidSeed, "no rooms")
	}

	rooms := make([]*Room, len(seeds))
	for i, seed := range seeds {
		if seed.Name == "" {
			return nil, errors.Wrap(ErrInvalidSeed, "room without name", slog.Int("index", i))
		}
		rooms[i] = &Room{Name: seed.Name, Clue: seed.Clue, left: nil, right: nil}
	}

	parents := make([]int, len(seeds))
	for i := range parents {
		parents[i] = NoChild
	}
	link := func(parent int, child int) (*Room, error) {
		if child == NoChild {
			return nil, nil
		}
		if child < 0 || child >= len(seeds) {
			return nil, errors.Wrap(ErrInvalidSeed, "child index out of range",
				slog.Int("index", parent), slog.Int("child", child))
		}
		if child == 0 {
			return nil, errors.Wrap(ErrInvalidSeed, "entrance cannot be a child", slog.Int("index", parent))
		}
		if parents[child] != NoChild {
			return nil, errors.Wrap(ErrInvalidSeed, "room has two parents",
				slog.Int("child", child), slog.Int("first", parents[child]), slog.Int("second", parent))
		}
		parents[child] = parent
		return rooms[child], nil
	}

	var err error
	for i, seed := range seeds {
		if rooms[i].left, err = link(i, seed.Left); err != nil {
			return nil, err
		}
		if rooms[i].right, err = link(i, seed.Right); err != nil {
			return nil, err
		}
	}

	// With single parents and the root parentless, anything not reached from the root sits on a cycle.
	reached := 0
	rooms[0].Walk(func(_ int, _ *Room) { reached++ })
	if reached != len(seeds) {
		return nil, errors.Wrap(ErrInvalidSeed, "rooms unreachable from the entrance",
			slog.Int("rooms", len(seeds)), slog.Int("reachable", reached))
	}

	return rooms[0], nil
}
