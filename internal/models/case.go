package models

import (
	"github.com/myrjola/detectivequest/internal/clueindex"
	"github.com/myrjola/detectivequest/internal/errors"
	"github.com/myrjola/detectivequest/internal/mansion"
	"log/slog"
)

var ErrInvalidCase = errors.NewSentinel("invalid case")

// Case is everything needed to play one mystery: the rooms of the mansion and which suspect each clue points at.
type Case struct {
	ID    string     `yaml:"id" db:"id"`
	Title string     `yaml:"title" db:"title"`
	Rooms []Room     `yaml:"rooms"`
	Clues []CluePair `yaml:"clues"`
}

// Room refers to its children by key. The first room of a case is the entrance.
type Room struct {
	Key   string `yaml:"key" db:"room_key"`
	Name  string `yaml:"name" db:"name"`
	Clue  string `yaml:"clue,omitempty" db:"clue"`
	Left  string `yaml:"left,omitempty" db:"left_key"`
	Right string `yaml:"right,omitempty" db:"right_key"`
}

type CluePair struct {
	Clue    string `yaml:"clue" db:"clue"`
	Suspect string `yaml:"suspect" db:"suspect"`
}

// CaseSummary is used for listing cases without loading them.
type CaseSummary struct {
	ID        string `db:"id"`
	Title     string `db:"title"`
	RoomCount int    `db:"room_count"`
}

// Validate checks the references between rooms. The tree shape itself is checked by [mansion.Build].
func (c *Case) Validate() error {
	if c.ID == "" {
		return errors.Wrap(ErrInvalidCase, "missing id")
	}
	if len(c.Rooms) == 0 {
		return errors.Wrap(ErrInvalidCase, "no rooms", slog.String("case_id", c.ID))
	}

	keys := make(map[string]bool, len(c.Rooms))
	for i, room := range c.Rooms {
		if room.Key == "" || room.Name == "" {
			return errors.Wrap(ErrInvalidCase, "room needs key and name",
				slog.String("case_id", c.ID), slog.Int("index", i))
		}
		if keys[room.Key] {
			return errors.Wrap(ErrInvalidCase, "duplicate room key",
				slog.String("case_id", c.ID), slog.String("key", room.Key))
		}
		keys[room.Key] = true
	}
	for _, room := range c.Rooms {
		for _, child := range []string{room.Left, room.Right} {
			if child != "" && !keys[child] {
				return errors.Wrap(ErrInvalidCase, "unknown child room",
					slog.String("case_id", c.ID), slog.String("key", room.Key), slog.String("child", child))
			}
		}
	}
	for i, pair := range c.Clues {
		if pair.Clue == "" || pair.Suspect == "" {
			return errors.Wrap(ErrInvalidCase, "clue needs text and suspect",
				slog.String("case_id", c.ID), slog.Int("index", i))
		}
	}
	return nil
}

// Seeds converts the rooms to index based seeds for [mansion.Build].
func (c *Case) Seeds() []mansion.Seed {
	positions := make(map[string]int, len(c.Rooms))
	for i, room := range c.Rooms {
		positions[room.Key] = i
	}
	position := func(key string) int {
		if p, ok := positions[key]; ok {
			return p
		}
		return mansion.NoChild
	}

	seeds := make([]mansion.Seed, len(c.Rooms))
	for i, room := range c.Rooms {
		seeds[i] = mansion.Seed{
			Name:  room.Name,
			Clue:  room.Clue,
			Left:  position(room.Left),
			Right: position(room.Right),
		}
	}
	return seeds
}

func (c *Case) Pairs() []clueindex.Pair {
	pairs := make([]clueindex.Pair, len(c.Clues))
	for i, pair := range c.Clues {
		pairs[i] = clueindex.Pair{Clue: pair.Clue, Suspect: pair.Suspect}
	}
	return pairs
}

// Build validates the case and constructs the mansion and the clue index.
func (c *Case) Build() (*mansion.Room, *clueindex.Index, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	entrance, err := mansion.Build(c.Seeds())
	if err != nil {
		return nil, nil, errors.Wrap(err, "build mansion", slog.String("case_id", c.ID))
	}
	return entrance, clueindex.New(c.Pairs()), nil
}
