// Package explorer drives a player through the mansion one command at a time and collects the clues found on
// the way.
package explorer

import (
	"context"
	"github.com/myrjola/detectivequest/internal/clueset"
	"github.com/myrjola/detectivequest/internal/errors"
	"github.com/myrjola/detectivequest/internal/mansion"
	"io"
	"log/slog"
	"strings"
	"unicode"
)

var ErrNoEntrance = errors.NewSentinel("exploration needs an entrance room")

type Command int

const (
	CommandInvalid Command = iota
	CommandLeft
	CommandRight
	CommandStop
)

func (c Command) String() string {
	switch c {
	case CommandLeft:
		return "left"
	case CommandRight:
		return "right"
	case CommandStop:
		return "stop"
	case CommandInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// ParseCommand interprets the first non-blank character of line, ignoring case. Both the Portuguese letters
// (e)squerda, (d)ireita, (s)air and the English l, r, q are understood.
func ParseCommand(line string) Command {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	if line == "" {
		return CommandInvalid
	}
	switch unicode.ToLower([]rune(line)[0]) {
	case 'e', 'l':
		return CommandLeft
	case 'd', 'r':
		return CommandRight
	case 's', 'q':
		return CommandStop
	default:
		return CommandInvalid
	}
}

type State int

const (
	Exploring State = iota
	Finished
)

// Reporter receives what happens during the exploration.
type Reporter interface {
	// RoomEntered is called whenever the player is (again) standing in room.
	RoomEntered(ctx context.Context, room *mansion.Room)
	NoPath(ctx context.Context, room *mansion.Room, dir mansion.Direction)
	InvalidCommand(ctx context.Context, input string)
}

// CommandSource blocks until the player has typed the next line. It returns io.EOF when input is exhausted.
type CommandSource interface {
	Next(ctx context.Context) (string, error)
}

// Explorer is a single-session state machine. It is not safe for concurrent use.
type Explorer struct {
	current  *mansion.Room
	clues    *clueset.Set
	state    State
	reporter Reporter
	logger   *slog.Logger
}

func New(entrance *mansion.Room, reporter Reporter, logger *slog.Logger) (*Explorer, error) {
	if entrance == nil {
		return nil, ErrNoEntrance
	}
	return &Explorer{
		current:  entrance,
		clues:    clueset.New(),
		state:    Exploring,
		reporter: reporter,
		logger:   logger.With(slog.String("source", "Explorer")),
	}, nil
}

func (e *Explorer) Current() *mansion.Room {
	return e.current
}

func (e *Explorer) State() State {
	return e.state
}

// Clues returns the clues collected so far.
func (e *Explorer) Clues() *clueset.Set {
	return e.clues
}

// Visit reports the current room and collects its clue.
func (e *Explorer) Visit(ctx context.Context) {
	room := e.current
	e.reporter.RoomEntered(ctx, room)
	if e.clues.Insert(room.Clue) {
		e.logger.LogAttrs(ctx, slog.LevelDebug, "clue collected",
			slog.String("room", room.Name), slog.String("clue", room.Clue))
	}
}

// Step applies one command and returns the resulting state. Commands after Finished are ignored.
func (e *Explorer) Step(ctx context.Context, cmd Command, input string) State {
	if e.state == Finished {
		return e.state
	}

	switch cmd {
	case CommandStop:
		e.finish(ctx, "stop")
		return e.state
	case CommandLeft, CommandRight:
		dir := mansion.Left
		if cmd == CommandRight {
			dir = mansion.Right
		}
		next, err := mansion.Descend(e.current, dir)
		if errors.Is(err, mansion.ErrNoPath) {
			e.logger.LogAttrs(ctx, slog.LevelDebug, "no path", errors.SlogError(err))
			e.reporter.NoPath(ctx, e.current, dir)
		} else {
			e.logger.LogAttrs(ctx, slog.LevelDebug, "moved",
				slog.String("from", e.current.Name), slog.String("to", next.Name))
			e.current = next
		}
	default:
		e.reporter.InvalidCommand(ctx, input)
	}

	e.Visit(ctx)
	return e.state
}

// Run visits the entrance and then reads commands from source until the player stops or input runs out.
// The collected clues are returned even when reading fails.
func (e *Explorer) Run(ctx context.Context, source CommandSource) (*clueset.Set, error) {
	e.Visit(ctx)
	for e.state == Exploring {
		line, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			e.finish(ctx, "end of input")
			break
		}
		if err != nil {
			e.finish(ctx, "read error")
			return e.clues, errors.Wrap(err, "read command")
		}
		e.Step(ctx, ParseCommand(line), line)
	}
	return e.clues, nil
}

func (e *Explorer) finish(ctx context.Context, reason string) {
	e.state = Finished
	e.logger.LogAttrs(ctx, slog.LevelInfo, "exploration finished",
		slog.String("reason", reason), slog.String("room", e.current.Name), slog.Int("clues", e.clues.Len()))
}
