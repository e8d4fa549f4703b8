// Package report renders the exploration and the trial for the player.
package report

import (
	"context"
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"github.com/myrjola/detectivequest/internal/clueset"
	"github.com/myrjola/detectivequest/internal/errors"
	"github.com/myrjola/detectivequest/internal/mansion"
	"github.com/myrjola/detectivequest/internal/models"
	"github.com/myrjola/detectivequest/internal/verdict"
	"io"
	"log/slog"
	"strings"
)

// Narrator adds a line of atmosphere to a room.
type Narrator interface {
	Narrate(ctx context.Context, room *mansion.Room) (string, error)
}

type styles struct {
	title   lipgloss.Style
	room    lipgloss.Style
	clue    lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
	guilty  lipgloss.Style
	acquit  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7")),
		room:    r.NewStyle().Bold(true),
		clue:    r.NewStyle().Foreground(lipgloss.Color("#F4D03F")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#5C7A84")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#E67E22")),
		guilty:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#E74C3C")),
		acquit:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2ECC71")),
	}
}

// Terminal writes human readable progress to w. Colors are only used when w is a terminal.
type Terminal struct {
	w        io.Writer
	styles   styles
	narrator Narrator
	logger   *slog.Logger
}

// NewTerminal creates a Terminal. narrator may be nil.
func NewTerminal(w io.Writer, narrator Narrator, logger *slog.Logger) *Terminal {
	return &Terminal{
		w:        w,
		styles:   newStyles(lipgloss.NewRenderer(w)),
		narrator: narrator,
		logger:   logger.With(slog.String("source", "Terminal")),
	}
}

func (t *Terminal) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(t.w, format, args...)
}

func (t *Terminal) Start(title string) {
	t.printf("%s\n", t.styles.title.Render(fmt.Sprintf("===== %s: INÍCIO DA EXPLORAÇÃO =====", title)))
}

func (t *Terminal) RoomEntered(ctx context.Context, room *mansion.Room) {
	t.printf("\nVocê está em: %s\n", t.styles.room.Render(room.Name))
	if room.HasClue() {
		t.printf("Pista encontrada: %s\n", t.styles.clue.Render(fmt.Sprintf("%q", room.Clue)))
	} else {
		t.printf("%s\n", t.styles.muted.Render("Nenhuma pista nesta sala."))
	}

	if t.narrator != nil {
		narration, err := t.narrator.Narrate(ctx, room)
		if err != nil {
			// Narration is decoration, the game goes on without it.
			t.logger.LogAttrs(ctx, slog.LevelWarn, "narration failed", errors.SlogError(err))
		} else if narration != "" {
			t.printf("%s\n", t.styles.muted.Render(narration))
		}
	}

	t.printf("\n[e] esquerda | [d] direita | [s] sair\n")
}

func (t *Terminal) NoPath(_ context.Context, _ *mansion.Room, _ mansion.Direction) {
	t.printf("%s\n", t.styles.warning.Render("Caminho inexistente."))
}

func (t *Terminal) InvalidCommand(_ context.Context, _ string) {
	t.printf("%s\n", t.styles.warning.Render("Comando inválido."))
}

// Clues lists the collected clues in order.
func (t *Terminal) Clues(clues *clueset.Set) {
	t.printf("\n%s\n", t.styles.title.Render("===== PISTAS COLETADAS ====="))
	if clues.Len() == 0 {
		t.printf("%s\n", t.styles.muted.Render("Nenhuma pista coletada."))
		return
	}
	for clue := range clues.All() {
		t.printf("- %s\n", clue)
	}
}

// Verdict prints the outcome of Judge. err is the error returned by Judge.
func (t *Terminal) Verdict(result verdict.Result, err error) {
	if errors.Is(err, verdict.ErrInvalidAccusation) {
		t.printf("%s\n", t.styles.warning.Render("Nome inválido."))
		return
	}

	t.printf("\n%s\n", t.styles.title.Render("===== JULGAMENTO ====="))
	t.printf("Acusado: %s\n", result.Accused)
	t.printf("Pistas que apontam para ele: %d\n", result.Count)
	if result.Outcome == verdict.Guilty {
		t.printf("%s\n", t.styles.guilty.Render("VEREDITO: Culpado."))
		return
	}
	t.printf("%s\n", t.styles.acquit.Render("VEREDITO: Inocente por falta de provas."))
}

func (t *Terminal) Farewell() {
	t.printf("\nObrigado por jogar Detective Quest!\n")
}

// Map draws the mansion as an indented tree.
func (t *Terminal) Map(entrance *mansion.Room) {
	entrance.Walk(func(depth int, room *mansion.Room) {
		line := strings.Repeat("  ", depth) + t.styles.room.Render(room.Name)
		if room.HasClue() {
			line += " " + t.styles.clue.Render(fmt.Sprintf("(%s)", room.Clue))
		}
		t.printf("%s\n", line)
	})
}

// Suspects lists everyone the clue index can incriminate.
func (t *Terminal) Suspects(suspects []string) {
	for _, suspect := range suspects {
		t.printf("- %s\n", suspect)
	}
}

// Cases lists the cases stored in the catalog.
func (t *Terminal) Cases(summaries []models.CaseSummary) {
	if len(summaries) == 0 {
		t.printf("%s\n", t.styles.muted.Render("Nenhum caso no catálogo."))
		return
	}
	for _, s := range summaries {
		t.printf("%s  %s %s\n", t.styles.room.Render(s.ID), s.Title,
			t.styles.muted.Render(fmt.Sprintf("(%d salas)", s.RoomCount)))
	}
}
