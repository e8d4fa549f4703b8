package main

import (
	"context"
	"github.com/google/uuid"
	"github.com/myrjola/detectivequest/internal/ai"
	"github.com/myrjola/detectivequest/internal/casefile"
	"github.com/myrjola/detectivequest/internal/errors"
	"github.com/myrjola/detectivequest/internal/explorer"
	"github.com/myrjola/detectivequest/internal/logging"
	"github.com/myrjola/detectivequest/internal/models"
	"github.com/myrjola/detectivequest/internal/report"
	"github.com/myrjola/detectivequest/internal/repositories"
	"github.com/myrjola/detectivequest/internal/sqlite"
	"github.com/myrjola/detectivequest/internal/verdict"
	"github.com/spf13/cobra"
	"io"
	"log/slog"
)

var ErrMissingAPIKey = errors.NewSentinel("narration needs OPENAI_API_KEY")

const accusationPrompt = "Quem você acusa? "

func addCaseFlags(cmd *cobra.Command) {
	cmd.Flags().String("case-file", "", "path to a YAML case file")
	cmd.Flags().String("case", "", "ID of a case in the catalog")
	cmd.MarkFlagsMutuallyExclusive("case-file", "case")
}

// loadCase resolves the case from --case-file, then --case and finally falls back to the bundled mansion.
func (app *application) loadCase(cmd *cobra.Command) (*models.Case, error) {
	ctx := cmd.Context()
	path, _ := cmd.Flags().GetString("case-file")
	caseID, _ := cmd.Flags().GetString("case")

	switch {
	case path != "":
		return casefile.Load(path) //nolint:wrapcheck // already annotated with the path
	case caseID != "":
		dbs, err := sqlite.NewDatabase(ctx, app.cfg.SQLiteURL, app.logger)
		if err != nil {
			return nil, errors.Wrap(err, "open case catalog")
		}
		defer app.closeDatabase(ctx, dbs)
		c, err := repositories.NewCaseRepository(dbs, app.logger).Get(ctx, caseID)
		if err != nil {
			return nil, errors.Wrap(err, "load case from catalog")
		}
		return c, nil
	default:
		return casefile.Default() //nolint:wrapcheck // already annotated
	}
}

func (app *application) closeDatabase(ctx context.Context, dbs *sqlite.Database) {
	if err := dbs.Close(); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "failed to close case catalog", errors.SlogError(err))
	}
}

func (app *application) narrator(cmd *cobra.Command) (report.Narrator, error) {
	narrate := app.cfg.Narrate
	if cmd.Flags().Changed("narrate") {
		narrate, _ = cmd.Flags().GetBool("narrate")
	}
	if !narrate {
		return nil, nil //nolint:nilnil // no narration is a valid choice
	}
	if app.cfg.OpenAIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return ai.NewClient(app.cfg.OpenAIKey, app.cfg.OpenAIBaseURL), nil
}

func (app *application) playCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "play",
		GroupID: gameGroup.ID,
		Short:   "Play a case",
		Long: `Explore the mansion with [e] for left, [d] for right and [s] to stop. The clues found on the way are
listed in alphabetical order before you name the culprit. Two clues pointing at the accused convict them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("session", uuid.NewString()))

			c, err := app.loadCase(cmd)
			if err != nil {
				return err
			}
			narrator, err := app.narrator(cmd)
			if err != nil {
				return err
			}
			source, err := newLineSource(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := source.Close(); closeErr != nil {
					app.logger.LogAttrs(ctx, slog.LevelWarn, "failed to close input", errors.SlogError(closeErr))
				}
			}()

			return app.play(ctx, c, source, report.NewTerminal(cmd.OutOrStdout(), narrator, app.logger))
		},
	}
	addCaseFlags(cmd)
	cmd.Flags().Bool("narrate", false, "narrate the rooms with OpenAI")
	return cmd
}

func (app *application) play(ctx context.Context, c *models.Case, source lineSource, term *report.Terminal) error {
	entrance, index, err := c.Build()
	if err != nil {
		return errors.Wrap(err, "build case", slog.String("case_id", c.ID))
	}
	ctx = logging.WithAttrs(ctx, slog.String("case_id", c.ID))
	app.logger.LogAttrs(ctx, slog.LevelInfo, "session started")

	e, err := explorer.New(entrance, term, app.logger)
	if err != nil {
		return errors.Wrap(err, "start exploration")
	}

	term.Start(c.Title)
	clues, err := e.Run(ctx, source)
	if err != nil {
		return errors.Wrap(err, "explore")
	}
	term.Clues(clues)

	source.SetPrompt(accusationPrompt)
	accused, err := source.Next(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "read accusation")
	}

	result, err := verdict.Judge(clues, index, accused)
	term.Verdict(result, err)
	app.logger.LogAttrs(ctx, slog.LevelInfo, "verdict",
		slog.String("accused", result.Accused),
		slog.Int("count", result.Count),
		slog.String("outcome", result.Outcome.String()))
	term.Farewell()
	return nil
}

func (app *application) mapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "map",
		GroupID: gameGroup.ID,
		Short:   "Print every room of a case",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := app.loadCase(cmd)
			if err != nil {
				return err
			}
			entrance, _, err := c.Build()
			if err != nil {
				return errors.Wrap(err, "build case", slog.String("case_id", c.ID))
			}
			report.NewTerminal(cmd.OutOrStdout(), nil, app.logger).Map(entrance)
			return nil
		},
	}
	addCaseFlags(cmd)
	return cmd
}

func (app *application) suspectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "suspects",
		GroupID: gameGroup.ID,
		Short:   "List the suspects of a case",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := app.loadCase(cmd)
			if err != nil {
				return err
			}
			_, index, err := c.Build()
			if err != nil {
				return errors.Wrap(err, "build case", slog.String("case_id", c.ID))
			}
			report.NewTerminal(cmd.OutOrStdout(), nil, app.logger).Suspects(index.Suspects())
			return nil
		},
	}
	addCaseFlags(cmd)
	return cmd
}
