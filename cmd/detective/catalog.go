package main

import (
	"fmt"
	"github.com/myrjola/detectivequest/internal/casefile"
	"github.com/myrjola/detectivequest/internal/errors"
	"github.com/myrjola/detectivequest/internal/report"
	"github.com/myrjola/detectivequest/internal/repositories"
	"github.com/myrjola/detectivequest/internal/sqlite"
	"github.com/spf13/cobra"
	"log/slog"
)

// withCatalog opens the case catalog for the duration of fn.
func (app *application) withCatalog(cmd *cobra.Command, fn func(cases *repositories.CaseRepository) error) error {
	ctx := cmd.Context()
	dbs, err := sqlite.NewDatabase(ctx, app.cfg.SQLiteURL, app.logger)
	if err != nil {
		return errors.Wrap(err, "open case catalog")
	}
	defer app.closeDatabase(ctx, dbs)
	return fn(repositories.NewCaseRepository(dbs, app.logger))
}

func (app *application) catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		GroupID: catalogGroup.ID,
		Short:   "Manage the case catalog",
		Long:    `The catalog stores cases in SQLite so they can be played with play --case <id>.`,
	}

	importCmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a YAML case file, replacing a case with the same ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := casefile.Load(args[0])
			if err != nil {
				return err //nolint:wrapcheck // already annotated with the path
			}
			return app.withCatalog(cmd, func(cases *repositories.CaseRepository) error {
				if err = cases.Save(cmd.Context(), c); err != nil {
					return errors.Wrap(err, "import case", slog.String("path", args[0]))
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Caso %q importado.\n", c.ID)
				return nil
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the cases in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withCatalog(cmd, func(cases *repositories.CaseRepository) error {
				summaries, err := cases.List(cmd.Context())
				if err != nil {
					return errors.Wrap(err, "list cases")
				}
				report.NewTerminal(cmd.OutOrStdout(), nil, app.logger).Cases(summaries)
				return nil
			})
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Print a case from the catalog as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withCatalog(cmd, func(cases *repositories.CaseRepository) error {
				c, err := cases.Get(cmd.Context(), args[0])
				if err != nil {
					return errors.Wrap(err, "export case")
				}
				return casefile.Write(cmd.OutOrStdout(), c) //nolint:wrapcheck // already annotated
			})
		},
	}

	cmd.AddCommand(importCmd, listCmd, exportCmd)
	return cmd
}
