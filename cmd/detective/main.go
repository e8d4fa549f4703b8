package main

import (
	"context"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/myrjola/detectivequest/internal/envstruct"
	"github.com/myrjola/detectivequest/internal/errors"
	"github.com/myrjola/detectivequest/internal/logging"
	"github.com/spf13/cobra"
	"io"
	"io/fs"
	"log/slog"
	"os"
)

type config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel  string `env:"DETECTIVE_LOG_LEVEL" envDefault:"warn"`
	SQLiteURL string `env:"DETECTIVE_SQLITE_URL" envDefault:"./detectivequest.sqlite"`
	// Narrate enables AI narration of the rooms during play.
	Narrate       bool   `env:"DETECTIVE_NARRATE" envDefault:"false"`
	OpenAIKey     string `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:""`
}

type application struct {
	cfg    config
	logger *slog.Logger
}

var gameGroup = &cobra.Group{
	ID:    "game",
	Title: "Game",
}

var catalogGroup = &cobra.Group{
	ID:    "catalog",
	Title: "Case catalog",
}

// newRootCmd wires the command tree. lookupEnv has the same signature as [os.LookupEnv].
func newRootCmd(lookupEnv func(string) (string, bool)) *cobra.Command {
	app := &application{
		cfg:    config{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	rootCmd := &cobra.Command{
		Use:           "detective-quest",
		Short:         "Explore the mansion, collect clues and accuse the culprit",
		Long:          `Detective Quest is a terminal mystery game played room by room.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.configure(cmd, lookupEnv)
		},
	}
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("sqlite-url", "", "path to the case catalog or :memory:")

	rootCmd.AddGroup(gameGroup, catalogGroup)
	rootCmd.AddCommand(app.playCmd(), app.mapCmd(), app.suspectsCmd(), app.catalogCmd())
	return rootCmd
}

// configure reads the environment and lets command-line flags override it.
func (app *application) configure(cmd *cobra.Command, lookupEnv func(string) (string, bool)) error {
	if err := envstruct.Populate(&app.cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		app.cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("sqlite-url") {
		app.cfg.SQLiteURL, _ = flags.GetString("sqlite-url")
	}

	level, err := logging.ParseLevel(app.cfg.LogLevel)
	if err != nil {
		return err
	}
	// Logs go to stderr so they don't interleave with the game.
	app.logger = logging.NewLogger(cmd.ErrOrStderr(), level)
	return nil
}

func run(ctx context.Context, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "load .env")
	}
	rootCmd := newRootCmd(os.LookupEnv)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
