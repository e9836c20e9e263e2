package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/idscan/internal/app"
)

func main() {
	// Logging setup; stdout is reserved for the JSON result
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.LoadDotenv(); err != nil {
		log.Warn().Err(err).Msg("ignoring unreadable .env")
	}

	os.Exit(execute(ctx, newRootCommand()))
}

// execute runs cmd and reports a fatal error on the command's stderr. It
// returns the process exit code.
func execute(ctx context.Context, cmd *cobra.Command) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "idscan: %v\n", err)
		return exitCode(err)
	}
	return 0
}

func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "idscan <image_path>",
		Short: "Read the barcode on a student ID and print the linked student data as JSON",
		Long: `idscan decodes every barcode on a student ID image, fetches the page each one
links to and prints the student fields found there as a single JSON object.

Settings come from IDSCAN_* environment variables (a .env file is honored)
and an optional YAML or JSON file named by IDSCAN_CONFIG.`,
		Args:          exactlyOneImagePath,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args[0])
			if err != nil {
				return err
			}
			if cfg.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			log.Debug().Str("version", app.VersionString()).Str("image", cfg.ImagePath).Msg("starting")
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}

func exactlyOneImagePath(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return &app.InputError{Op: "usage", Err: fmt.Errorf("expected exactly one image path, got %d arguments", len(args))}
	}
	return nil
}

// loadConfig layers defaults, the optional config file and the environment.
func loadConfig(imagePath string) (app.Config, error) {
	cfg := app.DefaultConfig()
	cfg.ImagePath = imagePath
	if path := os.Getenv("IDSCAN_CONFIG"); path != "" {
		fc, err := app.LoadConfigFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: load %s: %w", path, err)
		}
		cfg.ConfigPath = path
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)
	return cfg, nil
}

func run(ctx context.Context, cfg app.Config, w io.Writer) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx, w)
}

// exitCode maps input problems to 2 and every other fatal error to 1.
func exitCode(err error) int {
	var ie *app.InputError
	if errors.As(err, &ie) {
		return 2
	}
	return 1
}
