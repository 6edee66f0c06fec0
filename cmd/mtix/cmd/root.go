package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/mTix/internal/resilient"
	"github.com/msto63/mTix/pkg/core/config"
	"github.com/msto63/mTix/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mtix",
	Short: "mTix - concert ticketing client",
	Long: `mTix talks to a replicated concert ticketing backend. Endpoints are
resolved once from the coordination store (etcd or Redis); failed calls
move on to the next replica.

Roles:
  organizer    - create and maintain concerts
  boxoffice    - stock and prices
  customer     - browse and book
  coordinator  - group bookings and reports

Local cluster:
  serve        - run a dev replica`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $MTIX_CONFIG or ./configs/mtix.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(logging.Config{
		Name:   "mtix",
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// withClient resolves the replicas, connects and runs fn. The connection
// is closed when fn returns.
func withClient(fn func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := signalContext()
	defer cancel()

	rt, err := resilient.Dial(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Debug("connected", "endpoint", rt.Endpoint().String(), "source", rt.Source())
	return fn(ctx, rt, logger)
}
