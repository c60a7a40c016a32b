// Package commands wires the CLI surface over the ledger view-model. Each
// subcommand builds a runtime from environment plus flags, runs one
// operation against the view, and renders the result.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zero-coolio/ofc/internal/config"
	"github.com/zero-coolio/ofc/internal/ledger"
	"github.com/zero-coolio/ofc/internal/log"
	"github.com/zero-coolio/ofc/internal/notify"
	"github.com/zero-coolio/ofc/internal/transport"
	"github.com/zero-coolio/ofc/internal/transport/memory"
	"github.com/zero-coolio/ofc/internal/transport/rest"
)

type options struct {
	apiBase string
	apiKey  string
	backend string
	verbose bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "ofc",
		Short: "Transaction ledger client",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiBase, "api-base", "", "backend base URL (overrides OFC_API_BASE)")
	rootCmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "backend API key (overrides OFC_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&opts.backend, "backend", "", "backend type: rest or memory (overrides OFC_BACKEND)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newListCommand(opts))
	rootCmd.AddCommand(newAddCommand(opts))
	rootCmd.AddCommand(newRmCommand(opts))
	rootCmd.AddCommand(newCategoriesCommand(opts))
	rootCmd.AddCommand(newWatchCommand(opts))

	return rootCmd
}

// runtime bundles what every subcommand needs once configuration is loaded.
type runtime struct {
	cfg     *config.Config
	logger  *log.Logger
	view    *ledger.View
	notices *notify.Center
}

// newRuntime loads configuration, applies flag overrides, and builds the
// view over the selected backend.
func newRuntime(opts *options) (*runtime, error) {
	// Missing .env is fine; the environment may carry everything already.
	_ = godotenv.Load()

	cfg := config.Load()
	if opts.apiBase != "" {
		cfg.APIBase = opts.apiBase
	}
	if opts.apiKey != "" {
		cfg.APIKey = opts.apiKey
	}
	if opts.backend != "" {
		cfg.Backend = opts.backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logCfg := log.DefaultConfig()
	if opts.verbose {
		logCfg.Level = slog.LevelDebug
		logCfg.Handler = nil
	}
	logger := log.New(logCfg).WithComponent(log.ComponentCLI)
	log.SetDefault(logger)

	backend, err := buildBackend(cfg, logger)
	if err != nil {
		return nil, err
	}

	notices := notify.NewCenter(logger.WithComponent(log.ComponentNotify))
	view := ledger.New(ledger.Config{
		Backend:  backend,
		Notices:  notices,
		Logger:   logger.WithComponent(log.ComponentLedger),
		PageSize: cfg.PageSize,
	})

	return &runtime{cfg: cfg, logger: logger, view: view, notices: notices}, nil
}

// buildBackend creates the transport selected by the configuration.
func buildBackend(cfg *config.Config, logger *log.Logger) (transport.Backend, error) {
	transportLogger := logger.WithComponent(log.ComponentTransport)

	switch transport.Type(cfg.Backend) {
	case transport.RESTBackend:
		logger.Debug("using rest backend", log.FieldBackendType, cfg.Backend, log.FieldURL, cfg.APIBase)
		return rest.New(cfg.APIBase, cfg.APIKey, cfg.HTTPTimeout, transportLogger)
	case transport.MemoryBackend:
		logger.Debug("using memory backend", log.FieldBackendType, cfg.Backend)
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Backend)
	}
}
