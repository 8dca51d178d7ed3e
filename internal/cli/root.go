package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/hoyorecord/internal/config"
	"github.com/mcoot/hoyorecord/internal/factory"
)

// standalone marks commands that need neither config nor a backend
const standalone = "standalone"

var (
	cfg    *Config
	active backend
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()
	active = nil

	rootCmd := &cobra.Command{
		Use:   "hoyorecord",
		Short: "Query HoYoLAB game records",
		Long: `hoyorecord signs and sends game record requests to HoYoLAB.

By default it calls the platform directly using the cookies from the
configuration file or HOYORECORD_* environment variables. With --server it
goes through a running hoyorecord API instead.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[standalone] == "true" {
				return nil
			}
			b, err := newBackend(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			active = b
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if active == nil {
				return nil
			}
			return active.Close()
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Config file (env: HOYORECORD_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "hoyorecord API URL; empty calls the platform directly (env: HOYORECORD_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "API bearer token for --server (env: HOYORECORD_API_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVar(&cfg.Refresh, "refresh", cfg.Refresh, "Resolve the account again instead of using the cached record")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Debug logging to stderr")

	// Add subcommands
	rootCmd.AddCommand(newAccountCmd())
	for _, gc := range gameCommands {
		rootCmd.AddCommand(newGameCmd(gc))
	}
	rootCmd.AddCommand(newSignCmd())
	rootCmd.AddCommand(newHashTokenCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

func newBackend(logOut io.Writer) (backend, error) {
	if cfg.Remote() {
		return &remoteBackend{client: NewClient(cfg.ServerURL, cfg.Token)}, nil
	}

	appCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		appCfg.Log.Level = "debug"
	}
	var logger *slog.Logger
	if cfg.Verbose {
		logger = appCfg.Log.NewLogger(logOut)
	}

	app, err := factory.New(factory.Config{App: appCfg, Logger: logger})
	if err != nil {
		return nil, err
	}
	return &localBackend{app: app}, nil
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
