package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// options holds the global flags.
type options struct {
	configPath string
	assets     string
	logLevel   string
	dir        string
}

// env is the resolved global state every subcommand runs with.
type env struct {
	cfg    *Config
	logger *slog.Logger
	assets string
	dir    string
}

type envKey struct{}

// NewRootCmd returns the root command for the rosave CLI.
func NewRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "rosave",
		Short: "rosave compresses and archives Robot Odyssey saves",
		Long: "rosave packs Robot Odyssey game saves into version-tagged zstd blobs " +
			"primed with a dictionary built from the game's own files, and keeps " +
			"a local archive of save snapshots.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.resolve(cmd)
			if err != nil {
				cmd.SilenceUsage = true
				return fail(cmd, err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, e))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default $"+ConfigEnv+")")
	pf.StringVar(&opts.assets, "assets", "", "Directory holding the original game files")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	pf.StringVar(&opts.dir, "dir", ".", "Save directory holding the .rosave archive")

	cmd.SetVersionTemplate("rosave {{.Version}}\n")
	cmd.Version = Version

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDictCmd())
	cmd.AddCommand(newPackCmd())
	cmd.AddCommand(newUnpackCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newCheckpointCmd())
	cmd.AddCommand(newLogCmd())
	cmd.AddCommand(newRestoreCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newBenchCmd())

	return cmd
}

// resolve loads the config file and applies flag overrides to it.
func (o *options) resolve(cmd *cobra.Command) (*env, error) {
	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	pick := func(name, flagValue, cfgValue string) string {
		if flags.Changed(name) || cfgValue == "" {
			return flagValue
		}
		return cfgValue
	}

	level, err := parseLogLevel(pick("log-level", o.logLevel, cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))

	return &env{
		cfg:    cfg,
		logger: logger,
		assets: pick("assets", o.assets, cfg.Assets),
		dir:    pick("dir", o.dir, cfg.Archive),
	}, nil
}

// envFrom returns the state set up by the root command. Commands run
// outside of it get defaults and a discarding logger.
func envFrom(cmd *cobra.Command) *env {
	if ctx := cmd.Context(); ctx != nil {
		if e, ok := ctx.Value(envKey{}).(*env); ok {
			return e
		}
	}
	return &env{
		cfg:    &Config{},
		logger: slog.New(slog.DiscardHandler),
		dir:    ".",
	}
}

func loggerFrom(cmd *cobra.Command) *slog.Logger {
	return envFrom(cmd).logger
}

// fail prints err to stderr and returns it wrapped so Run does not print
// it again.
func fail(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err)
	return NewSilentError(err)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "rosave", Version)
			return nil
		},
	}
}

// Run executes the root command and exits with the appropriate code.
func Run() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !IsSilentError(err) {
			fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		}
		os.Exit(1)
	}
}
