// Package cli implements the docflow command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/config"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/container"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/pkg/utils"
)

// DefaultConfigPath is used when --config is not given and the file exists
const DefaultConfigPath = "configs/config.yaml"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	EnvFile    string
	Verbose    bool
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the docflow CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "docflow",
		Short: "Document workflow engine",
		Long: `docflow reads invoices and tickets, checks invoice arithmetic, reconciles
invoices with the record store, opens tickets on discrepancies and drafts
notification emails.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default "+DefaultConfigPath+" when present)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before the config")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewTicketsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewChatCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// configPath resolves --config, falling back to the default file
func (o *RootOptions) configPath() string {
	if o.ConfigPath != "" {
		return o.ConfigPath
	}
	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return DefaultConfigPath
	}
	return ""
}

// loadConfig reads the env file and the config. Validation is skipped
// when validate is false.
func (o *RootOptions) loadConfig(validate bool) (*config.Config, error) {
	if o.EnvFile != "" {
		if err := config.LoadEnvFile(o.EnvFile); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load env file", err)
		}
	}

	load := config.Read
	if validate {
		load = config.Load
	}
	cfg, err := load(o.configPath())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	return cfg, nil
}

// newLogger builds the zap logger. CLI logs go to stderr so stdout only
// carries command output.
func (o *RootOptions) newLogger(cfg *config.Config) (*zap.Logger, error) {
	settings := cfg.LoggerSettings()
	if settings.OutputPath == "" || settings.OutputPath == "stdout" {
		settings.OutputPath = "stderr"
	}
	settings.Format = "console"
	if o.Verbose {
		settings.Level = "debug"
	} else if settings.Level == "" || settings.Level == "info" {
		settings.Level = "warn"
	}

	logger, err := utils.NewLogger(settings)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to initialize logger", err)
	}
	return logger, nil
}

// startContainer loads the full configuration and starts every component
// except the background workers.
func (o *RootOptions) startContainer(ctx context.Context) (*container.Container, error) {
	cfg, err := o.loadConfig(true)
	if err != nil {
		return nil, err
	}
	logger, err := o.newLogger(cfg)
	if err != nil {
		return nil, err
	}

	containerCfg := cfg.ToContainerConfig()
	containerCfg.Inbox.Enabled = false

	c, err := container.NewContainer(containerCfg, logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if err := c.Start(ctx); err != nil {
		c.Close()
		return nil, WrapExitError(ExitCommandError, "failed to start", err)
	}
	return c, nil
}

// store is the record store without the model backed components
type store struct {
	db     *container.DatabaseBundle
	repos  *container.RepositoryBundle
	logger *zap.Logger
}

func (s *store) Close() error {
	return s.db.SqlDB.Close()
}

// openStore opens the record store only. It needs no API credentials.
func (o *RootOptions) openStore() (*store, error) {
	cfg, err := o.loadConfig(false)
	if err != nil {
		return nil, err
	}
	logger, err := o.newLogger(cfg)
	if err != nil {
		return nil, err
	}

	containerCfg := cfg.ToContainerConfig()
	db, err := container.ProvideDatabase(&containerCfg.Database, logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	repos, err := container.ProvideRepositories(db.SqlDB, logger)
	if err != nil {
		db.SqlDB.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return &store{db: db, repos: repos, logger: logger}, nil
}

// formatter returns the output formatter of cmd
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	cmd := NewRootCommand()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return ExitCommandError
	}
	return ExitSuccess
}
