package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paydown-dev/paydown/internal/buildinfo"
	"github.com/paydown-dev/paydown/internal/config"
	"github.com/paydown-dev/paydown/internal/gitops"
	"github.com/paydown-dev/paydown/internal/planning"
)

// app carries process-level settings shared by every subcommand.
type app struct {
	v   *viper.Viper
	log *slog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), log: slog.Default()}

	rootCmd := &cobra.Command{
		Use:     "paydown",
		Short:   "Plan debt payments from your household balances",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("repo", ".", "ledger directory")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")
	_ = a.v.BindPFlag("repo", pf.Lookup("repo"))
	_ = a.v.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", pf.Lookup("log-format"))

	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newAccountCommand(a))
	rootCmd.AddCommand(newBalanceCommand(a))
	rootCmd.AddCommand(newImportCommand(a))
	rootCmd.AddCommand(newPlanCommand(a))
	rootCmd.AddCommand(newMetricsCommand(a))
	rootCmd.AddCommand(newNetWorthCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// initConfig loads .env, binds PAYDOWN_* variables and sets up logging.
func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	a.v.SetEnvPrefix("PAYDOWN")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	log, err := newLogger(cmd.ErrOrStderr(), a.v.GetString("logging.level"), a.v.GetString("logging.format"))
	if err != nil {
		return err
	}
	a.log = log
	slog.SetDefault(log)
	return nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var slogLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: slogLevel}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "console":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	return slog.New(handler), nil
}

func (a *app) repoRoot() (string, error) {
	root, err := filepath.Abs(a.v.GetString("repo"))
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return root, nil
}

func (a *app) open() (*planning.Service, error) {
	root, err := a.repoRoot()
	if err != nil {
		return nil, err
	}
	return planning.Open(root, a.log)
}

// commit records ledger changes when auto-commit is on and the ledger is a git repo.
func (a *app) commit(root string, cfg *config.Config, message string) error {
	if !cfg.Git.AutoCommit || !gitops.IsRepo(root) {
		return nil
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(root, message, author)
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("committing ledger: %w", err)
	}
	a.log.Debug("committed ledger change", "hash", hash, "message", message)
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "paydown "+buildinfo.String())
			return err
		},
	}
}
