// potool — gettext PO catalog manager with AI translation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/openlocalize/potool/catalog"
	"github.com/openlocalize/potool/config"
	"github.com/openlocalize/potool/i18n"
	"github.com/openlocalize/potool/logging"
	"github.com/openlocalize/potool/translator"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	infoTag    = color.New(color.FgBlue).Sprint("[INFO]")
	successTag = color.New(color.FgGreen).Sprint("[OK]")
	warnTag    = color.New(color.FgYellow).Sprint("[WARN]")
	errorTag   = color.New(color.FgRed).Sprint("[ERROR]")
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, infoTag+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, successTag+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, warnTag+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, errorTag+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	flagFile     string
	flagProvider string
	flagModel    string
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "potool",
		Short: "Gettext PO catalog manager with AI translation",
		Long: `potool — gettext PO catalog manager with AI translation.

Run without a subcommand to open an interactive session: inspect
translation statistics, list untranslated entries, translate them with
an AI provider, review unsaved changes, and save with an automatic
backup of the previous file.

Configuration is resolved from built-in defaults, a .potool.yaml project
file, a .env file, and environment variables (API_KEY, FILE_PATH,
LOG_LEVEL, LOG_FILE, PROVIDER, MODEL, and friends), later sources
winning.

Commands:
  stats       Show translation statistics for a catalog
  translate   Translate all untranslated entries and save
  auth        Manage stored provider API keys

AI Providers:
  google   Google AI (Gemini) — API key
  openai   OpenAI or any compatible endpoint (set BASE_URL)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context())
		},
	}

	// Inherited by all subcommands.
	root.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "PO catalog to operate on")
	root.PersistentFlags().StringVar(&flagProvider, "provider", "", "translation provider (google, openai)")
	root.PersistentFlags().StringVar(&flagModel, "model", "", "model identifier")

	root.AddCommand(
		newStatsCmd(),
		newTranslateCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return cfg, err
	}
	if flagFile != "" {
		cfg.FilePath = flagFile
	}
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// setupLogging installs the diagnostic logger per the configuration and
// returns a close function for the log file.
func setupLogging(cfg config.Config) func() error {
	_, closeFn, err := logging.Setup(logging.ParseLevel(cfg.LogLevel), cfg.LogFile)
	if err != nil {
		logWarning("%v", err)
		return func() error { return nil }
	}
	return closeFn
}

// newClient builds the translation client selected by the configuration.
func newClient(cfg config.Config) (translator.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key: set %s or run 'potool auth set %s'", config.EnvAPIKey, cfg.Provider)
	}
	return translator.New(translator.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout,
	})
}

// targetLang resolves the translation target: explicit config first, then
// the catalog's Language header.
func targetLang(cfg config.Config, cat *catalog.Catalog) (string, error) {
	if cfg.TargetLang != "" {
		return cfg.TargetLang, nil
	}
	if lang := cat.Language(); lang != "" {
		return lang, nil
	}
	return "", fmt.Errorf("cannot determine target language: %s has no Language header, set %s", cat.Path, config.EnvTargetLang)
}

// ---------------------------------------------------------------------------
// Interactive session (default command)
// ---------------------------------------------------------------------------

func runInteractive(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	closeLog := setupLogging(cfg)
	defer closeLog()

	sess, err := NewSession(cfg, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	return sess.Run(ctx)
}

// ---------------------------------------------------------------------------
// stats (read-only: translation statistics for one catalog)
// ---------------------------------------------------------------------------

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show translation statistics for a catalog",
		Long: `Show entry counts and translation progress for a PO catalog.

Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.FilePath == "" {
				return fmt.Errorf("no catalog: pass --file or set %s", config.EnvFilePath)
			}

			cat, err := catalog.Load(cfg.FilePath)
			if err != nil {
				return err
			}
			showStatsTable(cat)
			return nil
		},
	}
}

func showStatsTable(cat *catalog.Catalog) {
	s := cat.Stats()

	fmt.Fprintf(os.Stderr, "%s\n", color.New(color.FgBlue).Sprint("Translation Statistics"))
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 48))
	fmt.Fprintf(os.Stderr, "File:         %s\n", cat.Path)
	if lang := cat.Language(); lang != "" {
		fmt.Fprintf(os.Stderr, "Language:     %s (%s)\n", lang, catalog.LangNameNative(lang))
	}
	fmt.Fprintf(os.Stderr, "Total:        %d\n", s.Total)
	fmt.Fprintf(os.Stderr, "Translated:   %d\n", s.Translated)
	fmt.Fprintf(os.Stderr, "Fuzzy:        %d\n", s.Fuzzy)
	fmt.Fprintf(os.Stderr, "Untranslated: %d\n", s.Pending)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 48))
	fmt.Fprintf(os.Stderr, "Progress:     %s\n", progressBar(s.Percent(), 24))
}

// progressBar renders a fixed-width colored bar for a percentage.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := percent * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var c *color.Color
	switch {
	case percent >= 90:
		c = color.New(color.FgGreen)
	case percent >= 40:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgRed)
	}
	return fmt.Sprintf("%s %3d%%", c.Sprint(bar), percent)
}

// ---------------------------------------------------------------------------
// translate (non-interactive: translate everything pending and save)
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var limit int
	var noBackup bool

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate untranslated entries and save",
		Long: `Translate every untranslated entry in the catalog using the
configured AI provider, then save. The previous file is backed up first
unless --no-backup is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			closeLog := setupLogging(cfg)
			defer closeLog()

			if cfg.FilePath == "" {
				return fmt.Errorf("no catalog: pass --file or set %s", config.EnvFilePath)
			}
			return runTranslate(cmd.Context(), cfg, limit, !noBackup)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "translate at most N entries (0 = all)")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "overwrite without writing a backup")
	return cmd
}

func runTranslate(ctx context.Context, cfg config.Config, limit int, backup bool) error {
	cat, err := catalog.Load(cfg.FilePath)
	if err != nil {
		return err
	}
	cat.BackupDir = cfg.BackupDir

	pending := cat.Pending()
	if len(pending) == 0 {
		logInfo("%s", i18n.T("No untranslated entries."))
		return nil
	}
	if limit > 0 && limit < len(pending) {
		pending = pending[:limit]
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	target, err := targetLang(cfg, cat)
	if err != nil {
		return err
	}

	done, err := translateEntries(ctx, client, cat, pending, cfg.SourceLang, target)
	if done > 0 {
		logSuccess(i18n.N("Translated %d entry", "Translated %d entries", done), done)
	}
	if err != nil {
		return err
	}

	start := time.Now()
	if err := cat.Save("", backup); err != nil {
		return err
	}
	slog.Info("catalog saved", "path", cat.Path, "entries", done, "took", time.Since(start))
	if cat.LastBackup != "" {
		logInfo(i18n.T("Backup written to %s"), cat.LastBackup)
	}
	logSuccess(i18n.T("Saved %s"), cat.Path)
	return nil
}

// ---------------------------------------------------------------------------
// auth (stored API keys)
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored provider API keys",
		Long: `Manage API keys in the credential store
(~/.local/share/potool/auth.json, created with 0600 permissions).
A key from the API_KEY environment variable takes precedence over the store.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set PROVIDER KEY",
			Short: "Store an API key for a provider",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.StoreAPIKey(args[0], args[1]); err != nil {
					return err
				}
				logSuccess("Stored API key for %s", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove PROVIDER",
			Short: "Remove a stored API key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.RemoveAPIKey(args[0]); err != nil {
					return err
				}
				logSuccess("Removed API key for %s", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List providers with stored keys",
			RunE: func(cmd *cobra.Command, args []string) error {
				providers := config.StoredProviders()
				if len(providers) == 0 {
					logInfo("No stored credentials")
					return nil
				}
				for _, p := range providers {
					fmt.Println(p)
				}
				return nil
			},
		},
	)

	return cmd
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("potool version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}
