package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vango-dev/reflex/internal/config"
	"github.com/vango-dev/reflex/pkg/vango"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	dir       string
	logLevel  string
	logFormat string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "reflex",
		Short: "Producer bindings for Vango components",
		Long: `reflex binds a producer store to a Vango component tree.

The CLI drives the bundled counter demo:

  • demo      render the counter, click it, print the HTML
  • serve     serve the counter with devtools and Prometheus metrics
  • snapshot  inspect, convert and seed hydration snapshots`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.dir, "dir", "C", ".", "Directory containing reflex.json")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from reflex.json)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: text or json (default from reflex.json)")

	rootCmd.AddCommand(
		demoCmd(flags),
		serveCmd(flags),
		snapshotCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// load reads .env and reflex.json, when present, and applies the flag
// overrides. The returned logger is also installed as the slog default.
func (f *globalFlags) load() (*config.Config, *slog.Logger, error) {
	if err := loadEnv(f.dir); err != nil {
		return nil, nil, err
	}
	cfg, err := config.LoadOrDefault(f.dir)
	if err != nil {
		return nil, nil, err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := newLogger(os.Stderr, cfg.Log)
	slog.SetDefault(logger)
	vango.DebugMode = strings.EqualFold(cfg.Log.Level, "debug")
	return cfg, logger, nil
}

// EnvFileName is read from the project directory before reflex.json. It
// usually carries AWS credentials for S3 snapshots. Variables already set
// in the environment win.
const EnvFileName = ".env"

func loadEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, EnvFileName))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", EnvFileName, err)
}

// newLogger builds a text or JSON handler at the configured level.
func newLogger(w io.Writer, c config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
