// Package main provides the CLI entrypoint for cubetime.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/cubetime/internal/app"
	"github.com/verte-zerg/cubetime/internal/config"
	"github.com/verte-zerg/cubetime/internal/logging"
	"github.com/verte-zerg/cubetime/internal/model"
	"github.com/verte-zerg/cubetime/internal/scramble"
	"github.com/verte-zerg/cubetime/internal/stats"
	"github.com/verte-zerg/cubetime/internal/statsui"
	"github.com/verte-zerg/cubetime/internal/store"
	"github.com/verte-zerg/cubetime/internal/tui"
)

const (
	defaultScrambleLength = scramble.DefaultLength
	defaultHoldMs         = 2000
	defaultReleaseMs      = 700
	defaultTickMs         = 10
	defaultRecent         = 5
	defaultLogLevel       = "info"
)

const (
	formatTUI  = "tui"
	formatText = "text"
	formatProm = "prom"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	timerScrambleLength int
	timerHoldMs         int
	timerReleaseMs      int
	timerTickMs         int
	timerRecent         int

	storageBackend string
	storagePath    string
	logLevel       string
	logPath        string

	statsFormat string

	scrambleCount  int
	scrambleLength int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cubetime",
		Short:         "Speedcubing stopwatch with scrambles and averages",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTimerCmd,
	}

	rootCmd.Flags().IntVar(&timerScrambleLength, "scramble-length", defaultScrambleLength, "moves per scramble")
	rootCmd.Flags().IntVar(&timerHoldMs, "hold-ms", defaultHoldMs, "hold time before release starts the timer")
	rootCmd.Flags().IntVar(&timerReleaseMs, "release-timeout-ms", defaultReleaseMs, "silence after the last key repeat treated as release")
	rootCmd.Flags().IntVar(&timerTickMs, "tick-ms", defaultTickMs, "display refresh interval while running")
	rootCmd.Flags().IntVar(&timerRecent, "recent", defaultRecent, "number of recent solves shown")

	rootCmd.PersistentFlags().StringVar(&storageBackend, "backend", store.BackendSQLite, "storage backend (sqlite or file)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "db", "", "storage path (sqlite file or file-backend directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-file", "", "log file used by the interactive views")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newScrambleCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runTimerCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	cfg := timerConfig(cmd.Flags().Changed, fileCfg.Timer)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	log, closeLog, err := openFileLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	st, kv, err := openState(context.Background(), cfg.ScrambleLength, log)
	if err != nil {
		return err
	}
	defer closeStore(kv, log)

	m := tui.NewModel(cfg, st, log)
	program := tea.NewProgram(m, tea.WithAltScreen())

	stopWatch := watchTimerConfig(cmd.Flags().Changed, log, program.Send)
	// Runs before closeLog so the watcher never logs to a closed file.
	defer stopWatch()

	log.Info().Int("solves", st.Len()).Dur("hold", cfg.Hold).Msg("timer started")
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// watchTimerConfig forwards valid [timer] changes to send until the returned
// stop func is called. stop blocks until the watcher has exited.
func watchTimerConfig(changed func(string) bool, log zerolog.Logger, send func(tea.Msg)) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := config.Watch(ctx, config.DefaultConfigPath(), log, func(fc config.FileConfig) {
			next := timerConfig(changed, fc.Timer)
			if err := validateConfig(next); err != nil {
				log.Warn().Err(err).Msg("ignoring invalid timer settings")
				return
			}
			send(tui.ConfigMsg{Config: next})
		})
		if err != nil {
			log.Error().Err(err).Msg("config watcher stopped")
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

// timerConfig overlays file values on the flag values. A flag given on the
// command line always wins.
func timerConfig(changed func(string) bool, fc config.TimerConfig) model.Config {
	scrambleLen := timerScrambleLength
	hold := timerHoldMs
	release := timerReleaseMs
	tick := timerTickMs
	recent := timerRecent
	applyIntConfig(changed, "scramble-length", &scrambleLen, fc.ScrambleLength)
	applyIntConfig(changed, "hold-ms", &hold, fc.HoldMs)
	applyIntConfig(changed, "release-timeout-ms", &release, fc.ReleaseTimeoutMs)
	applyIntConfig(changed, "tick-ms", &tick, fc.TickMs)
	applyIntConfig(changed, "recent", &recent, fc.Recent)
	return model.Config{
		ScrambleLength: scrambleLen,
		Hold:           time.Duration(hold) * time.Millisecond,
		ReleaseTimeout: time.Duration(release) * time.Millisecond,
		Tick:           time.Duration(tick) * time.Millisecond,
		Recent:         recent,
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show averages and solve-time curves",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsFormat, "format", formatTUI, "output format (tui, text, prom)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(strings.TrimSpace(statsFormat))
	if format != formatTUI && format != formatText && format != formatProm {
		return fmt.Errorf("--format must be one of %s, %s, %s", formatTUI, formatText, formatProm)
	}
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}

	var log zerolog.Logger
	if format == formatTUI {
		fileLog, closeLog, err := openFileLogger()
		if err != nil {
			return err
		}
		defer closeLog()
		log = fileLog
	} else {
		consoleLog, err := consoleLogger()
		if err != nil {
			return err
		}
		log = consoleLog
	}

	st, kv, err := openState(context.Background(), 0, log)
	if err != nil {
		return err
	}
	defer closeStore(kv, log)

	out := cmd.OutOrStdout()
	switch format {
	case formatText:
		return writeTextStats(out, st.Solves())
	case formatProm:
		if err := stats.WritePrometheus(out, st.Solves()); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		return nil
	}

	m := statsui.NewModel(st, log)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func writeTextStats(w io.Writer, solves []model.Solve) error {
	if err := stats.RenderSummary(w, solves); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if len(solves) > 1 {
		if err := stats.RenderCurves(w, solves); err != nil {
			return fmt.Errorf("failed to write curves: %w", err)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if len(solves) == 0 {
		return nil
	}
	if err := stats.RenderSolveTable(w, solves); err != nil {
		return fmt.Errorf("failed to write solves: %w", err)
	}
	return nil
}

func newScrambleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scramble",
		Short: "Print random scrambles",
		Args:  cobra.NoArgs,
		RunE:  runScrambleCmd,
	}
	cmd.Flags().IntVarP(&scrambleCount, "count", "n", 1, "number of scrambles")
	cmd.Flags().IntVar(&scrambleLength, "length", defaultScrambleLength, "moves per scramble")
	return cmd
}

func runScrambleCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd.Flags().Changed, "length", &scrambleLength, fileCfg.Timer.ScrambleLength)
	if scrambleCount <= 0 {
		return fmt.Errorf("--count must be > 0")
	}
	if scrambleLength <= 0 {
		return fmt.Errorf("--length must be > 0")
	}
	gen := scramble.New()
	for i := 0; i < scrambleCount; i++ {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), gen.Text(scrambleLength)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// loadFileConfig reads the config file and overlays its storage and log
// settings on the persistent flags.
func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	changed := cmd.Flags().Changed
	applyStringConfig(changed, "backend", &storageBackend, fileCfg.Storage.Backend)
	applyStringConfig(changed, "db", &storagePath, fileCfg.Storage.Path)
	applyStringConfig(changed, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(changed, "log-file", &logPath, fileCfg.Log.Path)
	return fileCfg, nil
}

func storageConfig() model.StorageConfig {
	backend := strings.ToLower(strings.TrimSpace(storageBackend))
	if backend == "" {
		backend = store.BackendSQLite
	}
	path := strings.TrimSpace(storagePath)
	if path == "" {
		path = store.DefaultPath(backend, config.DefaultDataDir())
	}
	return model.StorageConfig{Backend: backend, Path: path}
}

func openState(ctx context.Context, scrambleLen int, log zerolog.Logger) (*app.State, store.KV, error) {
	sc := storageConfig()
	if sc.Backend == store.BackendSQLite {
		if err := os.MkdirAll(filepath.Dir(sc.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	kv, err := store.Open(sc.Backend, sc.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", sc.Backend, err)
	}
	log.Debug().Str("backend", sc.Backend).Str("path", sc.Path).Msg("store opened")
	return app.Load(ctx, kv, scramble.New(), scrambleLen, log), kv, nil
}

func closeStore(kv store.KV, log zerolog.Logger) {
	if cerr := kv.Close(); cerr != nil {
		log.Error().Err(cerr).Msg("failed to close store")
	}
}

func openFileLogger() (zerolog.Logger, func(), error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	path := strings.TrimSpace(logPath)
	if path == "" {
		path = config.DefaultLogPath()
	}
	log, closer, err := logging.NewFile(path, level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return log, func() {
		if cerr := closer.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}, nil
}

func consoleLogger() (zerolog.Logger, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	return logging.NewConsole(level), nil
}

func applyStringConfig(changed func(string) bool, name string, target, value *string) {
	if value == nil {
		return
	}
	if changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(changed func(string) bool, name string, target, value *int) {
	if value == nil {
		return
	}
	if changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# cubetime configuration
# Uncomment a value to enable it. CLI flags override config values.
# Changes to [timer] apply to a running timer without restarting.

[timer]
# scramble-length = %d       # Moves per scramble
# hold-ms = %d             # Hold time before release starts the timer
# release-timeout-ms = %d   # Silence after the last key repeat treated as release
# tick-ms = %d               # Display refresh interval while running
# recent = %d                # Number of recent solves shown

[storage]
# backend = %q         # sqlite or file
# path = ""                 # Database file or directory (default under $XDG_DATA_HOME/cubetime)

[log]
# level = %q             # debug, info, warn, error, off
# path = ""                 # Log file for interactive views (default under $XDG_STATE_HOME/cubetime)
`,
		defaultScrambleLength,
		defaultHoldMs,
		defaultReleaseMs,
		defaultTickMs,
		defaultRecent,
		store.BackendSQLite,
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.ScrambleLength <= 0 {
		return fmt.Errorf("--scramble-length must be > 0")
	}
	if cfg.Hold <= 0 {
		return fmt.Errorf("--hold-ms must be > 0")
	}
	if cfg.ReleaseTimeout <= 0 {
		return fmt.Errorf("--release-timeout-ms must be > 0")
	}
	if cfg.Tick <= 0 {
		return fmt.Errorf("--tick-ms must be > 0")
	}
	if cfg.Recent <= 0 {
		return fmt.Errorf("--recent must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
