// Package main provides the CLI entrypoint for ontarget.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/ontarget/internal/coach"
	"github.com/verte-zerg/ontarget/internal/config"
	"github.com/verte-zerg/ontarget/internal/export"
	"github.com/verte-zerg/ontarget/internal/geo"
	"github.com/verte-zerg/ontarget/internal/journal"
	"github.com/verte-zerg/ontarget/internal/logging"
	"github.com/verte-zerg/ontarget/internal/model"
	"github.com/verte-zerg/ontarget/internal/stats"
	"github.com/verte-zerg/ontarget/internal/statsui"
	"github.com/verte-zerg/ontarget/internal/store"
	"github.com/verte-zerg/ontarget/internal/tui"
)

const (
	defaultCurveWindow = 5
	defaultLogLevel    = "info"
)

var (
	verbose     bool
	dbPath      string
	logLevel    string
	exportDir   string
	coachModel  string
	coachTemp   float64
	coachTokens int
	coachWait   time.Duration
	locate      bool

	sessionsSince    string
	sessionsLast     int
	sessionsLocation string
	sessionsWindow   int
	sessionsPlain    bool

	exportStdout bool

	settingsSet []string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ontarget",
		Short:         "Soccer shooting and heading practice journal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runJournalCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&dbPath, "db", config.DefaultDBPath(), "path to the journal database")
	pf.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&exportDir, "export-dir", config.DefaultExportDir(), "directory for CSV exports")
	pf.StringVar(&coachModel, "model", coach.DefaultModel, "Gemini model for coach feedback")
	pf.Float64Var(&coachTemp, "temperature", coach.DefaultTemperature, "coach sampling temperature")
	pf.IntVar(&coachTokens, "max-tokens", coach.DefaultMaxOutputTokens, "coach max output tokens")
	pf.DurationVar(&coachWait, "timeout", coach.DefaultTimeout, "coach request timeout")
	rootCmd.Flags().BoolVar(&locate, "locate", true, "look up an approximate pitch location for new sessions")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newCoachCmd())
	rootCmd.AddCommand(newSettingsCmd())

	return rootCmd
}

// app holds the services shared by every command.
type app struct {
	cfg      config.FileConfig
	log      *zap.Logger
	store    *store.Store
	sessions *journal.Sessions
	settings *journal.Settings
}

func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "export-dir", &exportDir, fileCfg.Export.Dir)
	applyStringConfig(cmd, "model", &coachModel, fileCfg.Coach.Model)
	applyFloatConfig(cmd, "temperature", &coachTemp, fileCfg.Coach.Temperature)
	applyIntConfig(cmd, "max-tokens", &coachTokens, fileCfg.Coach.MaxTokens)
	if fileCfg.Coach.Timeout != nil {
		wait := fileCfg.Coach.Timeout.Duration
		applyDurationConfig(cmd, "timeout", &coachWait, &wait)
	}
	applyBoolConfig(cmd, "locate", &locate, fileCfg.Location.Lookup)

	logFile := config.DefaultLogPath()
	if fileCfg.Log.File != nil {
		logFile = *fileCfg.Log.File
	}
	log, err := logging.New(logging.Params{File: logFile, Level: logLevel, Verbose: verbose})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	st, err := store.Open(dbPath, store.WithLogger(log))
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	a := &app{
		cfg:      fileCfg,
		log:      log,
		store:    st,
		sessions: journal.NewSessions(st, log),
		settings: journal.NewSettings(st, log),
	}
	// Load failures fall back to empty history and default settings.
	if err := a.sessions.Load(ctx); err != nil {
		logErrf("%v\n", err)
	}
	if err := a.settings.Load(ctx); err != nil {
		logErrf("%v\n", err)
	}
	log.Debug("journal opened", zap.String("db", dbPath), zap.Int("sessions", a.sessions.Len()))
	return a, nil
}

func (a *app) Close() {
	if cerr := a.store.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
	_ = a.log.Sync()
}

func (a *app) newCoach(ctx context.Context) *coach.Coach {
	opts := []coach.Option{coach.WithLogger(a.log), coach.WithTimeout(coachWait)}
	key := a.cfg.Coach.ResolveAPIKey()
	if key == "" {
		a.log.Info("no Gemini API key configured, coach uses fallback feedback")
		return coach.New(nil, opts...)
	}
	gen, err := coach.NewGemini(ctx, coach.GeminiConfig{
		APIKey:          key,
		Model:           coachModel,
		Temperature:     float32(coachTemp),
		MaxOutputTokens: int32(coachTokens),
	})
	if err != nil {
		a.log.Warn("failed to create Gemini client, coach uses fallback feedback", zap.Error(err))
		return coach.New(nil, opts...)
	}
	a.log.Debug("coach uses Gemini", zap.String("model", gen.Model()))
	return coach.New(gen, opts...)
}

func (a *app) newLocator() *geo.Locator {
	token := ""
	if a.cfg.Location.IPInfoToken != nil {
		token = *a.cfg.Location.IPInfoToken
	}
	return geo.New(locate, token, geo.WithLogger(a.log))
}

func runJournalCmd(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	m := tui.NewModel(ctx, tui.Deps{
		Sessions:  a.sessions,
		Settings:  a.settings,
		Analyzer:  coach.NewAnalyzer(a.newCoach(ctx)),
		Locator:   a.newLocator(),
		ExportDir: exportDir,
		Log:       a.log,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
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
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o600); err != nil {
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

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Browse practice history",
		Args:  cobra.NoArgs,
		RunE:  runSessionsCmd,
	}
	cmd.Flags().StringVar(&sessionsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&sessionsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().StringVar(&sessionsLocation, "location", "", "location filter (substring)")
	cmd.Flags().IntVar(&sessionsWindow, "window", defaultCurveWindow, "trend moving average window")
	cmd.Flags().BoolVar(&sessionsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runSessionsCmd(cmd *cobra.Command, _ []string) error {
	statsCfg, err := statsui.ParseFilters(sessionsLocation, sessionsSince, fmt.Sprint(sessionsLast), fmt.Sprint(sessionsWindow))
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if !sessionsPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		m := statsui.NewModel(a.store, statsCfg, a.settings.Get().ThemeColor)
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(ctx, a.store, statsCfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	return writeReport(cmd.OutOrStdout(), report, stats.TerminalWidth())
}

func writeReport(w io.Writer, report stats.Report, width int) error {
	if err := stats.RenderSessionTable(w, report.Sessions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := stats.RenderSummary(w, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderDrillTable(w, report.DrillBreakdown()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderTrend(w, report, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <session-id|latest>",
		Short: "Export a session as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCmd,
	}
	cmd.Flags().BoolVar(&exportStdout, "stdout", false, "write CSV to stdout instead of a file")
	return cmd
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(context.Background(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := resolveSession(a.sessions.List(), args[0])
	if err != nil {
		return err
	}
	if exportStdout {
		if err := export.WriteCSV(cmd.OutOrStdout(), session); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	path, err := export.WriteFile(exportDir, a.settings.Get().AppTitle, session)
	if err != nil {
		return err
	}
	a.log.Info("session exported", zap.String("session", session.ID), zap.String("path", path))
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCoachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coach <session-id|latest>",
		Short: "Ask the coach for feedback on a session",
		Args:  cobra.ExactArgs(1),
		RunE:  runCoachCmd,
	}
}

func runCoachCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := resolveSession(a.sessions.List(), args[0])
	if err != nil {
		return err
	}
	text := a.newCoach(ctx).Feedback(ctx, session, a.settings.Get())
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change user settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsCmd,
	}
	cmd.Flags().StringArrayVar(&settingsSet, "set", nil, "set key=value ("+strings.Join(settingKeys, ", ")+")")
	return cmd
}

func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, assignment := range settingsSet {
		if err := applySetting(ctx, a.settings, assignment); err != nil {
			return err
		}
	}
	return printSettings(cmd.OutOrStdout(), a.settings.Get(), time.Now())
}

var errNoSessions = errors.New("no sessions recorded yet")

// resolveSession finds a session by "latest", full ID or unique ID prefix.
func resolveSession(sessions []model.Session, ref string) (model.Session, error) {
	ref = strings.TrimSpace(ref)
	if len(sessions) == 0 {
		return model.Session{}, errNoSessions
	}
	if ref == "latest" {
		return sessions[0], nil
	}
	var matches []model.Session
	for _, s := range sessions {
		if s.ID == ref {
			return s, nil
		}
		if ref != "" && strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return model.Session{}, fmt.Errorf("session %q not found", ref)
	case 1:
		return matches[0], nil
	default:
		return model.Session{}, fmt.Errorf("session prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target, value *time.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# ontarget configuration
# Uncomment a value to enable it. CLI flags override config values.

[coach]
# model = %q   # Gemini model
# temperature = %.1f             # Sampling temperature
# max-tokens = %d                # Max output tokens
# timeout = %q                  # Request timeout
# api-key = ""                    # GEMINI_API_KEY or API_KEY in the environment win

[location]
# lookup = true                   # Look up an approximate location for new sessions
# ipinfo-token = ""               # Optional ipinfo.io token

[log]
# level = %q                    # debug, info, warn, error
# file = %q

[export]
# dir = %q
`,
		coach.DefaultModel,
		coach.DefaultTemperature,
		coach.DefaultMaxOutputTokens,
		coach.DefaultTimeout.String(),
		defaultLogLevel,
		config.DefaultLogPath(),
		config.DefaultExportDir(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
