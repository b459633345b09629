// Package main provides the CLI entrypoint for memotype.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/keiyara/memotype/internal/config"
	"github.com/keiyara/memotype/internal/model"
	"github.com/keiyara/memotype/internal/progress"
	"github.com/keiyara/memotype/internal/schedule"
	"github.com/keiyara/memotype/internal/session"
	"github.com/keiyara/memotype/internal/stats"
	"github.com/keiyara/memotype/internal/store"
	"github.com/keiyara/memotype/internal/tui"
)

const (
	defaultExploration = 0.10
	defaultMastered    = 0.8
	defaultCorrect     = 0.8
	defaultCurveWindow = 10
)

var (
	practiceProgress    string
	practiceLimit       int
	practiceSeed        int64
	practiceExploration float64
	practiceDueOnly     bool

	sequentialShuffle bool

	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int

	importProgress string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "memotype",
		Short:         "Adaptive typing practice for study material",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAdaptiveCmd,
	}

	rootCmd.PersistentFlags().StringVar(&practiceProgress, "progress", "", "progress file path (default: XDG data dir)")
	rootCmd.Flags().IntVar(&practiceLimit, "limit", 0, "max items per session (0 = no limit)")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "scheduler random seed (0 = time-based)")
	rootCmd.Flags().Float64Var(&practiceExploration, "exploration", defaultExploration, "chance of presenting a random item (0-1)")
	rootCmd.Flags().BoolVar(&practiceDueOnly, "due-only", false, "restrict the pool to due items")

	rootCmd.AddCommand(newSequentialCmd())
	rootCmd.AddCommand(newDueCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runAdaptiveCmd(cmd *cobra.Command, _ []string) error {
	return runPractice(cmd, false)
}

func newSequentialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sequential",
		Short: "Practice items in collection order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPractice(cmd, true)
		},
	}
	cmd.Flags().IntVar(&practiceLimit, "limit", 0, "max items per session (0 = no limit)")
	cmd.Flags().Int64Var(&practiceSeed, "seed", 0, "shuffle random seed (0 = time-based)")
	cmd.Flags().BoolVar(&sequentialShuffle, "shuffle", false, "shuffle item order before starting")
	return cmd
}

func runPractice(cmd *cobra.Command, sequential bool) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "exploration", &practiceExploration, fileCfg.Scheduler.Exploration)
	applyIntConfig(cmd, "limit", &practiceLimit, fileCfg.Session.Limit)

	progressPath := resolveProgressPath()
	items, history, err := loadProgress(progressPath)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no study items in %s; add some with: memotype import <file>", progressPath)
	}

	sched, err := schedule.NewScheduler(schedule.SchedulerConfig{
		ExplorationRate:   practiceExploration,
		MasteredThreshold: derefFloat(fileCfg.Scheduler.MasteredThreshold, defaultMastered),
		Coefficients:      coefficientsFromConfig(fileCfg.Scheduler.Coefficients),
		Seed:              practiceSeed,
	})
	if err != nil {
		return err
	}
	sched.Mastery().SetHistory(history)

	pool := items
	if practiceDueOnly && !sequential {
		pool = sched.DueItems(items)
		if len(pool) == 0 {
			fmt.Println("Nothing is due. Run without --due-only to practice anyway.")
			return nil
		}
	}
	if practiceLimit > 0 && len(pool) > practiceLimit {
		pool = pool[:practiceLimit]
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	correct := derefFloat(fileCfg.Session.CorrectThreshold, defaultCorrect)
	tracker := session.NewTracker(correct)

	var seq *session.Sequential
	if sequential {
		seq = session.NewSequential(pool)
		if sequentialShuffle {
			seq.Start()
			seq.ShuffleRemaining(newShuffleRand(practiceSeed))
		}
	}

	uiModel := tui.NewModel(pool, sched, seq, tracker, st)
	program := tea.NewProgram(uiModel, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if err := progress.Save(progressPath, items, sched.Mastery().History()); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}

	if m, ok := final.(*tui.Model); ok && m.Finished() {
		printSummary(m.Summary(), sequential)
	}
	return nil
}

func newDueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List items due for review",
		Args:  cobra.NoArgs,
		RunE:  runDueCmd,
	}
}

func runDueCmd(cmd *cobra.Command, _ []string) error {
	progressPath := resolveProgressPath()
	items, _, err := loadProgress(progressPath)
	if err != nil {
		return err
	}

	sched, err := schedule.NewScheduler(schedule.SchedulerConfig{})
	if err != nil {
		return err
	}
	due := sched.DueItems(items)
	if len(due) == 0 {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Nothing due."); err != nil {
			return err
		}
		return nil
	}
	for _, item := range due {
		label := "never studied"
		if item.LastStudied != nil {
			label = fmt.Sprintf("last studied %s", item.LastStudied.Format("2006-01-02"))
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-40s mastery %.2f  %s\n", clipPrompt(item.Prompt), item.Mastery, label); err != nil {
			return err
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show learning and session stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "filter by practice mode (adaptive, sequential)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	progressPath := resolveProgressPath()
	items, _, err := loadProgress(progressPath)
	if err != nil {
		return err
	}

	sched, err := schedule.NewScheduler(schedule.SchedulerConfig{})
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(cmd.Context(), st, model.ReportConfig{
		Mode:        statsMode,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	})
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	out := cmd.OutOrStdout()
	learning := sched.LearningStats(items)
	if err := stats.RenderLearningStats(out, learning, len(sched.DueItems(items))); err != nil {
		return err
	}
	if err := stats.RenderSummary(out, report.Sessions); err != nil {
		return err
	}
	byID := make(map[string]*model.StudyItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	if err := stats.RenderItemTable(out, report.ItemAggs, byID); err != nil {
		return err
	}
	return stats.RenderCurves(out, report.Sessions, statsCurveWindow)
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge study items from a JSON file into the progress file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	incoming, _, warnings, err := progress.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to parse import file: %w", err)
	}
	for _, warning := range warnings {
		logErrf("warning: %s\n", warning)
	}
	if len(incoming) == 0 {
		return fmt.Errorf("no items found in %s", args[0])
	}

	progressPath := resolveProgressPath()
	existing, history, err := loadProgressOrEmpty(progressPath)
	if err != nil {
		return err
	}

	byID := make(map[string]bool, len(existing))
	for _, item := range existing {
		byID[item.ID] = true
	}
	added := 0
	for _, item := range incoming {
		if byID[item.ID] {
			continue
		}
		existing = append(existing, item)
		added++
	}

	if err := progress.Save(progressPath, existing, history); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new items (%d total) into %s\n", added, len(existing), progressPath); err != nil {
		return err
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

func resolveProgressPath() string {
	if practiceProgress != "" {
		return practiceProgress
	}
	return config.DefaultProgressPath()
}

func loadProgress(path string) ([]*model.StudyItem, []model.HistoryEntry, error) {
	items, history, warnings, err := progress.Load(path)
	if err != nil {
		if os.IsNotExist(unwrapAll(err)) {
			return nil, nil, fmt.Errorf("no progress file at %s; add items with: memotype import <file>", path)
		}
		return nil, nil, err
	}
	for _, warning := range warnings {
		logErrf("warning: %s\n", warning)
	}
	return items, history, nil
}

// loadProgressOrEmpty degrades a missing file to an empty collection,
// which is the right call for import where the file may not exist yet.
func loadProgressOrEmpty(path string) ([]*model.StudyItem, []model.HistoryEntry, error) {
	items, history, warnings, err := progress.Load(path)
	if err != nil {
		if os.IsNotExist(unwrapAll(err)) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	for _, warning := range warnings {
		logErrf("warning: %s\n", warning)
	}
	return items, history, nil
}

func unwrapAll(err error) error {
	for {
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		err = u.Unwrap()
	}
}

func printSummary(summary model.SessionSummary, sequential bool) {
	fmt.Println("Session complete")
	fmt.Printf("Duration: %.1f min\n", summary.DurationMinutes)
	fmt.Printf("Items studied: %d\n", summary.ItemsStudied)
	fmt.Printf("Correct: %d\n", summary.CorrectItems)
	fmt.Printf("Accuracy: %.1f%%\n", summary.AccuracyPercentage)
	fmt.Printf("Avg WPM: %.1f\n", summary.AverageWPM)
	if sequential {
		fmt.Printf("Completed: %.1f%%\n", summary.CompletionPercentage)
	}
}

func coefficientsFromConfig(cfg config.CoefficientsConfig) schedule.Coefficients {
	coeffs := schedule.DefaultCoefficients
	applyFloat(&coeffs.PerfectRetain, cfg.PerfectRetain)
	applyFloat(&coeffs.PerfectTarget, cfg.PerfectTarget)
	applyFloat(&coeffs.GoodRetain, cfg.GoodRetain)
	applyFloat(&coeffs.GoodTarget, cfg.GoodTarget)
	applyFloat(&coeffs.FairRetain, cfg.FairRetain)
	applyFloat(&coeffs.FairTarget, cfg.FairTarget)
	applyFloat(&coeffs.PoorRetain, cfg.PoorRetain)
	applyFloat(&coeffs.PoorTarget, cfg.PoorTarget)
	return coeffs
}

func newShuffleRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func clipPrompt(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= 40 {
		return prompt
	}
	return string(runes[:39]) + "…"
}

func applyFloat(target *float64, value *float64) {
	if value != nil {
		*target = *value
	}
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

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func derefFloat(value *float64, fallback float64) float64 {
	if value != nil {
		return *value
	}
	return fallback
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# memotype configuration
# Uncomment a value to enable it. CLI flags override config values.

[scheduler]
# exploration = %.2f          # Chance of presenting a random item (0-1)
# mastered-threshold = %.1f   # Mastery level counted as mastered

[scheduler.coefficients]
# Mastery blend per performance tier: new = retain*old + (1-retain)*target
# perfect-retain = 0.7
# perfect-target = 1.0
# good-retain = 0.8
# good-target = 0.9
# fair-retain = 0.8
# fair-target = 0.7
# poor-retain = 0.5
# poor-target = 0.3

[session]
# limit = 20                  # Max items per session (0 = no limit)
# correct-threshold = %.1f    # Accuracy counted as a correct item
`,
		defaultExploration,
		defaultMastered,
		defaultCorrect,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
