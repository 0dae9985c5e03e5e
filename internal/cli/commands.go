package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/xab-mack/solpipe/internal/ai"
	"github.com/xab-mack/solpipe/internal/cache"
	"github.com/xab-mack/solpipe/internal/config"
	"github.com/xab-mack/solpipe/internal/model"
	"github.com/xab-mack/solpipe/internal/pipeline"
	"github.com/xab-mack/solpipe/internal/report"
	"github.com/xab-mack/solpipe/internal/solidity"
	"github.com/xab-mack/solpipe/internal/tools"
	"github.com/xab-mack/solpipe/internal/tui"
	"github.com/xab-mack/solpipe/internal/util"
)

func AddCommands(root *cobra.Command) {
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newInitCmd())
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func newAnalyzeCmd() *cobra.Command {
	var (
		pipelineName string
		format       string
		outputFile   string
		useTUI       bool
		failOn       string
		minSeverity  string
		noParallel   bool
		noCache      bool
		contentHash  bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Run an analysis pipeline over contracts",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}
			log := newLogger(cmd)

			variant, err := pipeline.ParseVariant(pipelineName)
			if err != nil {
				return err
			}
			cfg, cfgPath, err := config.Load(paths[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", cfgPath, err)
			}
			if cfgPath != "" {
				log.Debug("using config", "path", cfgPath)
			}

			mgr, err := buildManager(cfg, variant, noParallel, noCache, contentHash, log)
			if err != nil {
				return err
			}

			result, err := mgr.Run(cmd.Context(), paths, variant)
			if errors.Is(err, pipeline.ErrNoEligibleArtifacts) {
				return fmt.Errorf("%w under %v", err, paths)
			}
			if err != nil {
				return err
			}

			if useTUI {
				return tui.Run(result)
			}
			if err := render(cmd, result, format, outputFile, minSeverity); err != nil {
				return err
			}
			if failOn != "" && report.AnySeverityAtOrAbove(result, model.ParseSeverity(failOn)) {
				return fmt.Errorf("fail-on threshold met: %s or higher findings present", failOn)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&pipelineName, "pipeline", "p", string(pipeline.VariantStaticOnly), "Pipeline: static-only|ai-direct|ai-agent")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table|json|sarif")
	cmd.Flags().StringVarP(&outputFile, "out", "o", "", "Write report to file instead of stdout")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Render interactive TUI output")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Exit non-zero on findings of this severity or higher")
	cmd.Flags().StringVar(&minSeverity, "min-severity", "", "Hide findings below this severity in table output")
	cmd.Flags().BoolVar(&noParallel, "no-parallel", false, "Force serial execution")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable result cache lookups")
	cmd.Flags().BoolVar(&contentHash, "content-hash", false, "Key cached results by content hash instead of mtime")
	return cmd
}

func buildManager(cfg config.Config, variant pipeline.Variant, noParallel, noCache, contentHash bool, log *slog.Logger) (*pipeline.Manager, error) {
	disk, err := cache.Open()
	if err != nil {
		log.Warn("disk cache unavailable", "err", err)
		disk = nil
	}
	parser := solidity.NewParser(cfg.SolcPath, disk, log)
	scanner, err := tools.NewScanner(cfg.StaticTools, log)
	if err != nil {
		return nil, err
	}

	var reviewer pipeline.Reviewer
	if variant != pipeline.VariantStaticOnly {
		mode := ai.ModeDirect
		if variant == pipeline.VariantAIAgent {
			mode = ai.ModeAgent
		}
		reviewer, err = ai.NewReviewer(ai.Options{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: cfg.AI.BaseURL,
			Model:   cfg.AI.Model,
			Mode:    mode,
		}, log)
		if err != nil {
			return nil, err
		}
	}

	pcfg := pipeline.DefaultConfig()
	pcfg.ParallelEnabled = cfg.Parallel && !noParallel
	pcfg.CacheEnabled = cfg.Cache && !noCache
	pcfg.RetryAttempts = cfg.RetryAttempts

	opts := []pipeline.Option{pipeline.WithConfig(pcfg)}
	if contentHash {
		opts = append(opts, pipeline.WithFingerprint(util.FileFingerprint))
	}
	return pipeline.NewManager(parser, scanner, reviewer, log, opts...), nil
}

func render(cmd *cobra.Command, result *model.RunResult, format, outputFile, minSeverity string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		return emit(cmd, data, outputFile)
	case "sarif":
		data, err := report.ToSARIF(result)
		if err != nil {
			return err
		}
		return emit(cmd, data, outputFile)
	default:
		printTable(cmd, result, minSeverity)
		return nil
	}
}

func emit(cmd *cobra.Command, data []byte, outputFile string) error {
	if outputFile != "" {
		return os.WriteFile(outputFile, data, 0o644)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func printTable(cmd *cobra.Command, result *model.RunResult, minSeverity string) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Pipeline %s: %s in %s\n", result.PipelineName, result.Status, result.TotalDuration.Round(0))
	for _, name := range []model.StageName{model.StageParse, model.StageStaticScan, model.StageAIReview} {
		st, ok := result.Stages[name]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-11s %-9s ok=%d failed=%d skipped=%d\n", name, st.Status, st.Completed, st.Failed, st.Skipped)
	}

	byPath := result.AllFindings()
	if minSeverity != "" {
		byPath = report.FilterBySeverity(byPath, model.ParseSeverity(minSeverity))
	}
	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintf(w, "\n%s\n", path)
		for _, f := range byPath[path] {
			fmt.Fprintf(w, "  [%s] %s %s %s (conf=%.2f)\n", f.Severity, f.Source, f.Title, f.Location, f.Confidence)
		}
	}
	fmt.Fprintf(w, "\nTotal findings: %d across %d artifacts\n", result.Summary.TotalFindings, result.Summary.ArtifactsAnalyzed)
}

func newStatsCmd() *cobra.Command {
	var files, toolCount int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the pipeline config a workload would run with",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd)
			planner := pipeline.NewPlanner(pipeline.DefaultConfig(), log)
			cfg := planner.Stats()
			if files > 0 && toolCount > 0 {
				cfg = planner.Tune(files, toolCount)
				fmt.Fprintf(cmd.OutOrStdout(), "parallel: %v\n",
					planner.ShouldParallelize(toolCount, files))
			}
			data, _ := json.MarshalIndent(cfg, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().IntVar(&files, "files", 0, "Preview tuning for this many artifacts")
	cmd.Flags().IntVar(&toolCount, "tools", 0, "Preview tuning for this many tools")
	return cmd
}

func newInitCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .solpipe.json in the target directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = "."
			}
			path, err := config.Write(dir, config.Default())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Clean(path))
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to write config file to")
	return cmd
}
