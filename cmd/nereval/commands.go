package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-nereval/internal/config"
)

// commonFlags are shared by eval and sweep. Only flags set on the command
// line override the loaded configuration.
type commonFlags struct {
	tags       []string
	loader     string
	minOverlap float64
	workers    int
	logLevel   string
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.tags, "tags", "t", nil, "Entity labels to evaluate (comma-separated)")
	cmd.Flags().StringVarP(&f.loader, "loader", "l", "default", "Input format: default, list, conll, dict")
	cmd.Flags().Float64Var(&f.minOverlap, "min-overlap", 1, "Minimum share of a gold entity, in percent, a prediction must cover")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Documents scored concurrently (0 = one per CPU)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
}

func (f *commonFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("tags") {
		cfg.Tags = f.tags
	}
	if flags.Changed("loader") {
		cfg.Loader = f.loader
	}
	if flags.Changed("min-overlap") {
		cfg.MinOverlapPercent = f.minOverlap
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
}

type evalFlags struct {
	commonFlags
	byTag    bool
	pretty   bool
	indices  bool
	scenario string
	digits   int
	format   string
	output   string
}

func buildEvalCmd() *cobra.Command {
	var f evalFlags
	cmd := &cobra.Command{
		Use:   "eval TRUE PRED",
		Short: "Score predicted entities against gold entities",
		Long: `Score predicted entities against gold entities.

Without --by-tag one row per strategy is printed. With --by-tag one row per
tag is printed for --scenario (text and csv), or per-tag results are added
(json and proto). --indices appends the entities behind every count.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, &f, args[0], args[1])
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.byTag, "by-tag", false, "Report per-tag results")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "Indent json output")
	cmd.Flags().BoolVar(&f.indices, "indices", false, "Include the entities behind each count")
	cmd.Flags().StringVar(&f.scenario, "scenario", "strict", "Strategy for per-tag tables: strict, ent_type, partial, exact")
	cmd.Flags().IntVar(&f.digits, "digits", 2, "Decimals for precision, recall and F1")
	cmd.Flags().StringVarP(&f.format, "format", "f", config.FormatText, "Output format: text, csv, json, proto")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func (f *evalFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	f.commonFlags.apply(cmd, cfg)
	flags := cmd.Flags()
	if flags.Changed("by-tag") {
		cfg.Report.Mode = "overall"
		if f.byTag {
			cfg.Report.Mode = "entities"
		}
	}
	if flags.Changed("pretty") {
		cfg.Report.Pretty = f.pretty
	}
	if flags.Changed("indices") {
		cfg.Report.Indices = f.indices
	}
	if flags.Changed("scenario") {
		cfg.Report.Scenario = f.scenario
	}
	if flags.Changed("digits") {
		cfg.Report.Digits = f.digits
	}
	if flags.Changed("format") {
		cfg.Report.Format = f.format
	}
}

type sweepFlags struct {
	commonFlags
	strategy string
	min      float64
	max      float64
	step     float64
	wp       float64
	wr       float64
}

func buildSweepCmd() *cobra.Command {
	var f sweepFlags
	cmd := &cobra.Command{
		Use:   "sweep TRUE PRED",
		Short: "Rank minimum overlap percentages by weighted score",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, &f, args[0], args[1])
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.strategy, "strategy", "ent_type", "Strategy to rank")
	cmd.Flags().Float64Var(&f.min, "sweep-min", 1, "Smallest minimum overlap percentage")
	cmd.Flags().Float64Var(&f.max, "sweep-max", 100, "Largest minimum overlap percentage")
	cmd.Flags().Float64Var(&f.step, "sweep-step", 10, "Sweep step")
	cmd.Flags().Float64Var(&f.wp, "wp", 1, "Precision weight")
	cmd.Flags().Float64Var(&f.wr, "wr", 1, "Recall weight")
	return cmd
}

func (f *sweepFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	f.commonFlags.apply(cmd, cfg)
	flags := cmd.Flags()
	if flags.Changed("strategy") {
		cfg.Sweep.Strategy = f.strategy
	}
	if flags.Changed("sweep-min") {
		cfg.Sweep.Min = f.min
	}
	if flags.Changed("sweep-max") {
		cfg.Sweep.Max = f.max
	}
	if flags.Changed("sweep-step") {
		cfg.Sweep.Step = f.step
	}
	if flags.Changed("wp") {
		cfg.Sweep.PrecisionWeight = f.wp
	}
	if flags.Changed("wr") {
		cfg.Sweep.RecallWeight = f.wr
	}
}

type convertFlags struct {
	loader string
	output string
}

func buildConvertCmd() *cobra.Command {
	var f convertFlags
	cmd := &cobra.Command{
		Use:   "convert INPUT",
		Short: "Convert any supported input to span-record JSONL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, &f, args[0])
		},
	}
	cmd.Flags().StringVarP(&f.loader, "loader", "l", "default", "Input format: default, list, conll, dict")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
