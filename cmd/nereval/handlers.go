package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	nereval "github.com/jamesainslie/go-nereval"
	"github.com/jamesainslie/go-nereval/internal/bench"
	"github.com/jamesainslie/go-nereval/internal/config"
	"github.com/jamesainslie/go-nereval/report"
)

var errNoTags = errors.New("no tags to evaluate: pass --tags or set tags in the config file")

// loadConfig loads the configuration, lets apply override it with explicit
// flags and validates the result.
func loadConfig(cmd *cobra.Command, apply func(*cobra.Command, *config.Config)) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if len(cfg.Tags) == 0 {
		return nil, nil, errNoTags
	}
	return cfg, cfg.Logger(cmd.ErrOrStderr()), nil
}

func loadCorpus(cfg *config.Config, logger *slog.Logger, truePath, predPath string) (*bench.Corpus, error) {
	kind, err := nereval.ParseLoaderKind(cfg.Loader)
	if err != nil {
		return nil, err
	}
	corpus, err := bench.LoadCorpus(truePath, predPath, kind)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded corpus", "true", truePath, "pred", predPath, "loader", corpus.Loader.String())
	return corpus, nil
}

// withOutput calls write with stdout, or with the file at path when set.
func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output: %w", cerr)
		}
	}()
	return write(f)
}

func runEval(cmd *cobra.Command, f *evalFlags, truePath, predPath string) error {
	cfg, logger, err := loadConfig(cmd, f.apply)
	if err != nil {
		return err
	}

	corpus, err := loadCorpus(cfg, logger, truePath, predPath)
	if err != nil {
		return err
	}
	opts, err := cfg.Options(logger)
	if err != nil {
		return err
	}
	opts = append(opts, nereval.WithLoader(corpus.Loader))

	ev, err := nereval.New(corpus.True, corpus.Pred, cfg.Tags, opts...)
	if err != nil {
		return err
	}
	res, err := ev.Evaluate(cmd.Context())
	if err != nil {
		return err
	}

	mode := nereval.Mode(cfg.Report.Mode)
	scenario := nereval.Strategy(cfg.Report.Scenario)
	digits := cfg.Report.Digits
	export := report.ExportOptions{
		ByTag:   mode == nereval.ModeEntities,
		Indices: cfg.Report.Indices,
		Pretty:  cfg.Report.Pretty,
	}

	switch cfg.Report.Format {
	case config.FormatCSV:
		if f.output != "" {
			return report.WriteCSVFile(f.output, res, mode, scenario, digits)
		}
		return res.WriteCSV(cmd.OutOrStdout(), mode, scenario, digits)

	case config.FormatJSON:
		data, err := report.MarshalJSON(res, export)
		if err != nil {
			return err
		}
		return withOutput(cmd, f.output, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "%s\n", data)
			return err
		})

	case config.FormatProto:
		data, err := report.MarshalBinary(res, export)
		if err != nil {
			return err
		}
		return withOutput(cmd, f.output, func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})
	}

	text, err := report.Summary(res, mode, scenario, digits)
	if err != nil {
		return err
	}
	if cfg.Report.Indices {
		trueDocs, predDocs := ev.Documents()
		docs := &report.Documents{True: trueDocs, Pred: predDocs}
		var drill string
		if mode == nereval.ModeEntities {
			drill, err = report.EntityIndices(res, scenario, docs)
		} else {
			drill, err = report.OverallIndices(res, scenario, docs)
		}
		if err != nil {
			return err
		}
		text += "\n" + drill
	}
	return withOutput(cmd, f.output, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}

func runSweep(cmd *cobra.Command, f *sweepFlags, truePath, predPath string) error {
	cfg, logger, err := loadConfig(cmd, f.apply)
	if err != nil {
		return err
	}

	corpus, err := loadCorpus(cfg, logger, truePath, predPath)
	if err != nil {
		return err
	}

	bcfg := bench.Config{
		Strategy:        nereval.Strategy(cfg.Sweep.Strategy),
		PrecisionWeight: cfg.Sweep.PrecisionWeight,
		RecallWeight:    cfg.Sweep.RecallWeight,
		Workers:         cfg.Workers,
	}
	thresholds := bench.SweepThresholds(cfg.Sweep.Min, cfg.Sweep.Max, cfg.Sweep.Step)

	results, err := bench.Sweep(cmd.Context(), corpus, cfg.Tags, bcfg, thresholds, nereval.WithLogger(logger))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Minimum Overlap Sweep (strategy=%s, wp=%.1f, wr=%.1f)\n",
		bcfg.Strategy, bcfg.PrecisionWeight, bcfg.RecallWeight)
	fmt.Fprintln(out, strings.Repeat("-", 50))
	fmt.Fprintf(out, "%-8s %-8s %-8s %-8s %-8s\n", "MinOvl", "Prec", "Rec", "F1", "Weighted")

	// Print in threshold order for readability
	for _, t := range thresholds {
		for _, r := range results {
			if r.MinOverlap == t {
				fmt.Fprintf(out, "%-8.1f %-8.2f %-8.2f %-8.2f %-8.2f\n",
					r.MinOverlap, r.Metrics.Precision, r.Metrics.Recall, r.Metrics.F1, r.Metrics.WeightedScore)
				break
			}
		}
	}

	fmt.Fprintln(out, strings.Repeat("-", 50))
	best := results[0]
	_, err = fmt.Fprintf(out, "Optimal: %.1f (Weighted: %.2f)\n", best.MinOverlap, best.Metrics.WeightedScore)
	return err
}

func runConvert(cmd *cobra.Command, f *convertFlags, inputPath string) error {
	kind, err := nereval.ParseLoaderKind(f.loader)
	if err != nil {
		return err
	}
	raw, kind, err := bench.ReadInput(inputPath, kind)
	if err != nil {
		return err
	}
	loader, err := nereval.NewLoader(kind)
	if err != nil {
		return err
	}
	docs, err := loader.Load(raw)
	if err != nil {
		return fmt.Errorf("loading %s: %w", inputPath, err)
	}
	return withOutput(cmd, f.output, func(w io.Writer) error {
		return bench.WriteDictJSONL(w, docs)
	})
}
