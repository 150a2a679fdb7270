// Package main provides the nereval command line tool.
//
// # Basic Usage
//
// Score predictions against gold annotations:
//
//	nereval eval true.jsonl pred.jsonl --tags PER,ORG,LOC
//
// Per-tag table for one strategy, as CSV:
//
//	nereval eval true.conll pred.conll --tags PER,ORG --by-tag --scenario partial --format csv
//
// Rank minimum overlap percentages:
//
//	nereval sweep true.jsonl pred.jsonl --tags PER --strategy ent_type
//
// # Environment Variables
//
// Every configuration key can be set as NEREVAL_<KEY>, for example
// NEREVAL_TAGS, NEREVAL_LOADER, NEREVAL_REPORT_FORMAT or NEREVAL_LOG_LEVEL.
// Flags override the environment, which overrides the --config file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Build information, set with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	configPath string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := buildRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "nereval: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nereval",
		Short: "Evaluate named-entity recognition output",
		Long: `nereval compares predicted entities with gold entities under four
strategies (strict, ent_type, partial, exact) and reports correct, incorrect,
partial, missed and spurious counts with precision, recall and F1.

Input formats: BIO tag lists (JSONL), CoNLL (token<TAB>tag), span records (JSONL).`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")

	rootCmd.AddCommand(
		buildEvalCmd(),
		buildSweepCmd(),
		buildConvertCmd(),
		buildVersionCmd(),
	)
	return rootCmd
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

func buildVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "nereval %s\n", versionString())
			return err
		},
	}
}
