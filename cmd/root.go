package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/laborstats/uniondir/internal/config"
	"github.com/laborstats/uniondir/internal/pipeline"
)

var cfg *config.Config

var (
	flagStates []string
	flagOutput string
)

var rootCmd = &cobra.Command{
	Use:   "uniondir",
	Short: "Collect and merge local-union directory data",
	Long:  "Queries the IBEW locals API per state, enriches each local with trade classes and county jurisdictions, merges with the UnionFacts directory, and exports one cleaned spreadsheet.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		// The output path is the only fatal validation; it happens
		// before any network activity.
		if !strings.HasSuffix(flagOutput, ".xlsx") {
			return eris.Errorf("output file must have a .xlsx extension, got %q", flagOutput)
		}

		states := cleanStates(flagStates)
		if len(states) == 0 {
			return eris.New("no states given")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pipeline.New(cfg).Run(ctx, states, flagOutput)
		return nil
	},
}

// cleanStates trims whitespace and drops empty entries from the
// comma-separated state list.
func cleanStates(states []string) []string {
	out := make([]string, 0, len(states))
	for _, s := range states {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func init() {
	rootCmd.Flags().StringSliceVar(&flagStates, "states", nil, "comma-separated state codes to query, e.g. NY,CT,RI")
	rootCmd.Flags().StringVar(&flagOutput, "output", "merged_union_data.xlsx", "output file path (must end with .xlsx)")
	_ = rootCmd.MarkFlagRequired("states")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
