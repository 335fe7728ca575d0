package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/humandbs/humcat/internal/io/parseio"
	humcat "github.com/humandbs/humcat/pkg"
	"github.com/humandbs/humcat/pkg/config"
	"github.com/spf13/cobra"
)

// parseCmd represents the parse command.
var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extracts structured records from cached HTML pages",
	Long: `Command parse reads every cached revision page, extracts the summary,
dataset table, molecular data blocks, providers, publications and grants
into a structured record, and attaches the release history from the
entry's release page. Records already parsed are skipped unless --force
is given.`,
	Run: func(cmd *cobra.Command, _ []string) {
		stageOpts := flagOpts(cmd)

		if force, _ := cmd.Flags().GetBool("force"); force {
			stageOpts = append(stageOpts, config.OptForce(true))
		}

		cfg := config.New(stageOpts...)
		prs, err := parseio.New(cfg)
		if err != nil {
			slog.Error("Cannot create parser", "error", err)
			os.Exit(1)
		}

		hc := humcat.New(cfg)
		sum, err := hc.Parse(context.Background(), prs)
		finish(cfg, sum, err)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolP("force", "f", false, "reparse records already extracted")
}
