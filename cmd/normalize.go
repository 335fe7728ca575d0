package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/humandbs/humcat/internal/io/normio"
	humcat "github.com/humandbs/humcat/pkg"
	"github.com/humandbs/humcat/pkg/config"
	"github.com/spf13/cobra"
)

// normalizeCmd represents the normalize command.
var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Applies bilingual cleanup rules to parsed records",
	Long: `Command normalize folds full-width punctuation, canonicalizes access
criteria and dates, strips footnote boilerplate and cleans accession ID
cells in every parsed record. A record with an unknown access criteria
value fails hard; unparseable dates are skipped field-by-field.`,
	Run: func(cmd *cobra.Command, _ []string) {
		stageOpts := flagOpts(cmd)

		if force, _ := cmd.Flags().GetBool("force"); force {
			stageOpts = append(stageOpts, config.OptForce(true))
		}

		cfg := config.New(stageOpts...)
		nrm, err := normio.New(cfg)
		if err != nil {
			slog.Error("Cannot create normalizer", "error", err)
			os.Exit(1)
		}

		hc := humcat.New(cfg)
		sum, err := hc.Normalize(context.Background(), nrm)
		finish(cfg, sum, err)
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().BoolP("force", "f", false, "renormalize records already done")
}
