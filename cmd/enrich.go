package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/humandbs/humcat/internal/io/enrichio"
	humcat "github.com/humandbs/humcat/pkg"
	"github.com/humandbs/humcat/pkg/config"
	"github.com/spf13/cobra"
)

// enrichCmd represents the enrich command.
var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Resolves DOIs and JGA relations for research documents",
	Long: `Command enrich matches publication titles against the Crossref API
and cross-references JGA study and dataset accessions through the DDBJ
search API. Lookups are memoized in local caches, so re-runs only hit
the network for new items. A failed lookup degrades to "no enrichment"
for that item.`,
	Run: func(cmd *cobra.Command, _ []string) {
		stageOpts := flagOpts(cmd)

		if skip, _ := cmd.Flags().GetBool("skip-doi"); skip {
			stageOpts = append(stageOpts, config.OptSkipDOI(true))
		}
		if skip, _ := cmd.Flags().GetBool("skip-jga"); skip {
			stageOpts = append(stageOpts, config.OptSkipJGA(true))
		}
		if delay, _ := cmd.Flags().GetInt("delay-ms"); delay > 0 {
			stageOpts = append(stageOpts, config.OptDelayMs(delay))
		}

		cfg := config.New(stageOpts...)
		enr, err := enrichio.New(cfg)
		if err != nil {
			slog.Error("Cannot create enricher", "error", err)
			os.Exit(1)
		}

		hc := humcat.New(cfg)
		sum, err := hc.Enrich(context.Background(), enr)
		finish(cfg, sum, err)
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)

	enrichCmd.Flags().Bool("skip-doi", false, "skip Crossref DOI matching")
	enrichCmd.Flags().Bool("skip-jga", false, "skip JGA cross-referencing")
	enrichCmd.Flags().Int("delay-ms", 0, "pause between requests in milliseconds")
}
