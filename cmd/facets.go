package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/humandbs/humcat/internal/io/facetio"
	humcat "github.com/humandbs/humcat/pkg"
	"github.com/humandbs/humcat/pkg/config"
	"github.com/spf13/cobra"
)

// facetsCmd represents the facets command.
var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Refreshes the reviewable facet mapping tables",
	Long: `Command facets tallies the raw facet values found in the dataset
documents and merges them into the TSV mapping tables. New values are
appended with a PENDING normalization so a curator can fill them in;
hand-edited mappings are never overwritten.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg := config.New(flagOpts(cmd)...)

		col, err := facetio.New(cfg)
		if err != nil {
			slog.Error("Cannot create facet collector", "error", err)
			os.Exit(1)
		}

		hc := humcat.New(cfg)
		sum, err := hc.Facets(context.Background(), col)
		finish(cfg, sum, err)
	},
}

func init() {
	rootCmd.AddCommand(facetsCmd)
}
