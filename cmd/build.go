package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/humandbs/humcat/internal/io/buildio"
	humcat "github.com/humandbs/humcat/pkg"
	"github.com/humandbs/humcat/pkg/config"
	"github.com/spf13/cobra"
)

// buildCmd represents the build command.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Folds normalized records into dataset and research documents",
	Long: `Command build walks the normalized records of each entry in revision
order and folds them into content-versioned dataset documents, one
research document per entry and one research-version document per
revision. A dataset gets a new version only when its content fingerprint
changes between revisions.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg := config.New(flagOpts(cmd)...)

		bld, err := buildio.New(cfg)
		if err != nil {
			slog.Error("Cannot create builder", "error", err)
			os.Exit(1)
		}

		hc := humcat.New(cfg)
		sum, err := hc.Build(context.Background(), bld)
		finish(cfg, sum, err)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
