package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/humandbs/humcat/internal/io/fetchio"
	"github.com/humandbs/humcat/internal/io/harvestio"
	"github.com/humandbs/humcat/internal/io/resolvio"
	humcat "github.com/humandbs/humcat/pkg"
	"github.com/humandbs/humcat/pkg/config"
	"github.com/spf13/cobra"
)

// harvestCmd represents the harvest command.
var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Discovers revisions and downloads portal pages into the HTML cache",
	Long: `Command harvest walks the portal's research list (or a single entry
given with --hum-id), resolves the latest revision of each entry, and
downloads every revision page and release page in both languages into
the HTML cache. Pages already cached are not fetched again unless
--no-cache or --force is given.`,
	Run: func(cmd *cobra.Command, _ []string) {
		stageOpts := flagOpts(cmd)

		if force, _ := cmd.Flags().GetBool("force"); force {
			stageOpts = append(stageOpts, config.OptForce(true))
		}
		if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
			stageOpts = append(stageOpts, config.OptNoCache(true))
		}
		if latest, _ := cmd.Flags().GetBool("latest-only"); latest {
			stageOpts = append(stageOpts, config.OptLatestOnly(true))
		}
		if delay, _ := cmd.Flags().GetInt("delay-ms"); delay > 0 {
			stageOpts = append(stageOpts, config.OptDelayMs(delay))
		}

		cfg := config.New(stageOpts...)
		ftch := fetchio.New(cfg)
		rsl := resolvio.New(cfg, ftch)

		hrv, err := harvestio.New(cfg, rsl, ftch)
		if err != nil {
			slog.Error("Cannot create harvester", "error", err)
			os.Exit(1)
		}

		hc := humcat.New(cfg)
		sum, err := hc.Harvest(context.Background(), hrv)
		finish(cfg, sum, err)
	},
}

func init() {
	rootCmd.AddCommand(harvestCmd)

	harvestCmd.Flags().BoolP("force", "f", false, "refetch pages already cached")
	harvestCmd.Flags().Bool("no-cache", false, "bypass the HTML cache for reads")
	harvestCmd.Flags().Bool("latest-only", false, "fetch only the latest revision")
	harvestCmd.Flags().Int("delay-ms", 0, "pause between requests in milliseconds")
}
