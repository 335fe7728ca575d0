package cmd

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gnames/gnsys"
	"github.com/humandbs/humcat/internal/ent/runstat"
	humcat "github.com/humandbs/humcat/pkg"
	"github.com/humandbs/humcat/pkg/config"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//go:embed humcat.yaml
var configText string

var (
	opts []config.Option
)

// cfgData mirrors the config file.
type cfgData struct {
	InputDir    string
	BaseURL     string
	CrossrefURL string
	JgaURL      string
	JobsNum     int
	DelayMs     int
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "humcat",
	Short: "humcat extracts a versioned dataset catalog from the NBDC Human Database",
	Long: `humcat ingests the bilingual NBDC Human Database portal and produces
structured, versioned JSON documents for the search index.

The pipeline runs as independent stages over a file-based store:

  harvest    discover revisions, download pages into the HTML cache
  parse      extract structured records from cached HTML
  normalize  apply bilingual cleanup and canonicalization rules
  build      fold records into dataset/research version histories
  facets     refresh the reviewable facet mapping tables
  enrich     resolve DOIs and JGA relations against external registries

Each stage reads the previous stage's output, so any stage can be
re-run on its own.`,
	Run: func(cmd *cobra.Command, args []string) {
		version, err := cmd.Flags().GetBool("version")
		if err != nil {
			slog.Error("Cannot get flag", "error", err)
			os.Exit(1)
		}
		if version {
			fmt.Printf("\nversion: %s\nbuild: %s\n\n", humcat.Version, humcat.Build)
			os.Exit(0)
		}

		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().BoolP("version", "V", false, "Returns version and build date")

	pf := rootCmd.PersistentFlags()
	pf.StringP("hum-id", "i", "", "process a single catalog entry")
	pf.StringP("lang", "l", "", "process a single language (ja or en)")
	pf.IntP("jobs", "j", 0, "number of concurrent workers")
	pf.Bool("verbose", false, "debug-level logging")
	pf.Bool("quiet", false, "error-level logging only")
	pf.Bool("fail-on-error", false, "exit non-zero when any unit fails")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	var err error
	var homeDir, cfgDir string
	configFile := "humcat"

	homeDir, err = os.UserHomeDir()
	if err != nil {
		slog.Error("Cannot find home dir", "error", err)
		os.Exit(1)
	}
	cfgDir = filepath.Join(homeDir, ".config")

	viper.AddConfigPath(cfgDir)
	viper.SetConfigName(configFile)

	configPath := filepath.Join(cfgDir, fmt.Sprintf("%s.yaml", configFile))
	touchConfigFile(configPath)

	if err := viper.ReadInConfig(); err != nil {
		slog.Error("Config file humcat.yaml not found", "error", err)
		os.Exit(1)
	}
	getOpts()
}

// getOpts imports data from the configuration file. Some of the settings
// can be overriden by command line flags.
func getOpts() []config.Option {
	cfg := cfgData{}
	err := viper.Unmarshal(&cfg)
	if err != nil {
		slog.Error("Cannot unmarshal config file", "error", err)
	}

	if cfg.InputDir != "" {
		opts = append(opts, config.OptInputDir(cfg.InputDir))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, config.OptBaseURL(cfg.BaseURL))
	}
	if cfg.CrossrefURL != "" {
		opts = append(opts, config.OptCrossrefURL(cfg.CrossrefURL))
	}
	if cfg.JgaURL != "" {
		opts = append(opts, config.OptJgaURL(cfg.JgaURL))
	}
	if cfg.JobsNum != 0 {
		opts = append(opts, config.OptJobsNum(cfg.JobsNum))
	}
	if cfg.DelayMs != 0 {
		opts = append(opts, config.OptDelayMs(cfg.DelayMs))
	}
	return opts
}

// flagOpts translates the persistent flags of a stage invocation into
// config options and sets up logging.
func flagOpts(cmd *cobra.Command) []config.Option {
	res := opts

	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	setupLogging(verbose, quiet)

	if humID, _ := cmd.Flags().GetString("hum-id"); humID != "" {
		res = append(res, config.OptHumID(humID))
	}
	if lang, _ := cmd.Flags().GetString("lang"); lang != "" {
		if lang != "ja" && lang != "en" {
			slog.Error("Language must be ja or en", "lang", lang)
			os.Exit(1)
		}
		res = append(res, config.OptLang(lang))
	}
	if jobs, _ := cmd.Flags().GetInt("jobs"); jobs != 0 {
		res = append(res, config.OptJobsNum(jobs))
	}
	if fail, _ := cmd.Flags().GetBool("fail-on-error"); fail {
		res = append(res, config.OptFailOnError(true))
	}
	return res
}

func setupLogging(verbose, quiet bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
	slog.SetDefault(slog.New(handler))
}

// finish reports the stage outcome and decides the exit code. Per-unit
// failures force a non-zero exit only when asked for.
func finish(cfg config.Config, sum *runstat.Summary, err error) {
	if err != nil {
		slog.Error("Stage aborted", "error", err)
		os.Exit(1)
	}
	if cfg.FailOnError && sum.Failed() > 0 {
		os.Exit(1)
	}
}

// touchConfigFile checks if config file exists, and if not, it gets
// created.
func touchConfigFile(configPath string) {
	fileExists, _ := gnsys.FileExists(configPath)
	if fileExists {
		return
	}

	slog.Info("Creating config file", "path", configPath)
	createConfig(configPath)
}

// createConfig creates config file.
func createConfig(path string) {
	err := gnsys.MakeDir(filepath.Dir(path))
	if err != nil {
		slog.Error("Cannot create config dir", "error", err)
		os.Exit(1)
	}

	err = os.WriteFile(path, []byte(configText), 0644)
	if err != nil {
		slog.Error("Cannot write to config file", "error", err)
		os.Exit(1)
	}
}
