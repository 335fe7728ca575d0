package config

import (
	"os"
	"path/filepath"
)

// Config holds every setting of the pipeline. Stage commands translate
// flags and the config file into options; components receive the final
// struct by value.
type Config struct {
	// InputDir is the root of the file-based intermediate store.
	InputDir string

	// HTMLDir caches raw pages as {humId}-v{n}-{lang}.html.
	HTMLDir string

	// DetailDir holds per-revision ParsedDetail JSON.
	DetailDir string

	// NormDir holds normalized detail JSON.
	NormDir string

	// DatasetDir, ResearchDir and ResearchVersionDir hold the structured
	// documents produced by the build stage.
	DatasetDir         string
	ResearchDir        string
	ResearchVersionDir string

	// EnrichedDir holds enriched research documents.
	EnrichedDir string

	// FacetDir holds the TSV mapping tables edited by reviewers.
	FacetDir string

	// DoiKVDir and JgaKVDir hold the registry lookup caches.
	DoiKVDir string
	JgaKVDir string

	// BaseURL is the catalog portal root.
	BaseURL string

	// CrossrefURL and JgaURL are the registry endpoints.
	CrossrefURL string
	JgaURL      string

	// JobsNum is the number of concurrent workers, capped at MaxJobs.
	JobsNum int

	// MaxVersionProbe bounds the linear existence probe.
	MaxVersionProbe int

	// DelayMs is the fixed inter-call delay against external APIs.
	DelayMs int

	// LookBackYears widens the publication-date filter of DOI searches
	// below the entry's first release year.
	LookBackYears int

	// HumID restricts a run to one catalog entry. Empty means all.
	HumID string

	// Lang restricts a run to one language. Empty means both.
	Lang string

	// Force reprocesses units whose output already exists.
	Force bool

	// NoCache bypasses the HTML cache on harvest.
	NoCache bool

	// LatestOnly restricts harvesting to the newest revision.
	LatestOnly bool

	// SkipDOI and SkipJGA switch off the respective enrichment.
	SkipDOI bool
	SkipJGA bool

	// FailOnError makes per-unit failures fatal for the exit code.
	FailOnError bool
}

// MaxJobs is the hard cap on worker concurrency.
const MaxJobs = 32

// Option type allows to change settings for Config.
type Option func(*Config)

// OptInputDir sets the root directory of the intermediate store.
func OptInputDir(d string) Option {
	return func(cfg *Config) {
		cfg.InputDir = d
	}
}

// OptBaseURL sets the catalog portal root.
func OptBaseURL(u string) Option {
	return func(cfg *Config) {
		cfg.BaseURL = u
	}
}

// OptCrossrefURL sets the bibliographic search endpoint.
func OptCrossrefURL(u string) Option {
	return func(cfg *Config) {
		cfg.CrossrefURL = u
	}
}

// OptJgaURL sets the JGA registry endpoint.
func OptJgaURL(u string) Option {
	return func(cfg *Config) {
		cfg.JgaURL = u
	}
}

// OptJobsNum sets parallelism for concurrent goroutines.
func OptJobsNum(j int) Option {
	return func(cfg *Config) {
		if j < 1 {
			j = 1
		}
		if j > MaxJobs {
			j = MaxJobs
		}
		cfg.JobsNum = j
	}
}

// OptDelayMs sets the fixed delay between external API calls.
func OptDelayMs(d int) Option {
	return func(cfg *Config) {
		cfg.DelayMs = d
	}
}

// OptHumID restricts the run to one catalog entry.
func OptHumID(id string) Option {
	return func(cfg *Config) {
		cfg.HumID = id
	}
}

// OptLang restricts the run to one language.
func OptLang(l string) Option {
	return func(cfg *Config) {
		cfg.Lang = l
	}
}

// OptForce reprocesses units whose output already exists.
func OptForce(b bool) Option {
	return func(cfg *Config) {
		cfg.Force = b
	}
}

// OptNoCache bypasses the HTML cache.
func OptNoCache(b bool) Option {
	return func(cfg *Config) {
		cfg.NoCache = b
	}
}

// OptLatestOnly harvests only the newest revision.
func OptLatestOnly(b bool) Option {
	return func(cfg *Config) {
		cfg.LatestOnly = b
	}
}

// OptSkipDOI switches DOI enrichment off.
func OptSkipDOI(b bool) Option {
	return func(cfg *Config) {
		cfg.SkipDOI = b
	}
}

// OptSkipJGA switches JGA enrichment off.
func OptSkipJGA(b bool) Option {
	return func(cfg *Config) {
		cfg.SkipJGA = b
	}
}

// OptFailOnError makes unit failures fatal for the exit code.
func OptFailOnError(b bool) Option {
	return func(cfg *Config) {
		cfg.FailOnError = b
	}
}

// New assembles a Config from defaults and options. Directory layout is
// always derived from InputDir, so an option changing InputDir moves the
// whole store.
func New(opts ...Option) Config {
	inpDir, err := os.UserCacheDir()
	if err != nil {
		inpDir = os.TempDir()
	}
	inpDir = filepath.Join(inpDir, "humcat")

	res := Config{
		InputDir:        inpDir,
		BaseURL:         "https://humandbs.dbcls.jp",
		CrossrefURL:     "https://api.crossref.org",
		JgaURL:          "https://ddbj.nig.ac.jp/search/resources",
		JobsNum:         4,
		MaxVersionProbe: 50,
		DelayMs:         500,
		LookBackYears:   2,
	}

	for _, opt := range opts {
		opt(&res)
	}

	res.HTMLDir = filepath.Join(res.InputDir, "html")
	res.DetailDir = filepath.Join(res.InputDir, "detail")
	res.NormDir = filepath.Join(res.InputDir, "normalized")
	res.DatasetDir = filepath.Join(res.InputDir, "dataset")
	res.ResearchDir = filepath.Join(res.InputDir, "research")
	res.ResearchVersionDir = filepath.Join(res.InputDir, "research-version")
	res.EnrichedDir = filepath.Join(res.InputDir, "enriched")
	res.FacetDir = filepath.Join(res.InputDir, "facet-mappings")
	res.DoiKVDir = filepath.Join(res.InputDir, "doi-kv")
	res.JgaKVDir = filepath.Join(res.InputDir, "jga-kv")

	return res
}

// Langs returns the languages selected for this run.
func (cfg Config) Langs() []string {
	if cfg.Lang != "" {
		return []string{cfg.Lang}
	}
	return []string{"ja", "en"}
}
