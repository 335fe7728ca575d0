package config_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/humandbs/humcat/pkg/config"
)

var _ = Describe("Config", func() {
	Describe("New", func() {
		It("generates a config with defaults", func() {
			cfg := New()
			Expect(cfg.JobsNum).To(Equal(4))
			Expect(cfg.BaseURL).To(Equal("https://humandbs.dbcls.jp"))
			Expect(cfg.MaxVersionProbe).To(Equal(50))
			Expect(cfg.DelayMs).To(Equal(500))
			Expect(cfg.LookBackYears).To(Equal(2))
		})

		It("uses options for setup", func() {
			cfg := New(getOpts()...)
			Expect(cfg.InputDir).To(Equal("/tmp/humcat"))
			Expect(cfg.JobsNum).To(Equal(8))
			Expect(cfg.HumID).To(Equal("hum0006"))
			Expect(cfg.Lang).To(Equal("ja"))
			Expect(cfg.LatestOnly).To(BeTrue())
		})

		It("derives the store layout from InputDir", func() {
			cfg := New(OptInputDir("/tmp/humcat"))
			Expect(cfg.HTMLDir).To(Equal(filepath.Join("/tmp/humcat", "html")))
			Expect(cfg.DetailDir).To(Equal(filepath.Join("/tmp/humcat", "detail")))
			Expect(cfg.NormDir).To(Equal(filepath.Join("/tmp/humcat", "normalized")))
			Expect(cfg.DatasetDir).To(Equal(filepath.Join("/tmp/humcat", "dataset")))
			Expect(cfg.FacetDir).To(
				Equal(filepath.Join("/tmp/humcat", "facet-mappings")))
			Expect(cfg.DoiKVDir).To(Equal(filepath.Join("/tmp/humcat", "doi-kv")))
		})

		It("caps the worker count", func() {
			cfg := New(OptJobsNum(1000))
			Expect(cfg.JobsNum).To(Equal(MaxJobs))

			cfg = New(OptJobsNum(-1))
			Expect(cfg.JobsNum).To(Equal(1))
		})
	})

	Describe("Langs", func() {
		It("returns both languages by default", func() {
			Expect(New().Langs()).To(Equal([]string{"ja", "en"}))
		})

		It("narrows to the selected language", func() {
			Expect(New(OptLang("en")).Langs()).To(Equal([]string{"en"}))
		})
	})
})

func getOpts() []Option {
	var opts []Option
	opts = append(opts, OptInputDir("/tmp/humcat"))
	opts = append(opts, OptJobsNum(8))
	opts = append(opts, OptHumID("hum0006"))
	opts = append(opts, OptLang("ja"))
	opts = append(opts, OptLatestOnly(true))
	return opts
}
