// ABOUTME: Tests for the JSONL run history writer
// ABOUTME: Covers appends, filters, ordering, and malformed lines
package history_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/plugincheck/catalint/internal/catalog"
	"github.com/plugincheck/catalint/internal/document"
	"github.com/plugincheck/catalint/internal/history"
)

// reportFor validates a one-plugin catalog declaring a single mime type
func reportFor(mimeType string) *catalog.Report {
	return catalog.Validate(document.MustFromAny(map[string]any{
		"mime_types": []any{mimeType},
		"plugins": map[string]any{
			"flash": map[string]any{
				"display_name": "Flash",
				"description":  "Shockwave Flash",
				"versions":     map[string]any{},
				"mimes":        []any{},
				"url":          "https://example.com/flash",
				"regex":        []any{},
			},
		},
	}))
}

var _ = Describe("Writer", func() {
	var (
		writer  *history.Writer
		tempDir string
		logPath string
		base    time.Time
	)

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
		logPath = history.DefaultPath(tempDir)

		var err error
		writer, err = history.NewWriter(logPath)
		Expect(err).NotTo(HaveOccurred())

		base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	})

	Describe("NewWriter", func() {
		It("creates the history directory", func() {
			Expect(filepath.Join(tempDir, "history")).To(BeADirectory())
			Expect(writer.Path()).To(Equal(logPath))
		})
	})

	Describe("Write", func() {
		It("appends one JSON line per run", func() {
			Expect(writer.Write(history.NewRun("a.json", "json", reportFor("text/plain"), base))).To(Succeed())
			Expect(writer.Write(history.NewRun("b.json", "json", reportFor("text/plain"), base))).To(Succeed())

			data, err := os.ReadFile(logPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(HaveSuffix("\n"))
			Expect(data).To(ContainSubstring(`"format":"json"`))

			runs, err := writer.Query(history.Filters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(2))
		})
	})

	Describe("NewRun", func() {
		It("records counts by kind and a unique id", func() {
			failing := reportFor("textplain")
			run := history.NewRun("plugins_list.json", "json", failing, base)

			Expect(run.ID).NotTo(BeEmpty())
			Expect(run.ID).NotTo(Equal(history.NewRun("plugins_list.json", "json", failing, base).ID))
			Expect(filepath.IsAbs(run.Catalog)).To(BeTrue())
			Expect(run.Passed).To(BeFalse())
			Expect(run.Failed).To(Equal(failing.Counts().Failed))
			Expect(run.ByKind).To(Equal(map[string]int{"format": 1}))
		})

		It("keeps stdin as is and omits kinds of a passing run", func() {
			run := history.NewRun("-", "yaml", reportFor("text/plain"), base)
			Expect(run.Catalog).To(Equal("-"))
			Expect(run.Passed).To(BeTrue())
			Expect(run.ByKind).To(BeNil())
		})
	})

	Describe("Query", func() {
		BeforeEach(func() {
			runs := []*history.Run{
				history.NewRun("a.json", "json", reportFor("text/plain"), base),
				history.NewRun("b.json", "json", reportFor("textplain"), base.Add(time.Hour)),
				history.NewRun("a.json", "json", reportFor("textplain"), base.Add(2*time.Hour)),
				history.NewRun("a.json", "json", reportFor("text/plain"), base.Add(3*time.Hour)),
			}
			for _, run := range runs {
				Expect(writer.Write(run)).To(Succeed())
			}
		})

		It("returns an empty list when the log does not exist", func() {
			empty, err := history.NewWriter(filepath.Join(tempDir, "other", "runs.jsonl"))
			Expect(err).NotTo(HaveOccurred())

			runs, err := empty.Query(history.Filters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(BeEmpty())
		})

		It("returns runs newest first", func() {
			runs, err := writer.Query(history.Filters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(4))
			for i := 1; i < len(runs); i++ {
				Expect(runs[i-1].Timestamp).To(BeTemporally(">=", runs[i].Timestamp))
			}
		})

		It("filters by catalog path", func() {
			runs, err := writer.Query(history.Filters{Catalog: "a.json"})
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(3))
		})

		It("filters failed runs", func() {
			runs, err := writer.Query(history.Filters{FailedOnly: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(2))
			for _, run := range runs {
				Expect(run.Passed).To(BeFalse())
			}
		})

		It("filters by time", func() {
			runs, err := writer.Query(history.Filters{Since: base.Add(90 * time.Minute)})
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(2))
		})

		It("applies the limit after sorting", func() {
			runs, err := writer.Query(history.Filters{Limit: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(runs[0].Timestamp).To(Equal(base.Add(3 * time.Hour)))
		})

		It("skips malformed lines", func() {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0600)
			Expect(err).NotTo(HaveOccurred())
			_, err = f.WriteString("not json\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Close()).To(Succeed())

			runs, err := writer.Query(history.Filters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(4))
		})
	})
})
