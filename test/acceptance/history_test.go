// ABOUTME: Acceptance tests for run recording and the history command
// ABOUTME: Verifies runs are appended by validate and filtered on display
package acceptance

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/plugincheck/catalint/test/helpers"
)

func readFile(path string) string {
	data, err := os.ReadFile(path)
	Expect(err).NotTo(HaveOccurred())
	return string(data)
}

var _ = Describe("history", func() {
	var env *helpers.TestEnv

	BeforeEach(func() {
		env = helpers.NewTestEnv(binaryPath)
	})

	It("says so when nothing was recorded", func() {
		result := env.Run("history")

		Expect(result.ExitCode).To(Equal(0))
		Expect(result.Stdout).To(ContainSubstring("No runs recorded yet"))
	})

	It("records each validation run", func() {
		valid := env.WriteCatalog("valid.json", helpers.ValidCatalog())
		env.Run("validate", valid)
		env.Run("validate", valid)

		Expect(env.HistoryLines()).To(HaveLen(2))

		result := env.Run("history")
		Expect(result.ExitCode).To(Equal(0))
		Expect(result.Stdout).To(ContainSubstring("Found 2 run(s)"))
		Expect(result.Stdout).To(ContainSubstring("valid.json"))
	})

	It("skips recording with --no-history", func() {
		valid := env.WriteCatalog("valid.json", helpers.ValidCatalog())
		env.Run("validate", valid, "--no-history")

		Expect(env.HistoryLines()).To(BeEmpty())
	})

	It("skips recording when disabled in config.toml", func() {
		valid := env.WriteCatalog("valid.json", helpers.ValidCatalog())
		env.WriteConfig("[history]\nenabled = false\n")
		env.Run("validate", valid)

		Expect(env.HistoryLines()).To(BeEmpty())
	})

	It("filters to failed runs", func() {
		valid := env.WriteCatalog("valid.json", helpers.ValidCatalog())
		broken := helpers.ValidCatalog()
		broken["mime_types"] = []any{}
		invalid := env.WriteCatalog("invalid.json", broken)

		env.Run("validate", valid)
		env.Run("validate", invalid)

		result := env.Run("history", "--failed")
		Expect(result.ExitCode).To(Equal(0))
		Expect(result.Stdout).To(ContainSubstring("Found 1 run(s)"))
		Expect(result.Stdout).To(ContainSubstring("invalid.json"))
		Expect(result.Stdout).NotTo(ContainSubstring("/valid.json"))
	})

	It("filters by catalog path", func() {
		a := env.WriteCatalog("a.json", helpers.ValidCatalog())
		b := env.WriteCatalog("b.json", helpers.ValidCatalog())
		env.Run("validate", a)
		env.Run("validate", b)

		result := env.Run("history", "--catalog", b)
		Expect(result.Stdout).To(ContainSubstring("Found 1 run(s)"))
		Expect(result.Stdout).To(ContainSubstring("b.json"))
	})

	It("rejects a malformed --since", func() {
		valid := env.WriteCatalog("valid.json", helpers.ValidCatalog())
		env.Run("validate", valid)

		result := env.Run("history", "--since", "yesterday")
		Expect(result.ExitCode).To(Equal(1))
		Expect(result.Stderr).To(ContainSubstring("invalid --since value"))
	})
})
