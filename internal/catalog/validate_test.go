// ABOUTME: Behaviour tests for catalog validation across every nesting level
// ABOUTME: Each case mutates a valid fixture and asserts the exact violations reported
package catalog_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/plugincheck/catalint/internal/catalog"
	"github.com/plugincheck/catalint/internal/document"
)

var _ = Describe("Validate", func() {
	var raw map[string]any

	BeforeEach(func() {
		raw = validCatalog()
	})

	Describe("a valid catalog", func() {
		It("reports no violations", func() {
			report := validate(raw)

			Expect(report.Violations()).To(BeEmpty())
			Expect(report.Passed()).To(BeTrue())
			Expect(report.Counts().Total).To(BeNumerically(">", 50))
			Expect(report.Counts().Failed).To(Equal(0))
		})

		It("attaches the registered description to every result", func() {
			for _, res := range validate(raw).Results {
				rule, ok := catalog.LookupRule(res.Rule)
				Expect(ok).To(BeTrue(), "unregistered rule %s", res.Rule)
				Expect(res.Description).To(Equal(rule.Description))
			}
		})

		It("tolerates a record whose os_name disagrees with its group", func() {
			record := recordOf(raw, "adobe-reader", "mac", "latest", 0)
			Expect(record["os_name"]).To(Equal("win"))

			Expect(validate(raw).Passed()).To(BeTrue())
		})

		It("accepts a plugin with an empty versions object and empty latest list", func() {
			pluginOf(raw, "java-runtime")["versions"] = map[string]any{
				"lin": map[string]any{"latest": []any{}},
			}
			Expect(validate(raw).Passed()).To(BeTrue())

			pluginOf(raw, "java-runtime")["versions"] = map[string]any{}
			Expect(validate(raw).Passed()).To(BeTrue())
		})
	})

	Describe("top-level fields", func() {
		It("reports a missing plugins field and its emptiness", func() {
			delete(raw, "plugins")

			violations := validate(raw).Violations()
			Expect(rulesOf(violations)).To(Equal([]catalog.RuleID{
				catalog.RuleDocumentPlugins,
				catalog.RulePluginsNonEmpty,
			}))
			Expect(violations[0].Kind).To(Equal(catalog.StructuralViolation))
			Expect(violations[1].Kind).To(Equal(catalog.EmptinessViolation))
			Expect(violations[0].Value.IsMissing()).To(BeTrue())
		})

		It("keeps validating plugins when mime_types is missing", func() {
			delete(raw, "mime_types")

			report := validate(raw)
			Expect(rulesOf(report.Violations())).To(Equal([]catalog.RuleID{
				catalog.RuleDocumentMimeTypes,
				catalog.RuleMimeTypesNonEmpty,
				catalog.RulePluginMimesKnown,
				catalog.RulePluginMimesKnown,
				catalog.RulePluginMimesKnown,
			}))
			Expect(report.ViolationsOfKind(catalog.ReferentialViolation)).To(HaveLen(3))

			java := report.ForScope(catalog.PluginScope("java-runtime"))
			Expect(java).NotTo(BeEmpty())
			for _, res := range java {
				Expect(res.Scope.Top()).To(Equal(`plugin:"java-runtime"`))
			}
			Expect(rulesOf((&catalog.Report{Results: java}).Violations())).To(Equal([]catalog.RuleID{catalog.RulePluginMimesKnown}))
		})

		It("reports plugins given as an array", func() {
			raw["plugins"] = []any{"adobe-reader"}

			Expect(rulesOf(validate(raw).Violations())).To(Equal([]catalog.RuleID{
				catalog.RuleDocumentPlugins,
				catalog.RulePluginsNonEmpty,
			}))
		})

		It("reports an empty plugins object only as emptiness", func() {
			raw["plugins"] = map[string]any{}

			violations := validate(raw).Violations()
			Expect(violations).To(HaveLen(1))
			Expect(violations[0].Rule).To(Equal(catalog.RulePluginsNonEmpty))
			Expect(violations[0].Kind).To(Equal(catalog.EmptinessViolation))
		})

		It("validates a root that is not an object", func() {
			report := catalog.Validate(document.String("plugins_list"))

			Expect(rulesOf(report.Violations())).To(Equal([]catalog.RuleID{
				catalog.RuleDocumentMimeTypes,
				catalog.RuleMimeTypesNonEmpty,
				catalog.RuleDocumentPlugins,
				catalog.RulePluginsNonEmpty,
			}))
		})
	})

	Describe("mime_types", func() {
		It("reports exactly one format violation for a type without a slash", func() {
			raw["mime_types"] = append(raw["mime_types"].([]any), "textplain")

			report := validate(raw)
			violations := report.Violations()
			Expect(violations).To(HaveLen(1))
			Expect(violations[0].Rule).To(Equal(catalog.RuleMimeTypesFormat))
			Expect(violations[0].Kind).To(Equal(catalog.FormatViolation))
			Expect(violations[0].Scope.String()).To(Equal("mime_types[3]"))
			Expect(violations[0].Value).To(Equal(document.String("textplain")))
			Expect(violations[0].Detail).To(ContainSubstring(`"/"`))

			passes := 0
			for _, res := range report.Results {
				if res.Rule == catalog.RuleMimeTypesFormat && res.Passed {
					passes++
				}
			}
			Expect(passes).To(Equal(3))
		})

		It("reports a non-string entry as structural", func() {
			raw["mime_types"] = append(raw["mime_types"].([]any), 42)

			violations := validate(raw).Violations()
			Expect(violations).To(HaveLen(1))
			Expect(violations[0].Rule).To(Equal(catalog.RuleMimeTypesFormat))
			Expect(violations[0].Kind).To(Equal(catalog.StructuralViolation))
		})

		It("reports an empty list", func() {
			raw["mime_types"] = []any{}

			report := validate(raw)
			Expect(report.ViolationsOfKind(catalog.EmptinessViolation)).To(HaveLen(1))
			// every plugin mime now dangles
			Expect(report.ViolationsOfKind(catalog.ReferentialViolation)).To(HaveLen(3))
		})
	})

	Describe("a plugin", func() {
		It("reports exactly one referential violation for an unlisted mime", func() {
			pluginOf(raw, "java-runtime")["mimes"] = []any{"application/x-java-applet", "application/x-unlisted"}

			violations := validate(raw).Violations()
			Expect(violations).To(HaveLen(1))
			Expect(violations[0].Kind).To(Equal(catalog.ReferentialViolation))
			Expect(violations[0].Scope.HasPrefix(catalog.PluginScope("java-runtime"))).To(BeTrue())
			Expect(violations[0].Scope.String()).To(Equal(`plugin:"java-runtime" > mimes[1]`))
		})

		It("reports every field of a plugin that is not an object", func() {
			raw["plugins"].(map[string]any)["broken"] = "nope"

			report := validate(raw)
			violations := report.Violations()
			Expect(rulesOf(violations)).To(Equal([]catalog.RuleID{
				catalog.RulePluginObject,
				catalog.RulePluginDisplayName,
				catalog.RulePluginDescription,
				catalog.RulePluginVersions,
				catalog.RulePluginMimes,
				catalog.RulePluginURL,
				catalog.RulePluginRegex,
			}))
			for _, v := range violations {
				Expect(v.Kind).To(Equal(catalog.StructuralViolation))
				Expect(v.Scope.Top()).To(Equal(`plugin:"broken"`))
			}
		})

		DescribeTable("scalar and container fields",
			func(field string, value any, rule catalog.RuleID) {
				plugin := pluginOf(raw, "adobe-reader")
				if value == nil {
					delete(plugin, field)
				} else {
					plugin[field] = value
				}

				violations := validate(raw).Violations()
				Expect(rulesOf(violations)).To(Equal([]catalog.RuleID{rule}))
				Expect(violations[0].Kind).To(Equal(catalog.StructuralViolation))
			},
			Entry("missing display_name", "display_name", nil, catalog.RulePluginDisplayName),
			Entry("numeric description", "description", 3, catalog.RulePluginDescription),
			Entry("versions as array", "versions", []any{}, catalog.RulePluginVersions),
			Entry("mimes as string", "mimes", "application/pdf", catalog.RulePluginMimes),
			Entry("missing url", "url", nil, catalog.RulePluginURL),
			Entry("regex as string", "regex", "Adobe.*", catalog.RulePluginRegex),
			Entry("regex item not a string", "regex", []any{"Adobe.*", 7}, catalog.RulePluginRegexItem),
		)

		It("does not check regular expression syntax", func() {
			pluginOf(raw, "adobe-reader")["regex"] = []any{"(unclosed"}
			Expect(validate(raw).Passed()).To(BeTrue())
		})
	})

	Describe("a version group", func() {
		It("reports an unknown OS key as an enum violation", func() {
			versions := pluginOf(raw, "adobe-reader")["versions"].(map[string]any)
			versions["beos"] = versions["mac"]

			violations := validate(raw).Violations()
			Expect(violations).To(HaveLen(1))
			Expect(violations[0].Rule).To(Equal(catalog.RuleVersionsOS))
			Expect(violations[0].Kind).To(Equal(catalog.EnumViolation))
			Expect(violations[0].Scope.String()).To(Equal(`plugin:"adobe-reader" > os:"beos"`))
		})

		It("requires a latest array", func() {
			group := pluginOf(raw, "adobe-reader")["versions"].(map[string]any)["mac"].(map[string]any)
			delete(group, "latest")

			Expect(rulesOf(validate(raw).Violations())).To(Equal([]catalog.RuleID{catalog.RuleVersionsLatest}))
		})

		It("reports a vulnerable field that is not an array", func() {
			group := pluginOf(raw, "adobe-reader")["versions"].(map[string]any)["mac"].(map[string]any)
			group["vulnerable"] = "none"

			Expect(rulesOf(validate(raw).Violations())).To(Equal([]catalog.RuleID{catalog.RuleVersionsVulnerable}))
		})
	})

	Describe("a version record", func() {
		It("requires vulnerability_url for a vulnerable record in the latest list", func() {
			record := recordOf(raw, "java-runtime", "all", "latest", 0)
			delete(record, "vulnerability_url")

			violations := validate(raw).Violations()
			Expect(violations).To(HaveLen(1))
			Expect(violations[0].Rule).To(Equal(catalog.RuleRecordVulnerabilityURL))
			Expect(violations[0].Kind).To(Equal(catalog.ConditionalFieldViolation))
			Expect(violations[0].Scope.String()).To(Equal(`plugin:"java-runtime" > os:"all" > latest[0] > vulnerability_url`))
		})

		It("does not require vulnerability_url for a latest record", func() {
			record := recordOf(raw, "java-runtime", "all", "latest", 0)
			delete(record, "vulnerability_url")
			record["status"] = "latest"

			report := validate(raw)
			Expect(report.Violations()).To(BeEmpty())
			Expect(report.EvaluatedRules()).NotTo(ContainElement(catalog.RuleRecordVulnerabilityURL))
		})

		It("always requires vulnerability_url in the vulnerable list", func() {
			record := recordOf(raw, "adobe-reader", "win", "vulnerable", 0)
			delete(record, "vulnerability_url")

			violations := validate(raw).Violations()
			Expect(violations).To(HaveLen(1))
			Expect(violations[0].Kind).To(Equal(catalog.ConditionalFieldViolation))
		})

		It("requires vulnerability_url in the vulnerable list even when status is wrong", func() {
			record := recordOf(raw, "adobe-reader", "win", "vulnerable", 0)
			record["status"] = "latest"
			delete(record, "vulnerability_url")

			Expect(rulesOf(validate(raw).Violations())).To(Equal([]catalog.RuleID{
				catalog.RuleRecordStatus,
				catalog.RuleRecordVulnerabilityURL,
			}))
		})

		DescribeTable("status",
			func(list string, status any, wantViolation bool) {
				plugin, os := "adobe-reader", "win"
				record := recordOf(raw, plugin, os, list, 0)
				record["status"] = status
				if status == "vulnerable" && record["vulnerability_url"] == nil {
					record["vulnerability_url"] = "https://example.com/advisory"
				}

				violations := validate(raw).Violations()
				if !wantViolation {
					Expect(violations).To(BeEmpty())
					return
				}
				Expect(rulesOf(violations)).To(Equal([]catalog.RuleID{catalog.RuleRecordStatus}))
				Expect(violations[0].Kind).To(Equal(catalog.EnumViolation))
			},
			Entry("latest in latest list", "latest", "latest", false),
			Entry("vulnerable in latest list", "latest", "vulnerable", false),
			Entry("vulnerable in vulnerable list", "vulnerable", "vulnerable", false),
			Entry("latest in vulnerable list", "vulnerable", "latest", true),
			Entry("unknown status", "latest", "outdated", true),
			Entry("numeric status", "latest", 1, true),
		)

		DescribeTable("version strings",
			func(version any, want []catalog.RuleID) {
				recordOf(raw, "adobe-reader", "mac", "latest", 0)["version"] = version

				report := validate(raw)
				violations := report.Violations()
				Expect(rulesOf(violations)).To(Equal(want))
				for _, v := range violations {
					if v.Rule != catalog.RuleRecordVersion {
						Expect(v.Kind).To(Equal(catalog.FormatViolation))
					}
				}
			},
			Entry("two numeric components", "12.0", []catalog.RuleID{}),
			Entry("four components", "12.0.0.1", []catalog.RuleID{}),
			Entry("single component", "12", []catalog.RuleID{}),
			Entry("fractional component", "12.0.5e1", []catalog.RuleID{}),
			Entry("five components", "12.0.0.1.5", []catalog.RuleID{catalog.RuleRecordVersionParts}),
			Entry("non-numeric component", "12.x", []catalog.RuleID{catalog.RuleRecordVersionNumeric}),
			Entry("empty component", "12..0", []catalog.RuleID{catalog.RuleRecordVersionNumeric}),
			Entry("empty string", "", []catalog.RuleID{catalog.RuleRecordVersionNumeric}),
			Entry("infinite component", "Infinity.1", []catalog.RuleID{catalog.RuleRecordVersionNumeric}),
			Entry("five components with a bad one", "1.2.3.4.b", []catalog.RuleID{
				catalog.RuleRecordVersionParts,
				catalog.RuleRecordVersionNumeric,
			}),
			Entry("not a string", 12, []catalog.RuleID{catalog.RuleRecordVersion}),
		)

		It("scopes a bad version component by its index", func() {
			recordOf(raw, "adobe-reader", "mac", "latest", 0)["version"] = "12.x"

			violations := validate(raw).Violations()
			Expect(violations).To(HaveLen(1))
			Expect(violations[0].Scope.String()).To(Equal(`plugin:"adobe-reader" > os:"mac" > latest[0] > version[1]`))
			Expect(violations[0].Value).To(Equal(document.String("x")))
		})

		It("reports a record that is not an object along with its fields", func() {
			group := pluginOf(raw, "adobe-reader")["versions"].(map[string]any)["mac"].(map[string]any)
			group["latest"] = []any{"11.0.10"}

			violations := validate(raw).Violations()
			Expect(rulesOf(violations)).To(Equal([]catalog.RuleID{
				catalog.RuleRecordObject,
				catalog.RuleRecordStatus,
				catalog.RuleRecordVersion,
				catalog.RuleRecordDetectionType,
				catalog.RuleRecordPlatform,
				catalog.RulePlatformAppID,
				catalog.RulePlatformAppRelease,
				catalog.RulePlatformAppVersion,
				catalog.RulePlatformLocale,
			}))
		})

		It("requires a detection_type", func() {
			delete(recordOf(raw, "java-runtime", "all", "latest", 0), "detection_type")

			Expect(rulesOf(validate(raw).Violations())).To(Equal([]catalog.RuleID{catalog.RuleRecordDetectionType}))
		})
	})

	Describe("a platform descriptor", func() {
		DescribeTable("constraints by list",
			func(list, field string, value any, wantViolation bool) {
				record := recordOf(raw, "adobe-reader", "win", list, 0)
				record["platform"].(map[string]any)[field] = value

				violations := validate(raw).Violations()
				if !wantViolation {
					Expect(violations).To(BeEmpty())
					return
				}
				Expect(violations).To(HaveLen(1))
				Expect(violations[0].Kind).To(Equal(catalog.EnumViolation))
				Expect(violations[0].Scope[len(violations[0].Scope)-1].Name).To(Equal(field))
			},
			Entry("extended release in latest list", "latest", "app_release", "Extended Release Version", true),
			Entry("extended release in vulnerable list", "vulnerable", "app_release", "Extended Release Version", false),
			Entry("wildcard release in vulnerable list", "vulnerable", "app_release", "*", false),
			Entry("beta release in vulnerable list", "vulnerable", "app_release", "Beta", true),
			Entry("continuous DC version", "latest", "app_version", "Continuous DC", false),
			Entry("specific app version", "latest", "app_version", "11.0", true),
			Entry("specific app id", "vulnerable", "app_id", "{ec8030f7}", true),
			Entry("specific locale", "latest", "locale", "en-US", true),
		)

		It("reports a missing platform and each of its fields", func() {
			delete(recordOf(raw, "java-runtime", "all", "latest", 0), "platform")

			violations := validate(raw).Violations()
			Expect(rulesOf(violations)).To(Equal([]catalog.RuleID{
				catalog.RuleRecordPlatform,
				catalog.RulePlatformAppID,
				catalog.RulePlatformAppRelease,
				catalog.RulePlatformAppVersion,
				catalog.RulePlatformLocale,
			}))
			Expect(violations[0].Kind).To(Equal(catalog.StructuralViolation))
		})
	})

	Describe("stability", func() {
		BeforeEach(func() {
			plugins := raw["plugins"].(map[string]any)
			for i := range 24 {
				copied := validCatalog()
				p := pluginOf(copied, "adobe-reader")
				if i%5 == 0 {
					p["mimes"] = []any{"application/x-unlisted"}
				}
				if i%7 == 0 {
					recordOf(copied, "adobe-reader", "win", "latest", 0)["version"] = "1.2.3.4.5"
				}
				plugins[fmt.Sprintf("plugin-%02d", i)] = p
			}
		})

		It("produces identical results on repeated runs", func() {
			doc := document.MustFromAny(raw)

			first := catalog.Validate(doc)
			second := catalog.Validate(doc)
			Expect(second.Results).To(Equal(first.Results))
		})

		It("produces the sequential result order when validating in parallel", func() {
			doc := document.MustFromAny(raw)

			sequential := catalog.Validate(doc)
			for _, n := range []int{2, 4, 16} {
				parallel := catalog.Validate(doc, catalog.WithParallelism(n))
				Expect(parallel.Results).To(Equal(sequential.Results), "parallelism %d", n)
			}
			Expect(sequential.Counts().Failed).To(Equal(5 + 4))
		})

		It("does not mutate the document", func() {
			doc := document.MustFromAny(raw)
			pristine := document.MustFromAny(roundTrip(raw))

			catalog.New(catalog.WithParallelism(4)).Validate(doc)
			Expect(doc.Equal(pristine)).To(BeTrue())
		})
	})
})

// roundTrip rebuilds raw through the value model so the comparison copy
// shares no memory with the validated document
func roundTrip(raw map[string]any) map[string]any {
	return document.MustFromAny(raw).Interface().(map[string]any)
}
