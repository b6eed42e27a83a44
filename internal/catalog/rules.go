// ABOUTME: Rule catalog and violation taxonomy for catalog validation
// ABOUTME: Every result references one rule ID registered here
package catalog

import "slices"

// ViolationKind classifies a failed rule
type ViolationKind string

const (
	StructuralViolation       ViolationKind = "structural"        // wrong container kind, missing required field
	EmptinessViolation        ViolationKind = "emptiness"         // required container is empty
	EnumViolation             ViolationKind = "enum"              // value outside a fixed literal set
	FormatViolation           ViolationKind = "format"            // malformed mime type or version string
	ReferentialViolation      ViolationKind = "referential"       // plugin mime not in the top-level set
	ConditionalFieldViolation ViolationKind = "conditional-field" // field required by status is missing
)

// ViolationKinds returns every kind in reporting order
func ViolationKinds() []ViolationKind {
	return []ViolationKind{
		StructuralViolation,
		EmptinessViolation,
		EnumViolation,
		FormatViolation,
		ReferentialViolation,
		ConditionalFieldViolation,
	}
}

// RuleID names a single validation rule
type RuleID string

const (
	RuleDocumentMimeTypes RuleID = "document.mime-types"
	RuleDocumentPlugins   RuleID = "document.plugins"

	RuleMimeTypesNonEmpty RuleID = "mime-types.non-empty"
	RuleMimeTypesFormat   RuleID = "mime-types.format"

	RulePluginsNonEmpty RuleID = "plugins.non-empty"

	RulePluginObject      RuleID = "plugin.object"
	RulePluginDisplayName RuleID = "plugin.display-name"
	RulePluginDescription RuleID = "plugin.description"
	RulePluginVersions    RuleID = "plugin.versions"
	RulePluginMimes       RuleID = "plugin.mimes"
	RulePluginMimesKnown  RuleID = "plugin.mimes.known"
	RulePluginURL         RuleID = "plugin.url"
	RulePluginRegex       RuleID = "plugin.regex"
	RulePluginRegexItem   RuleID = "plugin.regex.item"

	RuleVersionsOS         RuleID = "versions.os"
	RuleVersionsLatest     RuleID = "versions.latest"
	RuleVersionsVulnerable RuleID = "versions.vulnerable"

	RuleRecordObject           RuleID = "record.object"
	RuleRecordStatus           RuleID = "record.status"
	RuleRecordVulnerabilityURL RuleID = "record.vulnerability-url"
	RuleRecordVersion          RuleID = "record.version"
	RuleRecordVersionParts     RuleID = "record.version.components"
	RuleRecordVersionNumeric   RuleID = "record.version.numeric"
	RuleRecordDetectionType    RuleID = "record.detection-type"
	RuleRecordPlatform         RuleID = "record.platform"

	RulePlatformAppID      RuleID = "platform.app-id"
	RulePlatformAppRelease RuleID = "platform.app-release"
	RulePlatformAppVersion RuleID = "platform.app-version"
	RulePlatformLocale     RuleID = "platform.locale"
)

// Rule describes one registered rule
type Rule struct {
	ID          RuleID        `json:"id" yaml:"id"`
	Kind        ViolationKind `json:"kind" yaml:"kind"`
	Scope       string        `json:"scope" yaml:"scope"`
	Description string        `json:"description" yaml:"description"`
}

var ruleTable = []Rule{
	{RuleDocumentMimeTypes, StructuralViolation, "mime_types", "a mime_types array must exist"},
	{RuleDocumentPlugins, StructuralViolation, "plugins", "a plugins object must exist"},

	{RuleMimeTypesNonEmpty, EmptinessViolation, "mime_types", "mime_types must not be empty"},
	{RuleMimeTypesFormat, FormatViolation, "mime_types[i]", `each mime type must be a string containing "/"`},

	{RulePluginsNonEmpty, EmptinessViolation, "plugins", "plugins must not be empty"},

	{RulePluginObject, StructuralViolation, `plugin:"<name>"`, "a plugin must be an object"},
	{RulePluginDisplayName, StructuralViolation, `plugin:"<name>" > display_name`, "must have a display name"},
	{RulePluginDescription, StructuralViolation, `plugin:"<name>" > description`, "must have a description"},
	{RulePluginVersions, StructuralViolation, `plugin:"<name>" > versions`, "must have a versions object"},
	{RulePluginMimes, StructuralViolation, `plugin:"<name>" > mimes`, "must have a mimes array"},
	{RulePluginMimesKnown, ReferentialViolation, `plugin:"<name>" > mimes[i]`, "every mime must be listed in the top-level mime_types"},
	{RulePluginURL, StructuralViolation, `plugin:"<name>" > url`, "must provide a url"},
	{RulePluginRegex, StructuralViolation, `plugin:"<name>" > regex`, "must provide a regex array"},
	{RulePluginRegexItem, StructuralViolation, `plugin:"<name>" > regex[i]`, "every regex must be a string"},

	{RuleVersionsOS, EnumViolation, `plugin:"<name>" > os:"<key>"`, "must be a known OS key (win, mac, lin, all)"},
	{RuleVersionsLatest, StructuralViolation, `os:"<key>" > latest`, "must have a latest array"},
	{RuleVersionsVulnerable, StructuralViolation, `os:"<key>" > vulnerable`, "a vulnerable list, when present, must be an array"},

	{RuleRecordObject, StructuralViolation, "latest[i] | vulnerable[i]", "a version record must be an object"},
	{RuleRecordStatus, EnumViolation, "<record> > status", "must have a valid status for its list"},
	{RuleRecordVulnerabilityURL, ConditionalFieldViolation, "<record> > vulnerability_url", "a vulnerable version must describe the vulnerability"},
	{RuleRecordVersion, StructuralViolation, "<record> > version", "must define an affected version string"},
	{RuleRecordVersionParts, FormatViolation, "<record> > version", "a version must have fewer than 5 components"},
	{RuleRecordVersionNumeric, FormatViolation, "<record> > version[i]", "every version component must be numeric"},
	{RuleRecordDetectionType, StructuralViolation, "<record> > detection_type", "must define a detection_type"},
	{RuleRecordPlatform, StructuralViolation, "<record> > platform", "must define a platform object"},

	{RulePlatformAppID, EnumViolation, "platform > app_id", `app_id must be "*"`},
	{RulePlatformAppRelease, EnumViolation, "platform > app_release", `app_release must be "*" ("Extended Release Version" also allowed in vulnerable lists)`},
	{RulePlatformAppVersion, EnumViolation, "platform > app_version", `app_version must be "*" or "Continuous DC"`},
	{RulePlatformLocale, EnumViolation, "platform > locale", `locale must be "*"`},
}

var rulesByID = func() map[RuleID]Rule {
	m := make(map[RuleID]Rule, len(ruleTable))
	for _, r := range ruleTable {
		m[r.ID] = r
	}
	return m
}()

// Rules returns every registered rule in evaluation order
func Rules() []Rule {
	return slices.Clone(ruleTable)
}

// LookupRule returns the registered rule for id
func LookupRule(id RuleID) (Rule, bool) {
	r, ok := rulesByID[id]
	return r, ok
}
