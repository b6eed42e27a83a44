// ABOUTME: Version group and version record validation for one plugin OS entry
// ABOUTME: One record validator serves both latest and vulnerable lists via ListMode
package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/plugincheck/catalint/internal/document"
)

// Version group and record fields
const (
	fieldLatest           = "latest"
	fieldVulnerable       = "vulnerable"
	fieldStatus           = "status"
	fieldVersion          = "version"
	fieldDetectionType    = "detection_type"
	fieldVulnerabilityURL = "vulnerability_url"
	fieldPlatform         = "platform"
)

// Record statuses
const (
	StatusLatest     = "latest"
	StatusVulnerable = "vulnerable"
)

// maxVersionComponents is the component count a version must stay below
const maxVersionComponents = 5

// KnownOSKeys lists the accepted keys of a plugin's versions object
var KnownOSKeys = []string{"win", "mac", "lin", "all"}

// ListMode selects which list of a version group a record belongs to
type ListMode int

const (
	LatestList ListMode = iota
	VulnerableList
)

func (m ListMode) String() string {
	if m == VulnerableList {
		return fieldVulnerable
	}
	return fieldLatest
}

// statuses returns the status values legal in this list
func (m ListMode) statuses() []string {
	if m == VulnerableList {
		return []string{StatusVulnerable}
	}
	return []string{StatusLatest, StatusVulnerable}
}

// appReleases returns the platform app_release values legal in this list
func (m ListMode) appReleases() []string {
	if m == VulnerableList {
		return []string{"*", "Extended Release Version"}
	}
	return []string{"*"}
}

// requiresVulnerabilityURL reports whether a record with the given status
// must carry a vulnerability_url. Every record of a vulnerable list does.
func (m ListMode) requiresVulnerabilityURL(status document.Value) bool {
	if m == VulnerableList {
		return true
	}
	s, ok := status.AsString()
	return ok && s == StatusVulnerable
}

// validateVersionGroup checks one versions[osKey] entry. A record's own
// os_name is never compared with osKey.
func validateVersionGroup(c *collector, scope Path, osKey string, group document.Value) {
	c.expectOneOf(RuleVersionsOS, scope, document.String(osKey), KnownOSKeys)

	latest := group.Field(fieldLatest)
	c.expectKind(RuleVersionsLatest, scope.Field(fieldLatest), latest, document.KindArray)
	for i, record := range latest.Items() {
		validateVersionRecord(c, scope.Index(fieldLatest, i), record, LatestList)
	}

	if !group.Has(fieldVulnerable) {
		return
	}
	vulnerable := group.Field(fieldVulnerable)
	c.expectKind(RuleVersionsVulnerable, scope.Field(fieldVulnerable), vulnerable, document.KindArray)
	for i, record := range vulnerable.Items() {
		validateVersionRecord(c, scope.Index(fieldVulnerable, i), record, VulnerableList)
	}
}

func validateVersionRecord(c *collector, scope Path, record document.Value, mode ListMode) {
	c.expectKind(RuleRecordObject, scope, record, document.KindObject)

	status := record.Field(fieldStatus)
	c.expectOneOf(RuleRecordStatus, scope.Field(fieldStatus), status, mode.statuses())
	if mode.requiresVulnerabilityURL(status) {
		c.expectKind(RuleRecordVulnerabilityURL, scope.Field(fieldVulnerabilityURL), record.Field(fieldVulnerabilityURL), document.KindString)
	}

	validateVersionString(c, scope.Field(fieldVersion), record.Field(fieldVersion))
	c.expectKind(RuleRecordDetectionType, scope.Field(fieldDetectionType), record.Field(fieldDetectionType), document.KindString)
	validatePlatform(c, scope.Field(fieldPlatform), record.Field(fieldPlatform), mode)
}

// validateVersionString checks a dotted version of at most four components,
// each of which must read as a number
func validateVersionString(c *collector, scope Path, v document.Value) {
	s, ok := v.AsString()
	if !ok {
		c.fail(RuleRecordVersion, scope, v, "expected string, got "+v.Kind().String())
		return
	}
	c.pass(RuleRecordVersion, scope)

	parts := strings.Split(s, ".")
	if len(parts) < maxVersionComponents {
		c.pass(RuleRecordVersionParts, scope)
	} else {
		c.fail(RuleRecordVersionParts, scope, v,
			fmt.Sprintf("%d components, at most %d allowed", len(parts), maxVersionComponents-1))
	}

	// The last segment of scope is "version"; components index into it
	parent := scope[:len(scope)-1]
	for i, part := range parts {
		at := parent.Index(fieldVersion, i)
		if isNumericComponent(part) {
			c.pass(RuleRecordVersionNumeric, at)
			continue
		}
		c.fail(RuleRecordVersionNumeric, at, document.String(part), "not a number")
	}
}

// isNumericComponent reports whether part parses as a finite decimal number.
// Empty components, surrounding whitespace and hex literals are rejected.
func isNumericComponent(part string) bool {
	if part == "" {
		return false
	}
	f, err := strconv.ParseFloat(part, 64)
	if err != nil {
		return false
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
