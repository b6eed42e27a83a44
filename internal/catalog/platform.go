// ABOUTME: Platform descriptor checks for version records
// ABOUTME: app_release constraints depend on the record's ListMode
package catalog

import "github.com/plugincheck/catalint/internal/document"

const (
	fieldAppID      = "app_id"
	fieldAppRelease = "app_release"
	fieldAppVersion = "app_version"
	fieldLocale     = "locale"
)

var (
	allowedAppIDs      = []string{"*"}
	allowedAppVersions = []string{"*", "Continuous DC"}
	allowedLocales     = []string{"*"}
)

func validatePlatform(c *collector, scope Path, platform document.Value, mode ListMode) {
	c.expectKind(RuleRecordPlatform, scope, platform, document.KindObject)
	c.expectOneOf(RulePlatformAppID, scope.Field(fieldAppID), platform.Field(fieldAppID), allowedAppIDs)
	c.expectOneOf(RulePlatformAppRelease, scope.Field(fieldAppRelease), platform.Field(fieldAppRelease), mode.appReleases())
	c.expectOneOf(RulePlatformAppVersion, scope.Field(fieldAppVersion), platform.Field(fieldAppVersion), allowedAppVersions)
	c.expectOneOf(RulePlatformLocale, scope.Field(fieldLocale), platform.Field(fieldLocale), allowedLocales)
}
