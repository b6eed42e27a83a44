// ABOUTME: Plugin catalog and single plugin validation
// ABOUTME: Fans plugins out over an errgroup while keeping results in document order
package catalog

import (
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/plugincheck/catalint/internal/document"
)

// Plugin fields
const (
	fieldDisplayName = "display_name"
	fieldDescription = "description"
	fieldVersions    = "versions"
	fieldMimes       = "mimes"
	fieldURL         = "url"
	fieldRegex       = "regex"
)

func (v *Validator) validatePlugins(c *collector, plugins document.Value, known mapset.Set[string]) {
	c.expectNonEmpty(RulePluginsNonEmpty, Root().Field(fieldPlugins), plugins, document.KindObject)

	members := plugins.Members()
	if v.parallelism <= 1 || len(members) < 2 {
		for _, m := range members {
			validatePlugin(c, m.Key, m.Value, known)
		}
		return
	}

	// One slot per plugin so the merge below is independent of scheduling
	slots := make([][]Result, len(members))
	var g errgroup.Group
	g.SetLimit(v.parallelism)
	for i, m := range members {
		g.Go(func() error {
			pc := &collector{}
			validatePlugin(pc, m.Key, m.Value, known)
			slots[i] = pc.results
			return nil
		})
	}
	_ = g.Wait()

	for _, results := range slots {
		c.results = append(c.results, results...)
	}
	v.logger.Debug("plugins validated concurrently",
		zap.Int("plugins", len(members)),
		zap.Int("workers", v.parallelism))
}

// validatePlugin checks one entry of the plugins mapping under the scope
// plugin:"<name>"
func validatePlugin(c *collector, name string, plugin document.Value, known mapset.Set[string]) {
	scope := PluginScope(name)

	c.expectKind(RulePluginObject, scope, plugin, document.KindObject)
	c.expectKind(RulePluginDisplayName, scope.Field(fieldDisplayName), plugin.Field(fieldDisplayName), document.KindString)
	c.expectKind(RulePluginDescription, scope.Field(fieldDescription), plugin.Field(fieldDescription), document.KindString)

	versions := plugin.Field(fieldVersions)
	c.expectKind(RulePluginVersions, scope.Field(fieldVersions), versions, document.KindObject)
	for _, m := range versions.Members() {
		validateVersionGroup(c, scope.Keyed("os", m.Key), m.Key, m.Value)
	}

	mimes := plugin.Field(fieldMimes)
	c.expectKind(RulePluginMimes, scope.Field(fieldMimes), mimes, document.KindArray)
	for i, mime := range mimes.Items() {
		at := scope.Index(fieldMimes, i)
		if s, ok := mime.AsString(); ok && known.Contains(s) {
			c.pass(RulePluginMimesKnown, at)
			continue
		}
		c.fail(RulePluginMimesKnown, at, mime, "not listed in the top-level mime_types")
	}

	c.expectKind(RulePluginURL, scope.Field(fieldURL), plugin.Field(fieldURL), document.KindString)

	regex := plugin.Field(fieldRegex)
	c.expectKind(RulePluginRegex, scope.Field(fieldRegex), regex, document.KindArray)
	for i, r := range regex.Items() {
		c.expectKind(RulePluginRegexItem, scope.Index(fieldRegex, i), r, document.KindString)
	}
}
