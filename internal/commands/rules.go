// ABOUTME: Rules command listing every rule the validator evaluates
// ABOUTME: Renders the rule table as markdown, or as JSON/YAML for tooling
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/plugincheck/catalint/internal/catalog"
	"github.com/plugincheck/catalint/internal/ui"
)

var (
	rulesRaw    bool
	rulesOutput string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the validation rules",
	Long: `List every rule in evaluation order with the violation kind it
reports and the scope it applies to.`,
	Example: `  catalint rules
  catalint rules --raw > RULES.md
  catalint rules -o json`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().BoolVar(&rulesRaw, "raw", false, "Print unrendered markdown")
	rulesCmd.Flags().StringVarP(&rulesOutput, "output", "o", "markdown", "Output format: markdown, json, yaml")
}

func runRules(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	rules := catalog.Rules()

	switch rulesOutput {
	case "markdown", "md":
		raw := rulesRaw || !ui.IsTerminal(out)
		fmt.Fprint(out, ui.RenderMarkdown(rulesMarkdown(rules), raw))
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rules)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(rules)
	default:
		return fmt.Errorf("unknown output format %q (want markdown, json or yaml)", rulesOutput)
	}
}

func rulesMarkdown(rules []catalog.Rule) string {
	var b strings.Builder
	b.WriteString("# Catalog rules\n\n")
	b.WriteString("| Rule | Kind | Scope | Description |\n")
	b.WriteString("|------|------|-------|-------------|\n")
	for _, r := range rules {
		fmt.Fprintf(&b, "| `%s` | %s | `%s` | %s |\n",
			r.ID, r.Kind, escapePipes(r.Scope), escapePipes(r.Description))
	}
	return b.String()
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
