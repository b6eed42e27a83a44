// ABOUTME: Renders catalog validation reports to terminal or machine output
// ABOUTME: Supports text, JSON, YAML and markdown formats
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/plugincheck/catalint/internal/catalog"
	"github.com/plugincheck/catalint/internal/ui"
)

// Format names an output encoding
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Formats returns every supported output format
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatMarkdown}
}

// ParseFormat validates an output format name. The empty string means text.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	if f == "md" {
		return FormatMarkdown, nil
	}
	if slices.Contains(Formats(), f) {
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (valid: text, json, yaml, markdown)", s)
}

// Options configures report rendering
type Options struct {
	Format       Format
	FailuresOnly bool   // omit passing results
	Plugin       string // only show results inside this plugin's scope
	Raw          bool   // markdown is written unrendered
}

// Formatter renders validation reports to an io.Writer
type Formatter struct {
	w io.Writer
}

// NewFormatter creates a new Formatter that writes to w
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

// Render writes the report for the catalog called name
func (f *Formatter) Render(name string, rep *catalog.Report, opts Options) error {
	summary := Summarize(name, rep)
	shown := rep
	if opts.FailuresOnly {
		shown = rep.FailuresOnly()
	}
	if opts.Plugin != "" {
		shown = &catalog.Report{Results: shown.ForScope(catalog.PluginScope(opts.Plugin))}
	}

	switch opts.Format {
	case FormatJSON:
		return f.renderJSON(summary, shown)
	case FormatYAML:
		return f.renderYAML(summary, shown)
	case FormatMarkdown:
		return f.renderMarkdown(summary, shown, opts.Raw)
	case FormatText, "":
		f.renderText(summary, shown)
		return nil
	}
	return fmt.Errorf("unsupported output format %q", opts.Format)
}

// Summary holds the totals of one report
type Summary struct {
	Catalog string
	Passed  bool
	Counts  catalog.Counts
	Rules   int // distinct rules evaluated
	ByKind  map[catalog.ViolationKind]int
}

// Summarize computes the totals of rep
func Summarize(name string, rep *catalog.Report) Summary {
	return Summary{
		Catalog: name,
		Passed:  rep.Passed(),
		Counts:  rep.Counts(),
		Rules:   len(rep.EvaluatedRules()),
		ByKind:  rep.CountByKind(),
	}
}

// renderText groups results by their top scope: the document, mime_types,
// and one group per plugin
func (f *Formatter) renderText(s Summary, rep *catalog.Report) {
	fmt.Fprintln(f.w, ui.RenderHeader(s.Catalog))
	fmt.Fprintln(f.w)

	for _, group := range groupByTop(rep.Results) {
		fmt.Fprintln(f.w, ui.RenderSection(group.top, len(group.results)))
		for _, res := range group.results {
			fmt.Fprintln(f.w, ui.Indent(textLine(res), 1))
			if !res.Passed {
				fmt.Fprintln(f.w, ui.Indent(ui.Muted(ui.SymbolArrow+" "+failureDetail(res)), 2))
			}
		}
		fmt.Fprintln(f.w)
	}

	f.renderTextSummary(s)
}

func textLine(res catalog.Result) string {
	label := fmt.Sprintf("%s %s", res.Scope, ui.Muted("["+string(res.Rule)+"]"))
	if res.Passed {
		return ui.RenderStatus(true, label)
	}
	return ui.RenderStatus(false, label+" "+ui.Warning(string(res.Kind)))
}

func failureDetail(res catalog.Result) string {
	detail := res.Description + ": " + res.Detail
	if !res.Value.IsMissing() {
		detail += " (value " + truncate(res.Value.String(), 60) + ")"
	}
	return detail
}

// truncate shortens s to maxLen runes, never splitting a character
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func (f *Formatter) renderTextSummary(s Summary) {
	fmt.Fprintln(f.w, ui.RenderSection("Summary", -1))
	fmt.Fprintln(f.w, ui.Indent(ui.RenderDetail("Rules evaluated", fmt.Sprint(s.Counts.Total)), 1))
	fmt.Fprintln(f.w, ui.Indent(ui.RenderDetail("Distinct rules", fmt.Sprint(s.Rules)), 1))
	fmt.Fprintln(f.w, ui.Indent(ui.RenderDetail("Passed", fmt.Sprint(s.Counts.Passed)), 1))
	fmt.Fprintln(f.w, ui.Indent(ui.RenderDetail("Failed", fmt.Sprint(s.Counts.Failed)), 1))
	for _, kind := range catalog.ViolationKinds() {
		if n := s.ByKind[kind]; n > 0 {
			fmt.Fprintln(f.w, ui.Indent(ui.RenderDetail(string(kind), fmt.Sprint(n)), 2))
		}
	}
	fmt.Fprintln(f.w)

	if s.Passed {
		ui.FprintSuccess(f.w, fmt.Sprintf("%s is valid", s.Catalog))
		return
	}
	ui.FprintError(f.w, fmt.Sprintf("%s has %d violation(s)", s.Catalog, s.Counts.Failed))
}

type scopeGroup struct {
	top     string
	results []catalog.Result
}

// groupByTop keeps first-seen order of groups and result order within them
func groupByTop(results []catalog.Result) []scopeGroup {
	var groups []scopeGroup
	index := make(map[string]int)
	for _, res := range results {
		top := res.Scope.Top()
		if strings.HasPrefix(top, "mime_types") {
			top = "mime_types"
		}
		i, ok := index[top]
		if !ok {
			i = len(groups)
			index[top] = i
			groups = append(groups, scopeGroup{top: top})
		}
		groups[i].results = append(groups[i].results, res)
	}
	return groups
}

// Output is the machine-readable report shape
type Output struct {
	Catalog string         `json:"catalog" yaml:"catalog"`
	Passed  bool           `json:"passed" yaml:"passed"`
	Counts  catalog.Counts `json:"counts" yaml:"counts"`
	Rules   int            `json:"rules" yaml:"rules"`
	ByKind  map[string]int `json:"by_kind" yaml:"by_kind"`
	Results []OutputResult `json:"results" yaml:"results"`
}

// OutputResult is one result in the machine-readable report
type OutputResult struct {
	Rule        string `json:"rule" yaml:"rule"`
	Scope       string `json:"scope" yaml:"scope"`
	Description string `json:"description" yaml:"description"`
	Passed      bool   `json:"passed" yaml:"passed"`
	Kind        string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Value       any    `json:"value,omitempty" yaml:"value,omitempty"`
	Detail      string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// NewOutput builds the machine-readable form of rep
func NewOutput(s Summary, rep *catalog.Report) Output {
	out := Output{
		Catalog: s.Catalog,
		Passed:  s.Passed,
		Counts:  s.Counts,
		Rules:   s.Rules,
		ByKind:  make(map[string]int, len(s.ByKind)),
		Results: make([]OutputResult, 0, len(rep.Results)),
	}
	for kind, n := range s.ByKind {
		out.ByKind[string(kind)] = n
	}
	for _, res := range rep.Results {
		r := OutputResult{
			Rule:        string(res.Rule),
			Scope:       res.Scope.String(),
			Description: res.Description,
			Passed:      res.Passed,
		}
		if !res.Passed {
			r.Kind = string(res.Kind)
			r.Value = res.Value.Interface()
			r.Detail = res.Detail
		}
		out.Results = append(out.Results, r)
	}
	return out
}

func (f *Formatter) renderJSON(s Summary, rep *catalog.Report) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewOutput(s, rep))
}

func (f *Formatter) renderYAML(s Summary, rep *catalog.Report) error {
	enc := yaml.NewEncoder(f.w)
	enc.SetIndent(2)
	if err := enc.Encode(NewOutput(s, rep)); err != nil {
		return err
	}
	return enc.Close()
}

func (f *Formatter) renderMarkdown(s Summary, rep *catalog.Report, raw bool) error {
	_, err := io.WriteString(f.w, ui.RenderMarkdown(Markdown(s, rep), raw))
	return err
}

// Markdown renders a report as a markdown document with a table of
// violations
func Markdown(s Summary, rep *catalog.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Catalog)
	if s.Passed {
		fmt.Fprintf(&b, "**Valid**: %d rules passed.\n\n", s.Counts.Passed)
	} else {
		fmt.Fprintf(&b, "**Invalid**: %d of %d rules failed.\n\n", s.Counts.Failed, s.Counts.Total)
	}

	if len(s.ByKind) > 0 {
		b.WriteString("| kind | violations |\n|---|---:|\n")
		for _, kind := range catalog.ViolationKinds() {
			if n := s.ByKind[kind]; n > 0 {
				fmt.Fprintf(&b, "| %s | %d |\n", kind, n)
			}
		}
		b.WriteString("\n")
	}

	if len(rep.Violations()) == 0 {
		return b.String()
	}
	b.WriteString("## Violations\n")
	for _, kind := range catalog.ViolationKinds() {
		violations := rep.ViolationsOfKind(kind)
		if len(violations) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n\n", kind)
		b.WriteString("| scope | rule | detail | value |\n|---|---|---|---|\n")
		for _, res := range violations {
			fmt.Fprintf(&b, "| %s | `%s` | %s | %s |\n",
				escapeCell(res.Scope.String()), res.Rule,
				escapeCell(res.Detail), escapeCell(res.Value.String()))
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
