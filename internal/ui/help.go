// ABOUTME: Custom help template for Cobra commands with lipgloss styling
// ABOUTME: Styles usage, flags and examples of validate, rules and history
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	// Help section styles
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	helpHeadingStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorInfo)

	helpCommandStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// EnvAnnotation is the cobra annotation key listing environment variables
// shown in a command's help, one "NAME  description" per line
const EnvAnnotation = "environment"

// SetupHelpTemplate configures styled help and usage output for cmd and
// every subcommand added to it
func SetupHelpTemplate(cmd *cobra.Command) {
	cmd.SetUsageTemplate(usageTemplate)
	cmd.SetHelpTemplate(helpTemplate)

	cobra.AddTemplateFunc("styleTitle", styleTitle)
	cobra.AddTemplateFunc("styleHeading", styleHeading)
	cobra.AddTemplateFunc("styleCommand", styleCommand)
	cobra.AddTemplateFunc("styleFlag", styleFlag)
	cobra.AddTemplateFunc("styleDesc", styleDesc)
	cobra.AddTemplateFunc("styleExample", styleExample)
	cobra.AddTemplateFunc("styleEnv", styleEnv)
}

func styleTitle(s string) string {
	return helpTitleStyle.Render(s)
}

func styleHeading(s string) string {
	return helpHeadingStyle.Render(s)
}

func styleCommand(s string) string {
	return helpCommandStyle.Render(s)
}

func styleFlag(s string) string {
	return helpFlagStyle.Render(s)
}

func styleDesc(s string) string {
	return helpDescStyle.Render(s)
}

func styleExample(s string) string {
	// Indent and style example lines
	lines := strings.Split(s, "\n")
	var styled []string
	for _, line := range lines {
		switch trimmed := strings.TrimSpace(line); {
		case strings.HasPrefix(trimmed, "#"):
			styled = append(styled, helpDescStyle.Render(line))
		case trimmed != "":
			styled = append(styled, helpCommandStyle.Render(line))
		default:
			styled = append(styled, line)
		}
	}
	return strings.Join(styled, "\n")
}

// styleEnv highlights the variable name of each "NAME  description" line
func styleEnv(s string) string {
	var styled []string
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		name, desc, found := strings.Cut(strings.TrimSpace(line), "  ")
		if !found {
			styled = append(styled, "  "+helpFlagStyle.Render(name))
			continue
		}
		styled = append(styled, "  "+helpFlagStyle.Render(name)+"  "+helpDescStyle.Render(strings.TrimSpace(desc)))
	}
	return strings.Join(styled, "\n")
}

const helpTemplate = `{{if .Long}}{{.Long}}{{else}}{{.Short}}{{end}}

{{styleHeading "Usage:"}}
  {{styleCommand .UseLine}}{{if .HasAvailableSubCommands}}
  {{styleCommand .CommandPath}} {{styleDesc "[command]"}}{{end}}{{if gt (len .Aliases) 0}}

{{styleHeading "Aliases:"}}
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{styleHeading "Examples:"}}
{{styleExample .Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

{{styleHeading "Available Commands:"}}{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{styleCommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{styleHeading .Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{styleCommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

{{styleHeading "Additional Commands:"}}{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{styleCommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{styleHeading "Flags:"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{styleHeading "Global Flags:"}}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{with index .Annotations "environment"}}

{{styleHeading "Environment:"}}
{{styleEnv .}}{{end}}{{if .HasHelpSubCommands}}

{{styleHeading "Additional help topics:"}}{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{styleCommand (rpad .CommandPath .CommandPathPadding)}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{styleCommand (print .CommandPath " [command] --help")}}" for more information about a command.{{end}}
`

const usageTemplate = `{{styleHeading "Usage:"}}
  {{styleCommand .UseLine}}{{if .HasAvailableLocalFlags}}

{{styleHeading "Flags:"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}

Run "{{styleCommand (print .CommandPath " --help")}}" for examples and global flags.
`
