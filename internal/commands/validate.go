// ABOUTME: Validate command checking one or more catalog files
// ABOUTME: Renders a report per file and records each run in the history log
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/plugincheck/catalint/internal/catalog"
	"github.com/plugincheck/catalint/internal/history"
	"github.com/plugincheck/catalint/internal/loader"
	"github.com/plugincheck/catalint/internal/report"
	"github.com/plugincheck/catalint/internal/ui"
)

var (
	validateInputFormat  string
	validateOutput       string
	validateFailuresOnly bool
	validatePlugin       string
	validateParallel     int
	validateNoHistory    bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate plugin catalog files",
	Long: `Validate one or more plugin catalogs and report every rule result.

Without arguments the catalog from the "catalog" setting is validated
(docs/plugins_list.json unless configured). Use - to read from stdin.
Exits non-zero when any catalog has a violation.`,
	Example: `  catalint validate
  catalint validate docs/plugins_list.json --failures-only
  catalint validate --plugin adobe-reader
  catalint validate catalog.yaml -o json
  cat plugins_list.json | catalint validate - --input-format json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateInputFormat, "input-format", string(loader.FormatAuto), "Catalog encoding: auto, json, yaml")
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "", "Report format: text, json, yaml, markdown (default from settings)")
	validateCmd.Flags().BoolVar(&validateFailuresOnly, "failures-only", false, "Only report failed rules")
	validateCmd.Flags().StringVar(&validatePlugin, "plugin", "", "Only report results for this plugin (the summary still covers the whole catalog)")
	validateCmd.Flags().IntVar(&validateParallel, "parallel", 0, "Validate up to N plugins concurrently (default from settings)")
	validateCmd.Flags().BoolVar(&validateNoHistory, "no-history", false, "Do not record this run in the history log")
}

// validateOptions are the settings after applying command-line flags
type validateOptions struct {
	input        loader.Format
	output       report.Format
	failuresOnly bool
	parallelism  int
	history      bool
}

func resolveValidateOptions(cmd *cobra.Command) (validateOptions, error) {
	opts := validateOptions{
		failuresOnly: settings.FailuresOnly || validateFailuresOnly,
		parallelism:  settings.Parallelism,
		history:      settings.History.Enabled && !validateNoHistory,
	}

	var err error
	if opts.input, err = loader.ParseFormat(validateInputFormat); err != nil {
		return opts, err
	}

	output := settings.Output
	if cmd.Flags().Changed("output") {
		output = validateOutput
	}
	if opts.output, err = report.ParseFormat(output); err != nil {
		return opts, err
	}

	if cmd.Flags().Changed("parallel") {
		if validateParallel < 1 {
			return opts, fmt.Errorf("--parallel must be at least 1, got %d", validateParallel)
		}
		opts.parallelism = validateParallel
	}
	return opts, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	opts, err := resolveValidateOptions(cmd)
	if err != nil {
		return err
	}

	files := args
	if len(files) == 0 {
		files = []string{settings.Catalog}
	}

	var runs *history.Writer
	if opts.history {
		runs, err = history.NewWriter(history.DefaultPath(catalintHome))
		if err != nil {
			logger.Warn("run history disabled", zap.Error(err))
		}
	}

	validator := catalog.New(
		catalog.WithParallelism(opts.parallelism),
		catalog.WithLogger(logger),
	)
	out := cmd.OutOrStdout()
	formatter := report.NewFormatter(out)

	var progress *ui.Progress
	if len(files) > 1 {
		progress = ui.NewProgress("Catalogs", len(files), 5)
	}

	failed := &ValidationFailedError{}
	for _, path := range files {
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		doc, format, err := loader.Load(path, opts.input)
		if err != nil {
			return err
		}
		logger.Debug("catalog loaded",
			zap.String("path", path),
			zap.String("format", string(format)))

		rep := validator.Validate(doc)
		if err := formatter.Render(displayName(path), rep, report.Options{
			Format:       opts.output,
			FailuresOnly: opts.failuresOnly,
			Plugin:       validatePlugin,
			Raw:          !ui.IsTerminal(out),
		}); err != nil {
			return fmt.Errorf("render report: %w", err)
		}

		if runs != nil {
			if err := runs.Write(history.NewRun(path, string(format), rep, time.Now())); err != nil {
				logger.Warn("could not record run", zap.String("path", runs.Path()), zap.Error(err))
			}
		}

		counts := rep.Counts()
		if !rep.Passed() {
			failed.Catalogs = append(failed.Catalogs, displayName(path))
			failed.Violations += counts.Failed
		}
		if progress != nil {
			item := ui.ItemResult{Name: displayName(path), Success: rep.Passed()}
			if !item.Success {
				item.Error = fmt.Sprintf("%d violations", counts.Failed)
			}
			progress.Record(cmd.ErrOrStderr(), item)
		}
	}
	if progress != nil {
		progress.Finish(cmd.ErrOrStderr())
	}

	if len(failed.Catalogs) > 0 {
		return failed
	}
	return nil
}

func displayName(path string) string {
	if path == loader.StdinPath {
		return "<stdin>"
	}
	return path
}
