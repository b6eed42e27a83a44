// ABOUTME: History command listing previously recorded validation runs
// ABOUTME: Filters the JSONL run log by catalog, outcome and age
package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/plugincheck/catalint/internal/history"
	"github.com/plugincheck/catalint/internal/ui"
)

var (
	historyLimit   int
	historyCatalog string
	historyFailed  bool
	historySince   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded validation runs",
	Long: `Display validation runs recorded by "catalint validate".

Runs are listed newest first. Recording can be turned off with
--no-history or history.enabled = false in config.toml.`,
	Example: `  catalint history
  catalint history --failed --since 7d
  catalint history --catalog docs/plugins_list.json --limit 5`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")
	historyCmd.Flags().StringVar(&historyCatalog, "catalog", "", "Only show runs of this catalog file")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "Only show runs with violations")
	historyCmd.Flags().StringVar(&historySince, "since", "", "Only show runs newer than this (e.g. 30m, 24h, 7d)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	logPath := history.DefaultPath(catalintHome)
	out := cmd.OutOrStdout()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		ui.FprintInfo(out, "No runs recorded yet.")
		ui.FprintInfo(out, "Runs are recorded each time a catalog is validated.")
		return nil
	}

	writer, err := history.NewWriter(logPath)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}

	var sinceTime time.Time
	if historySince != "" {
		duration, err := parseDuration(historySince)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = time.Now().Add(-duration)
	}

	runs, err := writer.Query(history.Filters{
		Catalog:    historyCatalog,
		FailedOnly: historyFailed,
		Since:      sinceTime,
		Limit:      historyLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to query run history: %w", err)
	}

	if len(runs) == 0 {
		ui.FprintInfo(out, "No runs found matching the filters.")
		return nil
	}

	ui.FprintSuccess(out, fmt.Sprintf("Found %d run(s):", len(runs)))
	fmt.Fprintln(out)
	for _, run := range runs {
		displayRun(out, run)
		fmt.Fprintln(out)
	}
	return nil
}

func displayRun(w io.Writer, run *history.Run) {
	timeStr := run.Timestamp.Local().Format("2006-01-02 15:04:05")
	fmt.Fprintf(w, "%s  %s  %s\n", ui.RenderStatus(run.Passed, timeStr), run.Catalog, ui.Muted("("+run.Format+")"))
	fmt.Fprintf(w, "  Results: %d evaluated, %d failed\n", run.Total, run.Failed)

	if len(run.ByKind) > 0 {
		kinds := make([]string, 0, len(run.ByKind))
		for kind, n := range run.ByKind {
			kinds = append(kinds, fmt.Sprintf("%s %d", kind, n))
		}
		sort.Strings(kinds)
		fmt.Fprintf(w, "  Violations: %s\n", strings.Join(kinds, ", "))
	}
	fmt.Fprintf(w, "  %s\n", ui.Muted("id "+run.ID))
}

// parseDuration parses duration strings like "24h", "7d", "30m"
func parseDuration(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		d, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", days)
		}
		if d < 0 {
			return 0, fmt.Errorf("duration %q is negative", s)
		}
		return time.Duration(d) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q is negative", s)
	}
	return d, nil
}
