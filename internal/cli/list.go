package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/sheetboard/internal/dashboard"
	"github.com/existflow/sheetboard/internal/model"
	"github.com/existflow/sheetboard/internal/pipeline"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Fetch the task sheet once and list the pending tasks, most urgent first.

Examples:
  sheetboard list
  sheetboard list --category 개발
  sheetboard list --deadline urgent
  sheetboard list --done`,
	RunE: runList,
}

var (
	listDone     bool
	listCategory string
	listDeadline string
)

func init() {
	listCmd.Flags().BoolVar(&listDone, "done", false, "Show completed tasks instead")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category")
	listCmd.Flags().StringVarP(&listDeadline, "deadline", "d", "",
		"Filter by deadline bucket (overdue, urgent, soon, warning, normal, safe)")
}

// parseFilter validates the filter flags
func parseFilter(category, bucket string) (pipeline.Filter, error) {
	f := pipeline.Filter{Category: strings.TrimSpace(category)}
	bucket = strings.ToLower(strings.TrimSpace(bucket))
	if bucket == "" || bucket == pipeline.FilterAll {
		return f, nil
	}
	b := model.Bucket(bucket)
	if !b.Valid() {
		return f, fmt.Errorf("unknown deadline bucket %q", bucket)
	}
	f.Deadline = b
	return f, nil
}

func runList(cmd *cobra.Command, args []string) error {
	f, err := parseFilter(listCategory, listDeadline)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	loadErr := sess.dashboard.RefreshTasks(ctx)
	v := sess.dashboard.ViewWith(f)

	out := cmd.OutOrStdout()
	printSummary(out, v)
	printTasks(out, v, listDone)
	fmt.Fprintln(out)

	if loadErr != nil {
		return fmt.Errorf("failed to load %s: %w", dashboard.SectionTasks, loadErr)
	}
	return nil
}
