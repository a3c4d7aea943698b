package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/existflow/sheetboard/internal/feed"
	"github.com/existflow/sheetboard/internal/logger"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sheet data to other formats",
}

var exportICalCmd = &cobra.Command{
	Use:   "ical",
	Short: "Export dated to-dos as an iCalendar file",
	Long: `Fetch the to-do sheet and write every dated item as a calendar event.
Items with a time become 30 minute events, the rest all-day events.

Examples:
  sheetboard export ical > todos.ics
  sheetboard export ical -o ~/todos.ics`,
	RunE: runExportICal,
}

var exportOutput string

func init() {
	exportICalCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	exportCmd.AddCommand(exportICalCmd)
}

func runExportICal(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.dashboard.RefreshTodos(ctx); err != nil {
		return fmt.Errorf("failed to load to-dos: %w", err)
	}

	var out io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOutput, err)
		}
		defer func() {
			_ = f.Close()
		}()
		out = f
	}

	items := sess.dashboard.Todos()
	if err := feed.Write(out, items, time.Now()); err != nil {
		return err
	}

	logger.Info("Exported to-dos", logger.F("count", len(items)), logger.F("output", exportOutput))
	if exportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "✅ Wrote %d to-dos to %s\n", len(items), exportOutput)
	}
	return nil
}
