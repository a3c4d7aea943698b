package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var todoCmd = &cobra.Command{
	Use:     "todo",
	Aliases: []string{"todos"},
	Short:   "Show today's and tomorrow's to-dos",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Close()

		loadErr := sess.dashboard.RefreshTodos(ctx)
		printTodos(cmd.OutOrStdout(), sess.dashboard.View())
		fmt.Fprintln(cmd.OutOrStdout())
		if loadErr != nil {
			return fmt.Errorf("failed to load to-dos: %w", loadErr)
		}
		return nil
	},
}

var coursesCmd = &cobra.Command{
	Use:     "courses",
	Aliases: []string{"course"},
	Short:   "Show course programs and their current subjects",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Close()

		loadErr := sess.dashboard.RefreshCourses(ctx)
		printCourses(cmd.OutOrStdout(), sess.dashboard.View())
		fmt.Fprintln(cmd.OutOrStdout())
		if loadErr != nil {
			return fmt.Errorf("failed to load courses: %w", loadErr)
		}
		return nil
	},
}
