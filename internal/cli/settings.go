package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/existflow/sheetboard/internal/model"
	"github.com/existflow/sheetboard/internal/settings"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage spreadsheet settings",
	Long: `Show or change the spreadsheet the dashboard reads.

The API key is stored encrypted when SHEETBOARD_SECRET is set.

Examples:
  sheetboard settings                          # Show current settings
  sheetboard settings edit                     # Interactive form
  sheetboard settings set --sheet-id 1AbC... --api-key -
  sheetboard settings set --interval 10
  sheetboard settings clear`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change individual settings",
	RunE:  runSettingsSet,
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the settings in a form",
	RunE:  runSettingsEdit,
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the saved settings",
	RunE:  runSettingsClear,
}

var (
	setSheetID  string
	setRange    string
	setAPIKey   string
	setInterval int
	clearForce  bool
)

func init() {
	settingsSetCmd.Flags().StringVar(&setSheetID, "sheet-id", "", "Spreadsheet ID")
	settingsSetCmd.Flags().StringVar(&setRange, "range", "", "Task range (e.g. A:E)")
	settingsSetCmd.Flags().StringVar(&setAPIKey, "api-key", "", "API key, or - to type it without echo")
	settingsSetCmd.Flags().IntVar(&setInterval, "interval", 0, "Refresh interval in minutes (0 disables the extra timer)")
	settingsClearCmd.Flags().BoolVar(&clearForce, "force", false, "Do not ask for confirmation")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsEditCmd)
	settingsCmd.AddCommand(settingsClearCmd)
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return model.Settings{APIKey: key}.MaskedAPIKey()
}

func printSettings(w io.Writer, s model.Settings, sealed bool) {
	sheetID := s.SheetID
	if sheetID == "" {
		sheetID = "(not set)"
	}
	interval := fmt.Sprintf("%d min", s.RefreshInterval)
	if s.RefreshInterval <= 0 {
		interval = "off"
	}
	storage := "plain"
	if sealed {
		storage = "encrypted"
	}

	fmt.Fprintln(w, "⚙️  Settings")
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
	fmt.Fprintf(w, "  Sheet ID:  %s\n", sheetID)
	fmt.Fprintf(w, "  Range:     %s\n", s.TaskRange())
	fmt.Fprintf(w, "  API key:   %s (%s)\n", maskKey(s.APIKey), storage)
	fmt.Fprintf(w, "  Refresh:   %s\n", interval)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	database, store, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	s, saved, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}
	if !saved {
		fmt.Fprintln(cmd.OutOrStdout(), "No settings saved yet. Run: sheetboard settings edit")
	}
	printSettings(cmd.OutOrStdout(), s, os.Getenv(settings.SecretEnv) != "")
	return nil
}

// readAPIKey reads a key from stdin, without echo when stdin is a terminal
func readAPIKey(w io.Writer) (string, error) {
	fmt.Fprint(w, "API key: ")
	if term.IsTerminal(int(syscall.Stdin)) {
		keyBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}
		return strings.TrimSpace(string(keyBytes)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// applySetFlags copies the changed flags of cmd onto s
func applySetFlags(cmd *cobra.Command, s model.Settings, readKey func() (string, error)) (model.Settings, error) {
	flags := cmd.Flags()
	if flags.Changed("sheet-id") {
		s.SheetID = strings.TrimSpace(setSheetID)
	}
	if flags.Changed("range") {
		s.SheetRange = strings.TrimSpace(setRange)
	}
	if flags.Changed("interval") {
		if setInterval < 0 {
			return s, fmt.Errorf("interval must not be negative")
		}
		s.RefreshInterval = setInterval
	}
	if flags.Changed("api-key") {
		key := strings.TrimSpace(setAPIKey)
		if key == "-" {
			var err error
			if key, err = readKey(); err != nil {
				return s, err
			}
		}
		s.APIKey = key
	}
	return s, nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	s, err := applySetFlags(cmd, sess.settings, func() (string, error) {
		return readAPIKey(cmd.OutOrStdout())
	})
	if err != nil {
		return err
	}

	if err := sess.dashboard.UpdateSettings(ctx, s); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✅ Settings saved.")
	return nil
}

// settingsForm builds the edit form over the string fields
func settingsForm(sheetID, rng, apiKey, interval *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Spreadsheet ID").
				Description("The long ID in the sheet URL").
				Value(sheetID).
				Validate(validateRequired("spreadsheet ID")),
			huh.NewInput().
				Title("Task range").
				Placeholder(model.DefaultSettings().SheetRange).
				Value(rng),
			huh.NewInput().
				Title("API key").
				EchoMode(huh.EchoModePassword).
				Value(apiKey).
				Validate(validateRequired("API key")),
			huh.NewInput().
				Title("Refresh interval (minutes, 0 = off)").
				Value(interval).
				Validate(validateInterval),
		),
	).WithShowHelp(true)
}

func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validateInterval(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number of minutes")
	}
	if n < 0 {
		return fmt.Errorf("interval must not be negative")
	}
	return nil
}

func runSettingsEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	s := sess.settings
	sheetID, rng, apiKey := s.SheetID, s.SheetRange, s.APIKey
	interval := strconv.Itoa(s.RefreshInterval)

	if err := settingsForm(&sheetID, &rng, &apiKey, &interval).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
		return fmt.Errorf("settings form failed: %w", err)
	}

	s.SheetID = strings.TrimSpace(sheetID)
	s.SheetRange = strings.TrimSpace(rng)
	s.APIKey = strings.TrimSpace(apiKey)
	s.RefreshInterval, _ = strconv.Atoi(strings.TrimSpace(interval))

	if err := sess.dashboard.UpdateSettings(ctx, s); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✅ Settings saved.")
	return nil
}

func runSettingsClear(cmd *cobra.Command, args []string) error {
	if !clearForce {
		fmt.Fprint(cmd.OutOrStdout(), "Remove the saved settings? (y/N): ")
		var response string
		_, _ = fmt.Scanln(&response)
		if strings.ToLower(response) != "y" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	database, store, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	if err := store.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✅ Settings cleared.")
	return nil
}
