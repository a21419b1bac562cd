package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark]",
	Short: "Show or set the UI theme preference",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTheme,
}

var languageCmd = &cobra.Command{
	Use:   "language [code]",
	Short: "Show or set the language preference",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLanguage,
}

func runTheme(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if len(args) == 0 {
		fmt.Printf("Theme: %s\n", app.Repo.Theme())
		return nil
	}

	theme := args[0]
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("unknown theme %q, expected light or dark", theme)
	}
	if !app.Repo.SetTheme(theme) {
		return fmt.Errorf("failed to save theme")
	}
	fmt.Printf("✓ Theme set to %s\n", theme)
	return nil
}

func runLanguage(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if len(args) == 0 {
		fmt.Printf("Language: %s\n", app.Repo.Language())
		return nil
	}

	if !app.Repo.SetLanguage(args[0]) {
		return fmt.Errorf("failed to save language")
	}
	fmt.Printf("✓ Language set to %s\n", args[0])
	return nil
}
