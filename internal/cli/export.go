package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all data to a JSON backup",
	Long: `Export lists, sticky notes, categories and achievements to a
single JSON file. With no argument the backup is written to
quicklist-backup-YYYY-MM-DD.json in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import data from a JSON backup",
	Long: `Import a backup produced by 'quicklist export'. The file is
validated in full before anything is written; a malformed backup
leaves existing data untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	data, err := app.Repo.ExportAll()
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	path := fmt.Sprintf("quicklist-backup-%s.json", time.Now().Format("2006-01-02"))
	if len(args) == 1 {
		path = args[0]
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Printf("✓ Exported to %s\n", path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	result := app.Repo.ImportAll(data)
	if !result.Success {
		return fmt.Errorf("import failed: %s", result.Message)
	}

	app.Repo.RecomputeAchievements()
	fmt.Printf("✓ %s\n", result.Message)
	return nil
}
