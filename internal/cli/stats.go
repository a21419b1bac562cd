package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics and achievements",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	stats := app.Repo.ComputeStats()
	achievements := app.Repo.RecomputeAchievements()

	fmt.Println("📊 Statistics")
	fmt.Printf("  Lists:           %d\n", stats.Lists)
	fmt.Printf("  Items:           %d\n", stats.Items)
	fmt.Printf("  Completed items: %d\n", stats.CompletedItems)
	fmt.Printf("  Sticky notes:    %d\n", stats.Notes)

	fmt.Println("\n🏆 Achievements")
	for _, a := range achievements {
		mark := " "
		if a.Unlocked {
			mark = "✓"
		}
		fmt.Printf("  [%s] %-20s %d/%d  %s\n", mark, a.Title, a.Progress, a.MaxProgress, a.Description)
	}
	return nil
}
