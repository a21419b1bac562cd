package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add an item to a list",
	Long: `Add a new item to a list.

Examples:
  quicklist add "Milk" --list Groceries
  quicklist add "Finish report" --list Work -p high -d 2026-09-01`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addList       string
	addPriority   string
	addDue        string
	addCategories []string
)

func init() {
	addCmd.Flags().StringVarP(&addList, "list", "l", "", "List to add the item to (required)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "Priority (low, medium, high)")
	addCmd.Flags().StringVarP(&addDue, "due", "d", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().StringSliceVar(&addCategories, "category", nil, "Category names to tag the item with")
	_ = addCmd.MarkFlagRequired("list")
}

func runAdd(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	text := args[0]
	for _, arg := range args[1:] {
		text += " " + arg
	}

	list, err := findList(app.Repo.LoadLists(), addList)
	if err != nil {
		return err
	}

	var dueDate *time.Time
	if addDue != "" {
		t, err := time.Parse("2006-01-02", addDue)
		if err != nil {
			return fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", addDue)
		}
		dueDate = &t
	}

	var categoryIDs []string
	for _, name := range addCategories {
		found := false
		for _, c := range list.Categories {
			if c.Name == name {
				categoryIDs = append(categoryIDs, c.ID)
				found = true
				break
			}
		}
		if !found {
			fmt.Printf("⚠️  List has no category %q, skipping\n", name)
		}
	}

	item, err := app.Repo.AddItem(list.ID, text, addPriority, dueDate, categoryIDs)
	if err = warnQueueWrite(err); err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}
	app.Repo.RecomputeAchievements()

	fmt.Printf("✓ Added %q to %q (%s)\n", item.Text, list.Title, item.ID)
	maybeSyncAfterChange(app)
	return nil
}
