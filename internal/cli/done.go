package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [item]",
	Short: "Toggle an item's completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

var doneList string

func init() {
	doneCmd.Flags().StringVarP(&doneList, "list", "l", "", "List containing the item (required)")
	_ = doneCmd.MarkFlagRequired("list")
}

func runDone(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	list, err := findList(app.Repo.LoadLists(), doneList)
	if err != nil {
		return err
	}
	item, err := findItem(list, args[0])
	if err != nil {
		return err
	}

	completed, err := app.Repo.ToggleItem(list.ID, item.ID)
	if err = warnQueueWrite(err); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	app.Repo.RecomputeAchievements()

	if completed {
		fmt.Printf("✓ Completed %q\n", item.Text)
	} else {
		fmt.Printf("↺ Reopened %q\n", item.Text)
	}
	maybeSyncAfterChange(app)
	return nil
}
