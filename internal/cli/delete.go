package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [item]",
	Short: "Delete an item from a list",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var deleteList string

func init() {
	deleteCmd.Flags().StringVarP(&deleteList, "list", "l", "", "List containing the item (required)")
	_ = deleteCmd.MarkFlagRequired("list")
}

func runDelete(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	list, err := findList(app.Repo.LoadLists(), deleteList)
	if err != nil {
		return err
	}
	item, err := findItem(list, args[0])
	if err != nil {
		return err
	}

	if err := warnQueueWrite(app.Repo.DeleteItem(list.ID, item.ID)); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	app.Repo.RecomputeAchievements()

	fmt.Printf("✓ Deleted %q from %q\n", item.Text, list.Title)
	maybeSyncAfterChange(app)
	return nil
}
