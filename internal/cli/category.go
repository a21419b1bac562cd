package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quicklist/quicklist/internal/repository"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage list categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a category to a list",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryAdd,
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show a list's categories",
	RunE:  runCategoryList,
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a category and prune its references",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryDelete,
}

var (
	categoryListRef string
	categoryColor   string
	categoryIcon    string
)

func init() {
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)

	categoryCmd.PersistentFlags().StringVarP(&categoryListRef, "list", "l", "", "List owning the category (required)")
	categoryAddCmd.Flags().StringVarP(&categoryColor, "color", "c", "#A5B4FC", "Category color")
	categoryAddCmd.Flags().StringVar(&categoryIcon, "icon", "", "Category icon name")
	_ = categoryCmd.MarkPersistentFlagRequired("list")
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	list, err := findList(app.Repo.LoadLists(), categoryListRef)
	if err != nil {
		return err
	}

	category, err := app.Repo.CreateCategory(list.ID, args[0], categoryColor, categoryIcon)
	if errors.Is(err, repository.ErrDuplicateCategory) {
		return fmt.Errorf("list %q already has a category named %q", list.Title, args[0])
	}
	if err = warnQueueWrite(err); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	fmt.Printf("✓ Added category %q to %q (%s)\n", category.Name, list.Title, category.ID)
	maybeSyncAfterChange(app)
	return nil
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	list, err := findList(app.Repo.LoadLists(), categoryListRef)
	if err != nil {
		return err
	}

	if len(list.Categories) == 0 {
		fmt.Printf("List %q has no categories\n", list.Title)
		return nil
	}
	for _, c := range list.Categories {
		fmt.Printf("%-20s %s  %s\n", c.Name, c.Color, c.ID)
	}
	return nil
}

func runCategoryDelete(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	list, err := findList(app.Repo.LoadLists(), categoryListRef)
	if err != nil {
		return err
	}

	for _, c := range list.Categories {
		if c.Name == args[0] || c.ID == args[0] {
			if err := warnQueueWrite(app.Repo.DeleteCategory(list.ID, c.ID)); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}
			fmt.Printf("✓ Deleted category %q from %q\n", c.Name, list.Title)
			maybeSyncAfterChange(app)
			return nil
		}
	}
	return fmt.Errorf("list %q has no category %q", list.Title, args[0])
}
