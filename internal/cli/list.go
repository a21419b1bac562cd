package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show all lists",
	RunE:  runLists,
}

var listsCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new list",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runListsCreate,
}

var listsDeleteCmd = &cobra.Command{
	Use:   "delete [list]",
	Short: "Delete a list and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE:  runListsDelete,
}

var (
	listColor       string
	listDescription string
)

func init() {
	listsCmd.AddCommand(listsCreateCmd)
	listsCmd.AddCommand(listsDeleteCmd)

	listsCreateCmd.Flags().StringVarP(&listColor, "color", "c", "#FDF2B2", "List color")
	listsCreateCmd.Flags().StringVarP(&listDescription, "description", "d", "", "List description")
}

func runLists(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	lists := app.Repo.LoadLists()
	if len(lists) == 0 {
		fmt.Println("No lists yet. Create one with: quicklist lists create \"My list\"")
		return nil
	}

	for _, l := range lists {
		done := 0
		for _, it := range l.Items {
			if it.Completed {
				done++
			}
		}
		marker := " "
		if l.Archived {
			marker = "A"
		}
		fmt.Printf("%s %-30s %3d/%-3d done  %s\n", marker, l.Title, done, len(l.Items), l.ID)
		for _, it := range l.Items {
			check := " "
			if it.Completed {
				check = "x"
			}
			fmt.Printf("    [%s] %s\n", check, it.Text)
		}
	}
	return nil
}

func runListsCreate(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	title := args[0]
	for _, arg := range args[1:] {
		title += " " + arg
	}

	list, err := app.Repo.CreateList(title, listDescription, listColor)
	if err = warnQueueWrite(err); err != nil {
		return fmt.Errorf("failed to create list: %w", err)
	}
	app.Repo.RecomputeAchievements()

	fmt.Printf("✓ Created list %q (%s)\n", list.Title, list.ID)
	maybeSyncAfterChange(app)
	return nil
}

func runListsDelete(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	list, err := findList(app.Repo.LoadLists(), args[0])
	if err != nil {
		return err
	}

	if err := warnQueueWrite(app.Repo.DeleteList(list.ID)); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}

	fmt.Printf("✓ Deleted list %q\n", list.Title)
	maybeSyncAfterChange(app)
	return nil
}
