package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quicklist/quicklist/internal/model"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage the sticky-note board",
}

var noteAddCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Add a sticky note",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNoteAdd,
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all sticky notes",
	RunE:  runNoteList,
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a sticky note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteDelete,
}

var noteMoveCmd = &cobra.Command{
	Use:   "move [id] [x] [y]",
	Short: "Move a note on the board",
	Args:  cobra.ExactArgs(3),
	RunE:  runNoteMove,
}

var (
	noteType  string
	noteTitle string
	noteColor string
	noteX     float64
	noteY     float64
)

func init() {
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteDeleteCmd)
	noteCmd.AddCommand(noteMoveCmd)

	noteAddCmd.Flags().StringVarP(&noteType, "type", "t", model.NoteTypeContent, "Note type (title, content, list, category)")
	noteAddCmd.Flags().StringVar(&noteTitle, "title", "", "Note title")
	noteAddCmd.Flags().StringVarP(&noteColor, "color", "c", "#FDF2B2", "Note color")
	noteAddCmd.Flags().Float64VarP(&noteX, "x", "x", 0, "Board X position")
	noteAddCmd.Flags().Float64VarP(&noteY, "y", "y", 0, "Board Y position")
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	content := args[0]
	for _, arg := range args[1:] {
		content += " " + arg
	}

	note, err := app.Repo.CreateNote(noteType, noteTitle, content, nil, nil, noteColor,
		model.Position{X: noteX, Y: noteY})
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	app.Repo.RecomputeAchievements()

	fmt.Printf("✓ Added note (%s)\n", note.ID)
	return nil
}

func runNoteList(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	notes := app.Repo.LoadNotes()
	if len(notes) == 0 {
		fmt.Println("The board is empty")
		return nil
	}
	for _, n := range notes {
		text := n.Content
		if n.Title != "" {
			text = n.Title + ": " + text
		}
		fmt.Printf("%-8s (%.0f,%.0f)  %-40s %s\n", n.Type, n.Position.X, n.Position.Y, text, n.ID)
	}
	return nil
}

func runNoteDelete(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Repo.DeleteNote(args[0]); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	fmt.Println("✓ Note deleted")
	return nil
}

func runNoteMove(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	x, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid x coordinate %q", args[1])
	}
	y, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid y coordinate %q", args[2])
	}

	if err := app.Repo.MoveNote(args[0], model.Position{X: x, Y: y}); err != nil {
		return fmt.Errorf("failed to move note: %w", err)
	}
	fmt.Println("✓ Note moved")
	return nil
}
