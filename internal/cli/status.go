package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity and queue state",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if app.Monitor.Online() {
		fmt.Println("Connectivity: ✓ online")
	} else {
		fmt.Println("Connectivity: offline")
	}

	fmt.Printf("Storage:      %s\n", cfg.Storage)
	fmt.Printf("Queued:       %d change(s)\n", app.Queue.Size())
	if t, ok := app.Coordinator.LastSync(); ok {
		fmt.Printf("Last sync:    %s\n", t.Local().Format("2006-01-02 15:04:05"))
	} else {
		fmt.Println("Last sync:    never")
	}

	_, _, loggedIn := app.Client.Status()
	if loggedIn {
		fmt.Println("Session:      ✓ logged in")
	} else {
		fmt.Println("Session:      not logged in")
	}
	return nil
}
