package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quicklist/quicklist/internal/remote"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync queued changes with the server",
	Long: `Sync queued changes across devices.

Commands:
  quicklist sync              # Sync now
  quicklist sync status       # Show sync status`,
	RunE: runSync,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE:  runSyncStatus,
}

var syncConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure sync settings",
	RunE:  runSyncConfig,
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace local lists with the server snapshot",
	RunE:  runSyncPull,
}

func init() {
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncConfigCmd)
	syncCmd.AddCommand(syncPullCmd)

	syncConfigCmd.Flags().String("server", "", "Set server URL")
}

func runSync(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.Client.IsLoggedIn() {
		return fmt.Errorf("not logged in, run 'quicklist auth login' first")
	}

	ctx := context.Background()

	// An explicit sync is the user telling us the network may be back,
	// so probe once and feed the monitor before draining.
	app.Monitor.Deliver(app.Client.Reachable(ctx))
	if !app.Monitor.Online() {
		return fmt.Errorf("server unreachable, changes stay queued")
	}

	if app.Queue.Size() == 0 {
		fmt.Println("✓ Nothing to sync")
		return nil
	}

	// Drain rather than SyncNow: the Deliver above may have fired the
	// monitor's background trigger, and a foreground sync should report
	// that pass's result instead of exiting mid-flight.
	fmt.Println("🔄 Synchronizing...")
	result, ran := app.Coordinator.Drain(ctx)
	if !ran {
		fmt.Println("✓ Nothing to sync")
		return nil
	}
	if !result.Ok() {
		return fmt.Errorf("sync failed after %d of %d change(s): %w",
			result.Applied, result.Total, result.Err)
	}

	fmt.Printf("✓ Sync complete! Applied: %d\n", result.Applied)
	return nil
}

func runSyncPull(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.Client.IsLoggedIn() {
		return fmt.Errorf("not logged in, run 'quicklist auth login' first")
	}
	if app.Queue.Size() > 0 {
		return fmt.Errorf("%d local change(s) still queued, run 'quicklist sync' first", app.Queue.Size())
	}

	fmt.Println("🔄 Pulling snapshot...")
	lists, err := remote.NewAdapter(app.Client).FetchAll(context.Background())
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}

	if !app.Repo.SaveLists(lists) {
		return fmt.Errorf("failed to store pulled lists")
	}
	app.Repo.RecomputeAchievements()

	fmt.Printf("✓ Pulled %d list(s) from the server\n", len(lists))
	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	serverURL, userID, loggedIn := app.Client.Status()

	fmt.Printf("Server:    %s\n", serverURL)
	if loggedIn {
		fmt.Printf("User ID:   %s\n", userID)
	}
	fmt.Printf("Queued:    %d change(s)\n", app.Queue.Size())
	if t, ok := app.Coordinator.LastSync(); ok {
		fmt.Printf("Last Sync: %s\n", t.Local().Format("2006-01-02 15:04:05"))
	} else {
		fmt.Println("Last Sync: never")
	}
	if loggedIn {
		fmt.Println("Status:    ✓ Logged in")
	} else {
		fmt.Println("Status:    Not logged in")
	}
	return nil
}

func runSyncConfig(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	server, _ := cmd.Flags().GetString("server")
	if server != "" {
		if err := app.Client.SetServer(server); err != nil {
			return err
		}
		fmt.Printf("✓ Server set to: %s\n", server)
		return nil
	}

	url, _, _ := app.Client.Status()
	fmt.Printf("Server: %s\n", url)
	return nil
}
