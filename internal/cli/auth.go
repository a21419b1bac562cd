package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quicklist/quicklist/internal/remote"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Manage authentication with the sync server.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the sync server",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from the sync server",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account on the sync server",
	RunE:  runRegister,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(authStatusCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	password := string(passwordBytes)
	fmt.Println()

	fmt.Println("🔄 Logging in...")
	if err := client.Login(username, password); err != nil {
		return err
	}

	fmt.Println("✅ Logged in successfully!")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	if !client.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Println("🔄 Logging out...")
	if err := client.Logout(); err != nil {
		return err
	}

	fmt.Println("✅ Logged out successfully.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	password := string(passwordBytes)
	fmt.Println()

	fmt.Print("Confirm Password: ")
	confirmBytes, _ := term.ReadPassword(int(syscall.Stdin))
	confirm := string(confirmBytes)
	fmt.Println()

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println("🔄 Creating account...")
	if err := client.Register(username, email, password); err != nil {
		return err
	}

	fmt.Println("✅ Account created and logged in!")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	serverURL, userID, loggedIn := client.Status()
	fmt.Printf("Server:  %s\n", serverURL)
	if loggedIn {
		fmt.Printf("User ID: %s\n", userID)
		fmt.Println("Status:  ✓ Logged in")
	} else {
		fmt.Println("Status:  Not logged in")
	}
	return nil
}
