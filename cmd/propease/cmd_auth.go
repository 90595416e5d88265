package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bharath552-bit/Real-Estate-Platform/internal/api"
)

var (
	loginUsername string
	loginPassword string

	signupUsername string
	signupEmail    string
	signupPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	RunE:  runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username (prompted if omitted)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted if omitted)")

	signupCmd.Flags().StringVarP(&signupUsername, "username", "u", "", "username (prompted if omitted)")
	signupCmd.Flags().StringVarP(&signupEmail, "email", "e", "", "email address (prompted if omitted)")
	signupCmd.Flags().StringVarP(&signupPassword, "password", "p", "", "password (prompted if omitted)")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	username := loginUsername
	if username == "" {
		username = prompt("Username: ")
	}
	password := loginPassword
	if password == "" {
		password = prompt("Password: ")
	}

	resp, err := client.Login(cmd.Context(), username, password)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", resp.Username)
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	username := signupUsername
	if username == "" {
		username = prompt("Username: ")
	}
	email := signupEmail
	if email == "" {
		email = prompt("Email: ")
	}
	password := signupPassword
	if password == "" {
		password = prompt("Password: ")
	}
	password2 := password
	if signupPassword == "" {
		password2 = prompt("Confirm password: ")
	}

	err := client.Signup(cmd.Context(), api.SignupRequest{
		Username:  username,
		Email:     email,
		Password:  password,
		Password2: password2,
	})
	if err != nil {
		return err
	}

	fmt.Println("Account created. Run 'propease login' to sign in.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client.Logout()
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	current := sessions.Current()
	if !current.LoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("Username: %s\n", current.Username)
	if id, err := client.CurrentUserID(); err == nil {
		fmt.Printf("User ID:  %d\n", id)
	}
	return nil
}

func prompt(label string) string {
	fmt.Fprint(os.Stderr, label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
