package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"portal/internal/domain/models"
	"portal/internal/domain/services"

	"github.com/spf13/cobra"
)

var (
	password string
	role     string
)

func init() {
	LoginCommand.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when empty)")
	SignupCommand.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when empty)")
	SignupCommand.Flags().StringVar(&role, "role", "", "requested role; the server may refuse anything but user")

	RootCmd.AddCommand(LoginCommand)
	RootCmd.AddCommand(SignupCommand)
	RootCmd.AddCommand(WhoamiCommand)
	RootCmd.AddCommand(LogoutCommand)
}

var LoginCommand = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and store the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := readPassword()
		if err != nil {
			return err
		}

		user, err := session.Login(cmd.Context(), args[0], pw)
		if err != nil {
			return err
		}

		fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
		return nil
	},
}

var SignupCommand = &cobra.Command{
	Use:   "signup <username> <email>",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := readPassword()
		if err != nil {
			return err
		}

		user, err := session.Signup(cmd.Context(), &services.SignupRequest{
			Username: args[0],
			Email:    args[1],
			Password: pw,
			Role:     models.Role(role),
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created %s (%s)\n", user.Username, user.Role)
		return nil
	},
}

var WhoamiCommand = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(cmd.Context()); err != nil {
			return err
		}

		user := session.User()
		fmt.Printf("%s <%s> role=%s id=%s\n", user.Username, user.Email, user.Role, user.ID)
		fmt.Printf("session expires %s\n", session.ExpiresAt().Local().Format(time.RFC1123))
		return nil
	},
}

var LogoutCommand = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

func readPassword() (string, error) {
	if password != "" {
		return password, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
