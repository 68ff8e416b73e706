package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"portal/internal/client"

	"github.com/spf13/cobra"
)

var (
	// flags
	serverURL   string
	sessionPath string

	// set up in PersistentPreRunE
	apiClient *client.Client
	session   *client.Session
)

func init() {
	RootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("PORTAL_URL", "http://localhost:8080"), "portal API base URL")
	RootCmd.PersistentFlags().StringVar(&sessionPath, "session-file", "", "where the session token is kept (default: user config dir)")
}

var RootCmd = &cobra.Command{
	Use:           "portalctl",
	Short:         "Command line client for the portal API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if sessionPath == "" {
			path, err := client.DefaultSessionPath()
			if err != nil {
				return err
			}
			sessionPath = path
		}

		apiClient = client.New(serverURL)
		session = client.NewSession(apiClient, client.NewFileStore(sessionPath))
		return nil
	},
}

// requireSession restores the stored session or fails with a hint
func requireSession(ctx context.Context) (string, error) {
	active, err := session.Init(ctx)
	if err != nil {
		return "", err
	}
	if !active {
		return "", fmt.Errorf("%w: run 'portalctl login' first", client.ErrNoSession)
	}
	return session.Token()
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
