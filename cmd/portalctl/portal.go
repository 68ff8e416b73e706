package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var jsonOutput bool

func init() {
	FoldersCommand.Flags().BoolVar(&jsonOutput, "json", false, "print the raw response")
	FolderCommand.Flags().BoolVar(&jsonOutput, "json", false, "print the raw response")

	RootCmd.AddCommand(PortalCommand)
	RootCmd.AddCommand(FoldersCommand)
	RootCmd.AddCommand(FolderCommand)
}

var PortalCommand = &cobra.Command{
	Use:   "portal <name>",
	Short: "Show an active portal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		portal, err := apiClient.PortalInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(portal)
	},
}

var FoldersCommand = &cobra.Command{
	Use:   "folders <portal-name>",
	Short: "List the folders you can see in a portal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		token, err := requireSession(ctx)
		if err != nil {
			return err
		}

		portal, err := apiClient.PortalInfo(ctx, args[0])
		if err != nil {
			return err
		}

		result, err := apiClient.PortalFolders(ctx, token, portal.ID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(result)
		}

		// Role and admin flags are display hints; the server decided the list
		fmt.Printf("%s (role=%s, portal admin=%t)\n", portal.DisplayName, result.UserRole, result.IsPortalAdmin)
		for _, f := range result.Folders {
			mode := "view"
			if f.CanEdit {
				mode = "edit"
			}
			fmt.Printf("  %-36s  %-4s  %s\n", f.ID, mode, f.Name)
		}
		return nil
	},
}

var FolderCommand = &cobra.Command{
	Use:   "folder <folder-id>",
	Short: "Show a folder and its visible subfolders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		token, err := requireSession(ctx)
		if err != nil {
			return err
		}

		details, err := apiClient.FolderDetails(ctx, token, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(details)
		}

		fmt.Printf("%s (edit=%t)\n", details.Folder.Name, details.Folder.CanEdit)
		for _, child := range details.Children {
			fmt.Printf("  %-36s  %s\n", child.ID, child.Name)
		}
		return nil
	},
}
