package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"visitorlog/internal/auth"
	"visitorlog/internal/storage"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage administrator accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create [username] [password]",
	Short: "Create an administrator account",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		username, password := args[0], args[1]

		hash, err := auth.HashPassword(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
			os.Exit(1)
		}

		err = provider.CreateAdmin(ctx, storage.Admin{
			Username:     username,
			PasswordHash: hash,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating admin: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Admin %q created successfully.\n", username)
	},
}

var adminResetCmd = &cobra.Command{
	Use:   "reset [username] [new-password]",
	Short: "Replace an administrator's password",
	Long:  `Replace an administrator's password from the operator console. Unlike the web reset flow, this does not require the current password.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		username, password := args[0], args[1]

		hash, err := auth.HashPassword(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
			os.Exit(1)
		}

		if err := provider.UpdateAdminPassword(ctx, username, hash); err != nil {
			fmt.Fprintf(os.Stderr, "Error resetting password: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Password for %q updated.\n", username)
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateCmd)
	adminCmd.AddCommand(adminResetCmd)
}
