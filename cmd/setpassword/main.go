package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jo-hoe/storefront/internal/backend/database"
	"github.com/jo-hoe/storefront/internal/core"
	"github.com/spf13/cobra"
)

func getConfigPath() string {
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config.yaml")
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		username   string
	)
	cmd := &cobra.Command{
		Use:   "setpassword <new-password>",
		Short: "Set the password of a back office admin",
		Long: "Hashes the given password with bcrypt and stores it for the admin in the " +
			"configured database. The admin is created when it does not exist yet.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setAdminPassword(configPath, username, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", getConfigPath(), "path to the service configuration file")
	cmd.Flags().StringVarP(&username, "username", "u", "admin", "admin whose password is set")
	return cmd
}

func setAdminPassword(configPath, username, password string) error {
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}
	config, err := core.LoadConfig(configPath)
	if err != nil {
		return err
	}

	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := databaseService.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	return databaseService.SetAdminPassword(username, password)
}
