package command

// root.go defines the root command for the yamdb operator CLI.
// Every subcommand talks to the database directly using the server's configuration.

import (
	"fmt"
	"log/slog"
	"os"

	"yamdb/database"
	"yamdb/internal/config"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "yamdb",
	Short: "yamdb - operator tooling for the review API",
	Long: `yamdb is the operator companion of the review API server. It reads the same
environment (.env, DATABASE_URL, ...) as the server and can:
- Apply database migrations
- Create a superuser account
- Change the role of an existing user

Use "yamdb command --help" to see the flags of a command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd, createSuperuserCmd, setRoleCmd)
}

// openDatabase loads the configuration and connects, logging to stderr
func openDatabase() (*gorm.DB, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := config.NewLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return db, logger, nil
}
