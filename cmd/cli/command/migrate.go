package command

import (
	"yamdb/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, logger, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(db, logger); err != nil {
			return err
		}
		cmd.Println("Migrations applied")
		return nil
	},
}
