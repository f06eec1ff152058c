package cmd

import (
	"fmt"

	"campodigital/infrastructure/persistence/gormdb"

	"github.com/spf13/cobra"
)

// campodigital migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the marketplace schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := gormdb.Connect(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer session.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
		if err := gormdb.Migrate(cmd.Context(), session); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
		return nil
	},
}
