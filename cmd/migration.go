package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	Run:   runMigrations,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

// The services auto-migrate their tables on construction, so by the time
// this command runs the schema is already current. It exists so deploys can
// migrate ahead of rolling the REST process.
func runMigrations(_ *cobra.Command, _ []string) {
	logrus.Info("[MIGRATION] schema is up to date")
}
