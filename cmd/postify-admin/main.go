package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	_ = godotenv.Load()

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCommand builds the postify-admin command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "postify-admin",
		Short: "Postify administration CLI",
		Long: `Postify administration CLI

Operates directly on the configured database and bypasses caller
authorization. Configuration comes from the environment (DATABASE_TYPE,
DATABASE_URL, DB_SCHEMA, SQLITE_PATH, ...), an optional .env file and an
optional YAML file passed with --config.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML config file (optional)")
	rootCmd.PersistentFlags().Bool("json", false, "print results as JSON")

	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewUserCommand())
	rootCmd.AddCommand(NewTagCommand())
	rootCmd.AddCommand(NewCategoryCommand())
	rootCmd.AddCommand(NewStatsCommand())

	return rootCmd
}
