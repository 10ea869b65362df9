package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"pomodoro/tracker/internal/db"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations (sqlite storage only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(database *sql.DB) error {
				applied, err := db.RunMigrations(database)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(map[string][]string{"applied": applied})
				}
				if len(applied) == 0 {
					fmt.Println("database is up to date")
					return nil
				}
				for _, name := range applied {
					fmt.Println("applied", name)
				}
				return nil
			})
		},
	}
}
