package main

import (
	"github.com/spf13/cobra"

	"github.com/minidb-go/minidb/internal/dispatch"
)

var createTableCmd = &cobra.Command{
	Use:   "create_table <db> <table>",
	Short: "Allocate a table OID and seed its id/age columns in the catalog",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch.CreateTable(layout(), args[0], args[1])
	},
}
