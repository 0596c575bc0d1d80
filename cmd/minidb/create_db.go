package main

import (
	"github.com/spf13/cobra"

	"github.com/minidb-go/minidb/internal/dispatch"
)

var createDbCmd = &cobra.Command{
	Use:   "create_db <name>",
	Short: "Allocate a database OID and register it in the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch.CreateDatabase(layout(), args[0])
	},
}
