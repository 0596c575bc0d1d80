package main

import (
	"github.com/spf13/cobra"

	"github.com/minidb-go/minidb/internal/dispatch"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create base/, global/, the OID counter, and the system catalogs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch.Init(layout())
	},
}
