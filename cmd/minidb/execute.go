package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/minidb-go/minidb/internal/dispatch"
)

var executeCmd = &cobra.Command{
	Use:   "execute <sql>",
	Short: "Parse and run one select/insert/delete statement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch.Execute(layout(), args[0], os.Stdout)
	},
}
