// Command minidb is the CLI front end for the storage engine: init, create_db,
// create_table, and execute, each a thin cobra subcommand over
// internal/dispatch.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minidb-go/minidb/internal/cliconfig"
	"github.com/minidb-go/minidb/internal/pathlayout"
	"github.com/minidb-go/minidb/logger"
)

var (
	baseDir    string
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "minidb",
	Short:         "A small heap-file relational storage engine",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := cliconfig.Load(configPath)
		if err != nil {
			return err
		}
		if baseDir == "" {
			baseDir = defaults.BaseDir
		}
		if logLevel == "" {
			logLevel = defaults.LogLevel
		}
		if logLevel == "" {
			logLevel = "info"
		}
		if baseDir == "" {
			return fmt.Errorf("--base_dir is required (directly or via --config)")
		}
		return logger.InitLogger(logger.LogConfig{LogLevel: logLevel})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDir, "base_dir", "", "root directory of the database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log_level", "", "error|warn|info|debug|trace")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional ini file supplying defaults for --base_dir/--log_level")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(createDbCmd)
	rootCmd.AddCommand(createTableCmd)
	rootCmd.AddCommand(executeCmd)
}

func layout() *pathlayout.Layout {
	return pathlayout.New(baseDir)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("Error: '%s'\n", err.Error())
		os.Exit(1)
	}
}
