package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/worksledger/worksledger/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "worksledger",
	Short: "Works, sanctions, tenders and bills ledger",
	Long: `worksledger tracks Government Resolutions, the works they fund, their
technical sanctions, tenders and bills, and computes the statutory
deductions on every amount.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(os.Getenv("LOG_LEVEL"))
	},
}

func setupLogging(level string) error {
	if level == "" {
		log.SetLevel(log.InfoLevel)
		return nil
	}
	logrusLevel, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(logrusLevel)
	return nil
}

func loadConfig() (config.Application, error) {
	return config.Load(configPath)
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("command failed: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config/application.yaml", "path to the YAML configuration file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedDemoCmd)
}
