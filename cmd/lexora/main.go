package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indexedakki/vectors-medtech/internal/config"
	"github.com/indexedakki/vectors-medtech/pkg/logger"
)

var Version = "dev"

var (
	cfgFile string
	env     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "lexora",
		Short:   "Lexora - contract reconciliation and index loading pipeline",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(env)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default lexora.yaml)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development or production)")

	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)

	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}
