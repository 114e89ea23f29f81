package main

import (
	"fmt"
	"os"

	"proxyswitch/internal/logger"

	"github.com/spf13/cobra"
)

var cfgFile string
var noProxy bool
var verbose bool
var logFile string

var rootCmd = &cobra.Command{
	Use:   "proxyswitch",
	Short: "Manage HTTP proxy profiles and route traffic through the active one",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(verbose, logFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noProxy, "no-proxy", false, "Ignore the active profile and connect directly")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr (overwrites file)")
}
