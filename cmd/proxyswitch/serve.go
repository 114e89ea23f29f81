package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"proxyswitch/internal/api"
	"proxyswitch/internal/logger"

	"github.com/spf13/cobra"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the command API for UI clients",
	Long: `Runs the engine as a long-lived process and exposes its command API
(getState, toggle, setActiveProfile, addProfile, updateProfile, deleteProfile)
as JSON over HTTP on a local address.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		addr := a.cfg.API.Listen
		if listenAddr != "" {
			addr = listenAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := api.New(a.engine).ListenAndServe(ctx, addr); err != nil {
			logger.Log.Errorf("Command API stopped: %v", err)
			return
		}
		logger.Log.Info("👋 Shutting down")
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (overrides api.listen)")
	rootCmd.AddCommand(serveCmd)
}
