package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"proxyswitch/internal/logger"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var fetchOutput string

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "GET a URL through the active proxy",
	Long: `Performs one GET request the way any outbound request of this process
would be sent: through the active profile while proxying is on, answering
proxy authentication challenges with the profile's credentials.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		if noProxy && a.host.Installed() {
			a.host.Remove()
			logger.Log.Info("--no-proxy set, connecting directly")
		}

		logger.Log.Infof("🌐 Route: %s", a.route())
		client := a.host.Client(a.cfg.Network.Timeout)

		start := time.Now()
		resp, err := client.Get(args[0])
		if err != nil {
			logger.Log.Fatalf("Request failed: %v", err)
		}
		defer resp.Body.Close()
		logger.Log.Infof("%s (%s)", resp.Status, time.Since(start).Round(time.Millisecond))
		if resp.StatusCode == http.StatusProxyAuthRequired {
			logger.Log.Warn("Proxy rejected the credentials of the active profile")
		}

		var out io.Writer = io.Discard
		if fetchOutput == "-" {
			out = os.Stdout
		} else if fetchOutput != "" {
			f, err := os.Create(fetchOutput)
			if err != nil {
				logger.Log.Fatalf("Cannot create output file: %v", err)
			}
			defer f.Close()
			out = f
		}

		if out == os.Stdout {
			_, err = io.Copy(out, resp.Body)
		} else {
			bar := progressbar.DefaultBytes(resp.ContentLength, "downloading")
			_, err = io.Copy(io.MultiWriter(out, bar), resp.Body)
			fmt.Fprintln(os.Stderr)
		}
		if err != nil {
			logger.Log.Fatalf("Reading body failed: %v", err)
		}
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "Write the body to a file (- for stdout)")
	rootCmd.AddCommand(fetchCmd)
}
