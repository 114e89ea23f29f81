package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"proxyswitch/internal/logger"
	"proxyswitch/internal/metrics"
	"proxyswitch/internal/tester"

	"github.com/spf13/cobra"
)

var checkPick bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe every profile through its proxy",
	Long: `Sends a request to check.echo_url through each profile concurrently and
prints a latency/error report. With --pick, the first profile that answers
becomes the active one.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		st := a.engine.Snapshot()
		if len(st.Profiles) == 0 {
			logger.Log.Warn("No profiles to check.")
			return
		}

		t := tester.New(a.cfg.Check)
		ctx := context.Background()

		if checkPick {
			winner, err := t.FindFirstAlive(ctx, st.Profiles)
			if err != nil {
				logger.Log.Fatalf("Pick failed: %v", err)
			}
			if err := a.engine.SetActiveProfile(winner.ID); err != nil {
				fail("use", err)
			}
			logger.Log.Infof("🏁 Active profile: %s (%s)", winner.Name, winner.Address())
			return
		}

		logger.Log.Infof("🔍 Checking %d profile(s) via %s...", len(st.Profiles), a.cfg.Check.EchoURL)
		mc := metrics.New()
		results := t.CheckAll(ctx, st.Profiles, mc)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tADDRESS\tRESULT")
		for _, r := range results {
			outcome := r.Latency.String()
			if r.Err != nil {
				outcome = "❌ " + metrics.Categorize(r.Err)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Profile.Name, r.Profile.Address(), outcome)
		}
		w.Flush()

		mc.PrintReport(os.Stdout, a.cfg.Check.Timeout, a.cfg.Check.Retries)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkPick, "pick", false, "Make the first reachable profile active")
	rootCmd.AddCommand(checkCmd)
}
