package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"proxyswitch/internal/engine"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show proxy state and storage details",
	Long:  `Displays the indicator label, the routing decision requests would get right now, the active profile and the database holding the state.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		st := a.engine.Snapshot()
		active, hasActive := engine.ActiveProfile(st)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

		fmt.Println("\n🔀 \033[1mPROXYSWITCH STATUS\033[0m")
		fmt.Println("────────────────────────────────────────")

		fmt.Fprintln(w, "\033[1;36m[ PROXY ]\033[0m\t")
		fmt.Fprintf(w, "  Indicator:\t%s\n", engine.Label(st))
		fmt.Fprintf(w, "  Enabled:\t%v\n", st.Enabled)
		fmt.Fprintf(w, "  Route:\t%s\n", a.engine.Route())
		if hasActive {
			fmt.Fprintf(w, "  Active:\t%s (%s)\n", active.Name, active.Address())
			if active.HasCredentials() {
				fmt.Fprintf(w, "  Auth user:\t%s\n", active.Username)
			}
		} else {
			fmt.Fprintln(w, "  Active:\t(none)")
		}
		fmt.Fprintf(w, "  Profiles:\t%d\n", len(st.Profiles))
		if a.cfg.Network.Bypass != "" {
			fmt.Fprintf(w, "  Bypass:\t%s\n", a.cfg.Network.Bypass)
		}
		fmt.Fprintln(w, "\t")

		fmt.Fprintln(w, "\033[1;36m[ STORAGE ]\033[0m\t")
		fmt.Fprintf(w, "  Database Path:\t%s\n", a.cfg.Database.Path)
		fmt.Fprintf(w, "  DB Size:\t%s\n", formatBytes(getFileSize(a.cfg.Database.Path)))
		if walSize := getFileSize(a.cfg.Database.Path + "-wal"); walSize > 0 {
			fmt.Fprintf(w, "  WAL Size:\t%s (pending checkpoint)\n", formatBytes(walSize))
		}

		w.Flush()
		fmt.Println("")
	},
}

func getFileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
