package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Turn proxying on or off",
	Long:  `Flips the enabled flag. Turning on requires an active profile with a host.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		enabled, err := a.engine.Toggle()
		if err != nil {
			fail("toggle", err)
		}
		if enabled {
			fmt.Println("Proxy enabled")
		} else {
			fmt.Println("Proxy disabled")
		}
	},
}

var useCmd = &cobra.Command{
	Use:   "use <profile-id>",
	Short: "Select the active profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()

		if err := a.engine.SetActiveProfile(args[0]); err != nil {
			fail("use", err)
		}
		fmt.Printf("Active profile: %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(useCmd)
}
