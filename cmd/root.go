/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scrobblemend",
	Short: "Last.fm listening dashboard and scrobble repair service",
	Long: `scrobblemend is a self-hostable web service for Last.fm users.

It visualizes listening history (recent tracks, top artists, albums and
tracks) and repairs scrobbles: misattributed plays can be bulk-edited by
deleting the originals through the Last.fm website and recreating
corrected records through the API with their original timestamps.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
