// Package main provides the entry point for the archivedoc CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for archivedoc.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archivedoc",
		Short: "Assemble archived web pages into a single document",
		Long: `archivedoc crawls archived snapshots of a website on the Wayback Machine
and assembles their textual content (headings, paragraphs, lists) into a
single growing Markdown document.

The crawl is one-shot and polite: pages are fetched strictly one at a
time with retry backoff, and the output document is saved after every
accepted page so an interrupted run keeps everything collected so far.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
