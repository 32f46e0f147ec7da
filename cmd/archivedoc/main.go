// Package main provides the entry point for the archivedoc CLI.
//
// archivedoc crawls archived snapshots of a website on the Wayback
// Machine and assembles their content into a single Markdown document.
//
// Usage:
//
//	archivedoc crawl <start-url> -o content.md -d example.org
//
// See --help for all available options.
package main

import "github.com/joho/godotenv"

// main is the entry point for archivedoc.
func main() {
	// Best effort: a missing .env file is the normal case.
	_ = godotenv.Load()

	Execute()
}
