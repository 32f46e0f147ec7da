package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestNewVersionCmd tests the version command.
func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		cmd := NewVersionCmd()
		if cmd.Use != "version" {
			t.Errorf("expected use 'version', got %q", cmd.Use)
		}
	})

	t.Run("prints version, commit, and build date on one line", func(t *testing.T) {
		t.Parallel()

		cmd := NewVersionCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.Run(cmd, nil)

		got := strings.TrimSpace(out.String())
		if strings.Count(got, "\n") != 0 {
			t.Errorf("expected single-line output, got:\n%s", got)
		}
		for _, want := range []string{"archivedoc", "commit", "built"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, got)
			}
		}
	})
}

// TestResolveBuildInfo tests build metadata resolution.
func TestResolveBuildInfo(t *testing.T) {
	// Not parallel: subtests mutate the package-level ldflags variables.

	t.Run("ldflags values win", func(t *testing.T) {
		origVersion, origCommit, origDate := version, commit, date
		defer func() { version, commit, date = origVersion, origCommit, origDate }()

		version, commit, date = "v1.2.3", "abc1234", "2026-08-26"
		info := resolveBuildInfo()
		if info.Version != "v1.2.3" {
			t.Errorf("expected v1.2.3, got %q", info.Version)
		}
		if info.Commit != "abc1234" {
			t.Errorf("expected abc1234, got %q", info.Commit)
		}
		if info.Date != "2026-08-26" {
			t.Errorf("expected 2026-08-26, got %q", info.Date)
		}
	})

	t.Run("long commit hashes are shortened", func(t *testing.T) {
		origCommit := commit
		defer func() { commit = origCommit }()

		commit = "0123456789abcdef0123456789abcdef01234567"
		if got := resolveBuildInfo().Commit; got != "0123456" {
			t.Errorf("expected 0123456, got %q", got)
		}
	})

	t.Run("no field is ever empty", func(t *testing.T) {
		origVersion, origCommit, origDate := version, commit, date
		defer func() { version, commit, date = origVersion, origCommit, origDate }()

		version, commit, date = "", "", ""
		info := resolveBuildInfo()
		if info.Version == "" || info.Commit == "" || info.Date == "" {
			t.Errorf("expected placeholders for missing metadata, got %+v", info)
		}
	})
}
