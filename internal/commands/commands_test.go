package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paydown-dev/paydown/internal/commands"
)

// runPaydown executes the CLI in-process and returns stdout.
func runPaydown(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// mustRun is runPaydown against a ledger that fails the test on error.
func mustRun(t *testing.T, repo string, args ...string) string {
	t.Helper()
	out, err := runPaydown(t, append([]string{"--repo", repo, "--log-level", "error"}, args...)...)
	require.NoError(t, err, "paydown %s", strings.Join(args, " "))
	return out
}

// newLedger initializes a ledger without git.
func newLedger(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runPaydown(t, "init", dir, "--name", "Test Household", "--no-git")
	require.NoError(t, err)
	return dir
}

// householdLedger adds a card and two loans and records balances as of 2026-02-28.
func householdLedger(t *testing.T) string {
	t.Helper()
	dir := newLedger(t)
	mustRun(t, dir, "account", "add", "--name", "Visa", "--kind", "credit_card", "--institution", "Chase",
		"--last4", "4242", "--limit", "5000", "--apr", "20", "--due-day", "10")
	mustRun(t, dir, "account", "add", "--name", "Auto", "--kind", "loan", "--due-day", "20", "--min-flat", "300")
	mustRun(t, dir, "account", "add", "--name", "Student", "--kind", "loan", "--apr", "6")

	mustRun(t, dir, "balance", "record", "Primary Checking", "2000", "--as-of", "2026-02-28")
	mustRun(t, dir, "balance", "record", "Visa", "1000", "--as-of", "2026-02-28")
	mustRun(t, dir, "balance", "record", "Auto", "10000", "--as-of", "2026-02-28")
	mustRun(t, dir, "balance", "record", "Student", "5000", "--as-of", "2026-02-28")
	return dir
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}
