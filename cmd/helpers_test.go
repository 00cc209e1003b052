package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetFlags restores defaults on sticky flags that keep Changed state across
// invocations of the shared root command.
func resetFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().VisitAll(func(fl *pflag.Flag) {
			_ = fl.Value.Set(fl.DefValue)
			fl.Changed = false
		})
	}
}

// execCmd runs the root command with args and returns its error.
func execCmd(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(rootCmd, analyzeCmd, analyzeBatchCmd, configSetCmd, configShowCmd)
	cfg = nil
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// runCmd is a helper to execute the root command with args, failing on error.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	require.NoError(t, execCmd(t, args...), "command %v failed", args)
}

// isolateHome points HOME at a temp dir so config and outputs stay local.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
