package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeConfig writes a config that points the MyMemory client at endpoint.
// A non-empty db enables the history journal at that path.
func writeConfig(t *testing.T, endpoint, db string) string {
	t.Helper()

	var b strings.Builder
	fmt.Fprintf(&b, "api:\n  endpoint: %s\n", endpoint)
	if db != "" {
		fmt.Fprintf(&b, "history:\n  enabled: true\n  db: %s\n", db)
	}
	b.WriteString("log:\n  level: error\n")

	path := filepath.Join(t.TempDir(), "perekladach.yaml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

// execute runs the root command with args and stdin and returns its stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cfgFile, logLevel = "", ""
	sourceLang, targetLang = "", ""
	historyDBPath = ""
	historyListSource, historyListTarget, historyListLimit = "", "", 50

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}
