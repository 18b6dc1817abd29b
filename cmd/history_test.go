package cmd

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/perekladach/internal/store"
)

func TestHistoryCmd_RecordsAndManagesEntries(t *testing.T) {
	var calls atomic.Int32
	server := newEchoServer(t, &calls)
	db := filepath.Join(t.TempDir(), "data", "history.db")
	config := writeConfig(t, server.URL, db)

	_, err := execute(t, "", "--config", config, "translate", "-s", "ru", "-t", "en", "Привет")
	require.NoError(t, err)
	_, err = execute(t, "", "--config", config, "translate", "-s", "de", "-t", "fr", "Hallo")
	require.NoError(t, err)
	_, err = execute(t, "", "--config", config, "translate", "-s", "en", "-t", "en", "not recorded")
	require.NoError(t, err)

	out, err := execute(t, "", "--config", config, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ru|en")
	assert.Contains(t, out, "de|fr")
	assert.Contains(t, out, "de|fr:Hallo")
	assert.NotContains(t, out, "not recorded")

	out, err = execute(t, "", "--config", config, "history", "list", "-s", "DE")
	require.NoError(t, err)
	assert.Contains(t, out, "de|fr")
	assert.NotContains(t, out, "ru|en")

	out, err = execute(t, "", "--config", config, "history", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total entries:   2\n")
	assert.Contains(t, out, "  de|fr: 1\n")
	assert.Contains(t, out, "  ru|en: 1\n")

	s, err := store.New(db)
	require.NoError(t, err)
	entries, err := s.List(context.Background(), store.Filter{SourceLang: "ru"})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.Len(t, entries, 1)

	out, err = execute(t, "", "--config", config, "history", "delete", entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Deleted entry: "+entries[0].ID+"\n", out)

	_, err = execute(t, "", "--config", config, "history", "delete", entries[0].ID)
	assert.Error(t, err)

	out, err = execute(t, "", "--config", config, "history", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Cleared 1 entries from history.\n", out)

	out, err = execute(t, "", "--config", config, "history", "list")
	require.NoError(t, err)
	assert.Equal(t, "History is empty.\n", out)
}

func TestHistoryCmd_MissingDatabaseIsNotCreated(t *testing.T) {
	var calls atomic.Int32
	server := newEchoServer(t, &calls)
	config := writeConfig(t, server.URL, "")
	db := filepath.Join(t.TempDir(), "missing", "history.db")

	for _, args := range [][]string{{"list"}, {"stats"}, {"clear"}} {
		out, err := execute(t, "", append([]string{"--config", config, "history"}, append(args, "--db", db)...)...)
		require.NoError(t, err, args)
		assert.NotEmpty(t, out)
	}

	out, err := execute(t, "", "--config", config, "history", "list", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "History is empty.\n", out)

	_, err = execute(t, "", "--config", config, "history", "delete", "--db", db, "some-id")
	assert.Error(t, err)

	_, err = os.Stat(filepath.Dir(db))
	assert.True(t, os.IsNotExist(err), "history commands must not create the database directory")
}
