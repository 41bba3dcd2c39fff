package migration

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/shared/logger"
)

func TestScripts_AreCollectable(t *testing.T) {
	goose.SetBaseFS(embedded)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	migrations, err := goose.CollectMigrations(scriptsDir, 0, goose.MaxVersion)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, int64(1), migrations[0].Version)
}

func TestScripts_HaveUpAndDownSections(t *testing.T) {
	err := fs.WalkDir(Scripts(), ".", func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(Scripts(), path)
		require.NoError(t, err)
		body := string(data)
		assert.Contains(t, body, "-- +goose Up", path)
		assert.Contains(t, body, "-- +goose Down", path)
		return nil
	})
	require.NoError(t, err)
}

func TestScripts_CreateEveryTable(t *testing.T) {
	data, err := fs.ReadFile(Scripts(), "00001_init.sql")
	require.NoError(t, err)

	for _, table := range []string{
		"users", "coach_profiles", "integrations", "schedules", "bookings",
		"booking_proposals", "sessions", "goals", "tickets", "ticket_comments",
		"subscription_plans", "subscriptions", "payments", "disputes",
		"webhook_events", "notifications",
	} {
		assert.True(t, strings.Contains(string(data), "CREATE TABLE "+table+" ("), table)
	}
}

func TestMigrator_CreateWritesToSourceDir(t *testing.T) {
	dir := t.TempDir()
	m := NewMigrator(dir, logger.NewNopLogger())

	require.NoError(t, m.Create("add_coach_languages"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "_add_coach_languages.sql"))
	_, err = os.Stat(filepath.Join(dir, entries[0].Name()))
	assert.NoError(t, err)
}
