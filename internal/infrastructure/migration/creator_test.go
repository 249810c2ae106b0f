package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add payments index", "add_payments_index"},
		{"Add-Payments-Index", "add_payments_index"},
		{"ADD_PAYMENTS_INDEX", "add_payments_index"},
		{"add__payments__index", "add_payments_index"},
		{"Add Cheques 123", "add_cheques_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	t.Run("first migration is 000001", func(t *testing.T) {
		mf, err := CreateMigration(dir, "init schema")
		require.NoError(t, err)
		assert.Equal(t, uint(1), mf.Version)
		assert.Equal(t, filepath.Join(dir, "000001_init_schema.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, "000001_init_schema.down.sql"), mf.DownPath)

		content, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "-- init schema")
		_, err = os.Stat(mf.DownPath)
		assert.NoError(t, err)
	})

	t.Run("next migration follows the highest version", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_manual.up.sql"), nil, 0o644))

		mf, err := CreateMigration(dir, "Add cheque index")
		require.NoError(t, err)
		assert.Equal(t, uint(8), mf.Version)
		assert.Equal(t, "000008_add_cheque_index.up.sql", filepath.Base(mf.UpPath))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := CreateMigration(dir, "!!!")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000001_init.up.sql", "000001_init.down.sql",
		"000002_more.up.sql", "000002_more.down.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.up.sql"), 0o755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init", "000002_more"}, migrations)

	missing, err := ListMigrations(filepath.Join(dir, "absent"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestParseVersion(t *testing.T) {
	v, ok := parseVersion("000042_add_things")
	assert.True(t, ok)
	assert.Equal(t, uint(42), v)

	_, ok = parseVersion("nounderscore")
	assert.False(t, ok)
	_, ok = parseVersion("abc_def")
	assert.False(t, ok)
}

func TestRepositoryMigrationsArePaired(t *testing.T) {
	dir := filepath.Join("..", "..", "..", "migrations")
	ups, err := ListMigrations(dir)
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, base := range ups {
		_, err := os.Stat(filepath.Join(dir, base+".down.sql"))
		assert.NoError(t, err, "missing down migration for %s", base)
		_, ok := parseVersion(base)
		assert.True(t, ok, "unnumbered migration %s", base)
	}
}
