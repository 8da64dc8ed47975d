package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"add rate cards table", "add_rate_cards_table"},
		{"Add-Rate-Cards", "add_rate_cards"},
		{"ADD_POSTAL_INDEX", "add_postal_index"},
		{"seed__zone__matrix", "seed_zone_matrix"},
		{"Widen Slabs 2", "widen_slabs_2"},
		{"   spaces   ", "spaces"},
		{"drop!@#$legacy", "droplegacy"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.input))
		})
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()

	pair, err := Create(dir, "add rate cards table")
	require.NoError(t, err)

	// Version is a 14-digit timestamp so file order matches creation order
	assert.Len(t, pair.Version, 14)
	assert.Equal(t, pair.Version+"_add_rate_cards_table.up.sql", filepath.Base(pair.UpPath))
	assert.Equal(t, pair.Version+"_add_rate_cards_table.down.sql", filepath.Base(pair.DownPath))

	up, err := os.ReadFile(pair.UpPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(up), "-- add rate cards table\n"))

	down, err := os.ReadFile(pair.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Created:")
}

func TestCreateMakesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "db", "migrations")

	_, err := Create(nested, "init schema")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestList(t *testing.T) {
	t.Run("returns one entry per pair, ignoring other files", func(t *testing.T) {
		dir := t.TempDir()
		for _, f := range []string{
			"000001_init_schema.up.sql",
			"000001_init_schema.down.sql",
			"000002_add_rate_cards.up.sql",
			"000002_add_rate_cards.down.sql",
			"README.md",
			".gitkeep",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- sql"), 0644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0755))

		names, err := List(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init_schema", "000002_add_rate_cards"}, names)
	})

	t.Run("empty directory", func(t *testing.T) {
		names, err := List(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("missing directory is not an error", func(t *testing.T) {
		names, err := List(filepath.Join(t.TempDir(), "does-not-exist"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
