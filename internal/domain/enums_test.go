package domain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumTableResolve(t *testing.T) {
	tables := DefaultEnumTables()

	t.Run("known status labels resolve to configured ids", func(t *testing.T) {
		for label, want := range map[string]int{
			"New":     1,
			"Pending": 4,
			"Closed":  6,
		} {
			id, err := tables.Statuses.Resolve("status", label)
			require.NoError(t, err)
			assert.Equal(t, want, id)
		}
	})

	t.Run("known request source labels resolve to configured ids", func(t *testing.T) {
		id, err := tables.RequestSources.Resolve("request_source", "Phone")
		require.NoError(t, err)
		assert.Equal(t, 3, id)
	})

	t.Run("unknown label fails naming the offending value", func(t *testing.T) {
		_, err := tables.Statuses.Resolve("status", "Bogus")
		require.Error(t, err)

		var unknownErr *UnknownLabelError
		require.True(t, errors.As(err, &unknownErr))
		assert.Equal(t, "status", unknownErr.Field)
		assert.Equal(t, "Bogus", unknownErr.Label)
		assert.Contains(t, err.Error(), "Bogus")
	})

	t.Run("matching is case sensitive", func(t *testing.T) {
		_, err := tables.Statuses.Resolve("status", "new")
		assert.Error(t, err)
	})
}

func TestLoadEnumTables(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		tables, err := LoadEnumTables("")
		require.NoError(t, err)
		assert.Equal(t, DefaultEnumTables(), tables)
	})

	t.Run("override file replaces provided tables only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "enums.json")
		content := `{"statuses": {"Fresh": 1, "Done": 6}}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		tables, err := LoadEnumTables(path)
		require.NoError(t, err)

		id, err := tables.Statuses.Resolve("status", "Fresh")
		require.NoError(t, err)
		assert.Equal(t, 1, id)

		_, err = tables.Statuses.Resolve("status", "New")
		assert.Error(t, err)

		// request sources keep defaults
		id, err = tables.RequestSources.Resolve("request_source", "Phone")
		require.NoError(t, err)
		assert.Equal(t, 3, id)
	})

	t.Run("malformed file errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "enums.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

		_, err := LoadEnumTables(path)
		assert.Error(t, err)
	})
}
