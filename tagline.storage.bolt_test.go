package tagline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoltStorage(t *testing.T) *BoltStorage {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tagline.db")
	storage, err := NewBoltStorage(path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestBoltStorage_NewBoltStorage(t *testing.T) {
	t.Run("creates database file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scripts.db")

		storage, err := NewBoltStorage(path)
		require.NoError(t, err)
		require.NotNil(t, storage)
		defer storage.Close()

		assert.FileExists(t, path)
	})

	t.Run("rejects empty path", func(t *testing.T) {
		_, err := NewBoltStorage("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path is empty")
	})
}

func TestBoltStorage_Save(t *testing.T) {
	storage := newTestBoltStorage(t)
	ctx := context.Background()

	t.Run("saves new script", func(t *testing.T) {
		script := &StoredScript{
			Name:      "intro",
			Speaker:   "narrator",
			Body:      "Hello<wait=0.5> there.",
			CreatedBy: "test_user",
			Tags:      []string{"opening"},
			Metadata:  map[string]string{"scene": "1"},
		}

		err := storage.Save(ctx, script)
		require.NoError(t, err)

		// Verify generated fields
		assert.NotEmpty(t, script.ID)
		assert.True(t, hasPrefix(string(script.ID), ScriptIDPrefix))
		assert.Equal(t, 1, script.Version)
		assert.False(t, script.CreatedAt.IsZero())
	})

	t.Run("creates new version for existing script", func(t *testing.T) {
		script1 := &StoredScript{Name: "versioned", Body: "v1"}
		err := storage.Save(ctx, script1)
		require.NoError(t, err)
		assert.Equal(t, 1, script1.Version)

		script2 := &StoredScript{Name: "versioned", Body: "v2"}
		err = storage.Save(ctx, script2)
		require.NoError(t, err)
		assert.Equal(t, 2, script2.Version)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		err := storage.Save(ctx, &StoredScript{Name: "", Body: "test"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "script name")
	})
}

func TestBoltStorage_Get(t *testing.T) {
	storage := newTestBoltStorage(t)
	ctx := context.Background()

	// Save multiple versions
	for i := 0; i < 3; i++ {
		_ = storage.Save(ctx, &StoredScript{
			Name: "test",
			Body: "version " + intToStr(i+1),
		})
	}

	t.Run("returns latest version", func(t *testing.T) {
		script, err := storage.Get(ctx, "test")
		require.NoError(t, err)
		assert.Equal(t, 3, script.Version)
		assert.Equal(t, "version 3", script.Body)
	})

	t.Run("returns error for nonexistent script", func(t *testing.T) {
		_, err := storage.Get(ctx, "nonexistent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestBoltStorage_GetByID(t *testing.T) {
	storage := newTestBoltStorage(t)
	ctx := context.Background()

	script := &StoredScript{Name: "test", Body: "content"}
	_ = storage.Save(ctx, script)

	t.Run("returns script by ID", func(t *testing.T) {
		result, err := storage.GetByID(ctx, script.ID)
		require.NoError(t, err)
		assert.Equal(t, script.ID, result.ID)
		assert.Equal(t, "content", result.Body)
	})

	t.Run("returns error for nonexistent ID", func(t *testing.T) {
		_, err := storage.GetByID(ctx, "scr_nonexistent")
		require.Error(t, err)
	})
}

func TestBoltStorage_GetVersion(t *testing.T) {
	storage := newTestBoltStorage(t)
	ctx := context.Background()

	// Save multiple versions
	for i := 0; i < 3; i++ {
		_ = storage.Save(ctx, &StoredScript{
			Name: "versioned",
			Body: "v" + intToStr(i+1),
		})
	}

	t.Run("returns specific version", func(t *testing.T) {
		script, err := storage.GetVersion(ctx, "versioned", 2)
		require.NoError(t, err)
		assert.Equal(t, 2, script.Version)
		assert.Equal(t, "v2", script.Body)
	})

	t.Run("returns error for nonexistent version", func(t *testing.T) {
		_, err := storage.GetVersion(ctx, "versioned", 99)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "version not found")
	})
}

func TestBoltStorage_Delete(t *testing.T) {
	storage := newTestBoltStorage(t)
	ctx := context.Background()

	// Save multiple versions
	_ = storage.Save(ctx, &StoredScript{Name: "delete-me", Body: "v1"})
	_ = storage.Save(ctx, &StoredScript{Name: "delete-me", Body: "v2"})

	t.Run("deletes all versions", func(t *testing.T) {
		err := storage.Delete(ctx, "delete-me")
		require.NoError(t, err)

		exists, _ := storage.Exists(ctx, "delete-me")
		assert.False(t, exists)
	})

	t.Run("returns error for nonexistent script", func(t *testing.T) {
		err := storage.Delete(ctx, "nonexistent")
		require.Error(t, err)
	})
}

func TestBoltStorage_DeleteVersion(t *testing.T) {
	storage := newTestBoltStorage(t)
	ctx := context.Background()

	// Save multiple versions
	_ = storage.Save(ctx, &StoredScript{Name: "partial-delete", Body: "v1"})
	_ = storage.Save(ctx, &StoredScript{Name: "partial-delete", Body: "v2"})
	_ = storage.Save(ctx, &StoredScript{Name: "partial-delete", Body: "v3"})

	t.Run("deletes specific version", func(t *testing.T) {
		err := storage.DeleteVersion(ctx, "partial-delete", 2)
		require.NoError(t, err)

		versions, _ := storage.ListVersions(ctx, "partial-delete")
		assert.Equal(t, []int{3, 1}, versions)
	})

	t.Run("returns error for nonexistent version", func(t *testing.T) {
		err := storage.DeleteVersion(ctx, "partial-delete", 99)
		require.Error(t, err)
	})
}

func TestBoltStorage_List(t *testing.T) {
	storage := newTestBoltStorage(t)
	ctx := context.Background()

	// Setup test data
	scripts := []struct {
		name    string
		speaker string
		tags    []string
	}{
		{"intro-en", "narrator", []string{"public", "english"}},
		{"intro-es", "narrator", []string{"public", "spanish"}},
		{"outro-en", "guide", []string{"public", "english"}},
	}

	for _, s := range scripts {
		_ = storage.Save(ctx, &StoredScript{
			Name:    s.name,
			Body:    s.name + " content",
			Speaker: s.speaker,
			Tags:    s.tags,
		})
	}

	t.Run("returns all scripts with nil query", func(t *testing.T) {
		results, err := storage.List(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("filters by speaker", func(t *testing.T) {
		results, err := storage.List(ctx, &ScriptQuery{Speaker: "narrator"})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("filters by name prefix", func(t *testing.T) {
		results, err := storage.List(ctx, &ScriptQuery{NamePrefix: "intro"})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("filters by tags", func(t *testing.T) {
		results, err := storage.List(ctx, &ScriptQuery{Tags: []string{"english"}})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("includes all versions when requested", func(t *testing.T) {
		_ = storage.Save(ctx, &StoredScript{Name: "intro-en", Body: "updated"})

		results, err := storage.List(ctx, &ScriptQuery{
			NamePrefix:         "intro-en",
			IncludeAllVersions: true,
		})
		require.NoError(t, err)
		assert.Len(t, results, 2)
		assert.Equal(t, 2, results[0].Version) // Newest first
	})

	t.Run("applies limit", func(t *testing.T) {
		results, err := storage.List(ctx, &ScriptQuery{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestBoltStorage_ListVersions(t *testing.T) {
	storage := newTestBoltStorage(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = storage.Save(ctx, &StoredScript{Name: "multi"})
	}

	t.Run("returns all version numbers newest first", func(t *testing.T) {
		versions, err := storage.ListVersions(ctx, "multi")
		require.NoError(t, err)
		assert.Equal(t, []int{3, 2, 1}, versions)
	})

	t.Run("returns empty for nonexistent script", func(t *testing.T) {
		versions, err := storage.ListVersions(ctx, "nonexistent")
		require.NoError(t, err)
		assert.Empty(t, versions)
	})
}

func TestBoltStorage_Close(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagline.db")
	storage, err := NewBoltStorage(path)
	require.NoError(t, err)

	ctx := context.Background()
	_ = storage.Save(ctx, &StoredScript{Name: "test"})

	err = storage.Close()
	require.NoError(t, err)

	// All operations should fail after close
	_, err = storage.Get(ctx, "test")
	assert.Error(t, err)

	// Double close is an error
	err = storage.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already closed")
}

func TestBoltStorage_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagline.db")
	ctx := context.Background()

	// Create storage and save script
	storage1, err := NewBoltStorage(path)
	require.NoError(t, err)

	_ = storage1.Save(ctx, &StoredScript{
		Name:    "persistent",
		Speaker: "narrator",
		Body:    "original content",
		Tags:    []string{"tag1"},
	})
	require.NoError(t, storage1.Close())

	// Reopen the same file and verify data persists
	storage2, err := NewBoltStorage(path)
	require.NoError(t, err)
	defer storage2.Close()

	script, err := storage2.Get(ctx, "persistent")
	require.NoError(t, err)
	assert.Equal(t, "original content", script.Body)
	assert.Equal(t, "narrator", script.Speaker)
	assert.Equal(t, []string{"tag1"}, script.Tags)
}

func TestBoltStorage_OpenViaRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagline.db")

	// The bolt driver should be registered via init()
	drivers := ListStorageDrivers()
	assert.Contains(t, drivers, StorageDriverNameBolt)

	storage, err := OpenStorage(StorageDriverNameBolt, path)
	require.NoError(t, err)
	require.NotNil(t, storage)
	defer storage.Close()

	// Test basic operation
	ctx := context.Background()
	err = storage.Save(ctx, &StoredScript{Name: "test", Body: "content"})
	require.NoError(t, err)

	script, err := storage.Get(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, "content", script.Body)
}
