//go:build integration

package tagline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer creates an ephemeral PostgreSQL container for testing.
func setupPostgresContainer(t *testing.T) (*PostgresStorage, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("tagline_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	storage, err := NewPostgresStorage(PostgresConfig{
		ConnectionString: connStr,
		AutoMigrate:      true,
		QueryTimeout:     30 * time.Second,
	})
	require.NoError(t, err, "failed to create postgres storage")

	cleanup := func() {
		if storage != nil {
			_ = storage.Close()
		}
		if container != nil {
			_ = container.Terminate(ctx)
		}
	}

	return storage, cleanup
}

// =============================================================================
// Basic CRUD Tests
// =============================================================================

func TestPostgres_E2E_BasicCRUD(t *testing.T) {
	storage, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("Save", func(t *testing.T) {
		script := &StoredScript{
			Name:      "test-script",
			Speaker:   "narrator",
			Body:      "Hello <wait=0.5>world!",
			Metadata:  map[string]string{"author": "test"},
			Tags:      []string{"greeting", "test"},
			CreatedBy: "user-1",
		}

		err := storage.Save(ctx, script)
		require.NoError(t, err)
		assert.NotEmpty(t, script.ID)
		assert.Equal(t, 1, script.Version)
		assert.False(t, script.CreatedAt.IsZero())
		assert.False(t, script.UpdatedAt.IsZero())
	})

	t.Run("Get", func(t *testing.T) {
		script, err := storage.Get(ctx, "test-script")
		require.NoError(t, err)
		assert.Equal(t, "test-script", script.Name)
		assert.Contains(t, script.Body, "<wait=0.5>")
		assert.Equal(t, 1, script.Version)
		assert.Equal(t, "narrator", script.Speaker)
		assert.Equal(t, "user-1", script.CreatedBy)
		assert.Contains(t, script.Tags, "greeting")
	})

	t.Run("GetByID", func(t *testing.T) {
		script, err := storage.Get(ctx, "test-script")
		require.NoError(t, err)

		retrieved, err := storage.GetByID(ctx, script.ID)
		require.NoError(t, err)
		assert.Equal(t, script.ID, retrieved.ID)
		assert.Equal(t, script.Name, retrieved.Name)
	})

	t.Run("Exists", func(t *testing.T) {
		exists, err := storage.Exists(ctx, "test-script")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = storage.Exists(ctx, "nonexistent")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		_, err := storage.Get(ctx, "nonexistent-script")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("Delete", func(t *testing.T) {
		// Save a script to delete
		script := &StoredScript{
			Name: "to-delete",
			Body: "delete me",
		}
		err := storage.Save(ctx, script)
		require.NoError(t, err)

		// Delete it
		err = storage.Delete(ctx, "to-delete")
		require.NoError(t, err)

		// Verify it's gone
		exists, err := storage.Exists(ctx, "to-delete")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("DeleteNotFound", func(t *testing.T) {
		err := storage.Delete(ctx, "nonexistent-script")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

// =============================================================================
// Versioning Tests
// =============================================================================

func TestPostgres_E2E_Versioning(t *testing.T) {
	storage, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	// Save multiple versions
	for i := 1; i <= 5; i++ {
		script := &StoredScript{
			Name: "versioned-script",
			Body: fmt.Sprintf("Version %d content", i),
		}
		err := storage.Save(ctx, script)
		require.NoError(t, err)
		assert.Equal(t, i, script.Version)
	}

	t.Run("GetReturnsLatestVersion", func(t *testing.T) {
		script, err := storage.Get(ctx, "versioned-script")
		require.NoError(t, err)
		assert.Equal(t, 5, script.Version)
		assert.Contains(t, script.Body, "Version 5")
	})

	t.Run("GetVersion", func(t *testing.T) {
		script, err := storage.GetVersion(ctx, "versioned-script", 3)
		require.NoError(t, err)
		assert.Equal(t, 3, script.Version)
		assert.Contains(t, script.Body, "Version 3")
	})

	t.Run("GetVersionNotFound", func(t *testing.T) {
		_, err := storage.GetVersion(ctx, "versioned-script", 99)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("ListVersions", func(t *testing.T) {
		versions, err := storage.ListVersions(ctx, "versioned-script")
		require.NoError(t, err)
		assert.Len(t, versions, 5)
		// Should be in descending order
		assert.Equal(t, []int{5, 4, 3, 2, 1}, versions)
	})

	t.Run("DeleteVersion", func(t *testing.T) {
		err := storage.DeleteVersion(ctx, "versioned-script", 2)
		require.NoError(t, err)

		versions, err := storage.ListVersions(ctx, "versioned-script")
		require.NoError(t, err)
		assert.Len(t, versions, 4)
		assert.NotContains(t, versions, 2)
	})

	t.Run("DeleteVersionNotFound", func(t *testing.T) {
		err := storage.DeleteVersion(ctx, "versioned-script", 99)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

// =============================================================================
// Concurrent Access Tests
// =============================================================================

func TestPostgres_E2E_ConcurrentSaves(t *testing.T) {
	storage, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	const numGoroutines = 50
	var wg sync.WaitGroup
	errChan := make(chan error, numGoroutines)
	versionChan := make(chan int, numGoroutines)

	// 50 goroutines all saving the same script name
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			script := &StoredScript{
				Name:     "concurrent-script",
				Body:     fmt.Sprintf("Content from goroutine %d", id),
				Metadata: map[string]string{"goroutine": fmt.Sprintf("%d", id)},
			}

			err := storage.Save(ctx, script)
			if err != nil {
				errChan <- err
				return
			}
			versionChan <- script.Version
		}(i)
	}

	wg.Wait()
	close(errChan)
	close(versionChan)

	// Collect errors
	var errors []error
	for err := range errChan {
		errors = append(errors, err)
	}

	// Collect versions
	var versions []int
	for v := range versionChan {
		versions = append(versions, v)
	}

	// All saves should succeed
	assert.Empty(t, errors, "expected no errors from concurrent saves")

	// All versions should be unique
	versionSet := make(map[int]bool)
	for _, v := range versions {
		assert.False(t, versionSet[v], "duplicate version detected: %d", v)
		versionSet[v] = true
	}

	// Should have 50 unique versions
	assert.Len(t, versionSet, numGoroutines)

	// Verify in database
	dbVersions, err := storage.ListVersions(ctx, "concurrent-script")
	require.NoError(t, err)
	assert.Len(t, dbVersions, numGoroutines)
}

func TestPostgres_E2E_ConcurrentReads(t *testing.T) {
	storage, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	// Setup: Create a script
	script := &StoredScript{
		Name: "read-test",
		Body: "Read me concurrently",
	}
	err := storage.Save(ctx, script)
	require.NoError(t, err)

	const numGoroutines = 100
	var wg sync.WaitGroup
	errChan := make(chan error, numGoroutines)

	// 100 concurrent reads
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			retrieved, err := storage.Get(ctx, "read-test")
			if err != nil {
				errChan <- err
				return
			}
			if retrieved.Name != "read-test" {
				errChan <- fmt.Errorf("unexpected script name: %s", retrieved.Name)
			}
		}()
	}

	wg.Wait()
	close(errChan)

	var errors []error
	for err := range errChan {
		errors = append(errors, err)
	}

	assert.Empty(t, errors, "expected no errors from concurrent reads")
}

// =============================================================================
// List Filtering Tests
// =============================================================================

func TestPostgres_E2E_ListFiltering(t *testing.T) {
	storage, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	// Setup: Create test scripts
	testScripts := []struct {
		name      string
		speaker   string
		createdBy string
		tags      []string
	}{
		{"act1/scene1/intro", "narrator", "alice", []string{"act1", "intro"}},
		{"act1/scene1/reply", "narrator", "alice", []string{"act1", "dialogue"}},
		{"act1/scene2/warning", "narrator", "bob", []string{"act1", "dialogue"}},
		{"act2/battle/taunt", "villain", "charlie", []string{"act2", "battle"}},
		{"act2/battle/retort", "villain", "charlie", []string{"act2", "battle"}},
		{"credits/thanks", "villain", "admin", []string{"credits", "outro"}},
	}

	for _, ts := range testScripts {
		script := &StoredScript{
			Name:      ts.name,
			Body:      "Body for " + ts.name,
			Speaker:   ts.speaker,
			CreatedBy: ts.createdBy,
			Tags:      ts.tags,
		}
		err := storage.Save(ctx, script)
		require.NoError(t, err)
	}

	t.Run("FilterBySpeaker", func(t *testing.T) {
		results, err := storage.List(ctx, &ScriptQuery{
			Speaker: "narrator",
		})
		require.NoError(t, err)
		assert.Len(t, results, 3)

		for _, r := range results {
			assert.Equal(t, "narrator", r.Speaker)
		}
	})

	t.Run("FilterByCreatedBy", func(t *testing.T) {
		results, err := storage.List(ctx, &ScriptQuery{
			CreatedBy: "alice",
		})
		require.NoError(t, err)
		assert.Len(t, results, 2)

		for _, r := range results {
			assert.Equal(t, "alice", r.CreatedBy)
		}
	})

	t.Run("FilterByNamePrefix", func(t *testing.T) {
		results, err := storage.List(ctx, &ScriptQuery{
			NamePrefix: "act1/",
		})
		require.NoError(t, err)
		assert.Len(t, results, 3)

		for _, r := range results {
			assert.True(t, len(r.Name) >= 5 && r.Name[:5] == "act1/")
		}
	})

	t.Run("FilterByNameContains", func(t *testing.T) {
		results, err := storage.List(ctx, &ScriptQuery{
			NameContains: "battle",
		})
		require.NoError(t, err)
		assert.Len(t, results, 2)

		for _, r := range results {
			assert.Contains(t, r.Name, "battle")
		}
	})

	t.Run("FilterByTags_SingleTag", func(t *testing.T) {
		results, err := storage.List(ctx, &ScriptQuery{
			Tags: []string{"act1"},
		})
		require.NoError(t, err)
		assert.Len(t, results, 3)

		for _, r := range results {
			assert.Contains(t, r.Tags, "act1")
		}
	})

	t.Run("FilterByTags_MultipleTags", func(t *testing.T) {
		results, err := storage.List(ctx, &ScriptQuery{
			Tags: []string{"act2", "battle"},
		})
		require.NoError(t, err)
		assert.Len(t, results, 2)

		for _, r := range results {
			assert.Contains(t, r.Tags, "act2")
			assert.Contains(t, r.Tags, "battle")
		}
	})

	t.Run("FilterCombined", func(t *testing.T) {
		results, err := storage.List(ctx, &ScriptQuery{
			Speaker:    "narrator",
			NamePrefix: "act1/scene1",
		})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("Pagination", func(t *testing.T) {
		// Get first page
		page1, err := storage.List(ctx, &ScriptQuery{
			Limit:  2,
			Offset: 0,
		})
		require.NoError(t, err)
		assert.Len(t, page1, 2)

		// Get second page
		page2, err := storage.List(ctx, &ScriptQuery{
			Limit:  2,
			Offset: 2,
		})
		require.NoError(t, err)
		assert.Len(t, page2, 2)

		// Verify no overlap
		page1Names := make(map[string]bool)
		for _, s := range page1 {
			page1Names[s.Name] = true
		}
		for _, s := range page2 {
			assert.False(t, page1Names[s.Name], "pagination overlap detected")
		}
	})

	t.Run("IncludeAllVersions", func(t *testing.T) {
		// Save another version of an existing script
		script := &StoredScript{
			Name:    "act1/scene1/intro",
			Body:    "Updated body",
			Speaker: "narrator",
		}
		err := storage.Save(ctx, script)
		require.NoError(t, err)

		// Without IncludeAllVersions (default)
		results, err := storage.List(ctx, &ScriptQuery{
			NameContains: "act1/scene1/intro",
		})
		require.NoError(t, err)
		assert.Len(t, results, 1) // Only latest version

		// With IncludeAllVersions
		results, err = storage.List(ctx, &ScriptQuery{
			NameContains:       "act1/scene1/intro",
			IncludeAllVersions: true,
		})
		require.NoError(t, err)
		assert.Len(t, results, 2) // Both versions
	})
}

// =============================================================================
// Migration Tests
// =============================================================================

func TestPostgres_E2E_Migrations(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("tagline_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	defer func() { _ = container.Terminate(ctx) }()

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	t.Run("InitialMigration", func(t *testing.T) {
		// Create storage with auto-migrate
		storage, err := NewPostgresStorage(PostgresConfig{
			ConnectionString: connStr,
			AutoMigrate:      true,
		})
		require.NoError(t, err)
		defer storage.Close()

		// Check schema version
		version, err := storage.CurrentSchemaVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, version)

		// Verify we can save scripts
		script := &StoredScript{
			Name: "migration-test",
			Body: "test",
		}
		err = storage.Save(ctx, script)
		require.NoError(t, err)
	})

	t.Run("IdempotentRerun", func(t *testing.T) {
		// Create another storage instance (should be idempotent)
		storage, err := NewPostgresStorage(PostgresConfig{
			ConnectionString: connStr,
			AutoMigrate:      true,
		})
		require.NoError(t, err)
		defer storage.Close()

		// Should still work
		version, err := storage.CurrentSchemaVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, version)

		// Previous data should still exist
		exists, err := storage.Exists(ctx, "migration-test")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("ManualMigration", func(t *testing.T) {
		// Create storage without auto-migrate
		storage, err := NewPostgresStorage(PostgresConfig{
			ConnectionString: connStr,
			AutoMigrate:      false,
		})
		require.NoError(t, err)
		defer storage.Close()

		// Manually run migrations
		err = storage.RunMigrations(ctx)
		require.NoError(t, err)

		// Should be idempotent
		err = storage.RunMigrations(ctx)
		require.NoError(t, err)
	})
}

// =============================================================================
// Connection Pool Tests
// =============================================================================

func TestPostgres_E2E_ConnectionPooling(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("tagline_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	defer func() { _ = container.Terminate(ctx) }()

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	t.Run("CustomPoolConfig", func(t *testing.T) {
		storage, err := NewPostgresStorage(PostgresConfig{
			ConnectionString: connStr,
			MaxOpenConns:     5,
			MaxIdleConns:     2,
			ConnMaxLifetime:  1 * time.Minute,
			ConnMaxIdleTime:  30 * time.Second,
			AutoMigrate:      true,
		})
		require.NoError(t, err)
		defer storage.Close()

		// Should work with limited pool
		script := &StoredScript{
			Name: "pool-test",
			Body: "test",
		}
		err = storage.Save(ctx, script)
		require.NoError(t, err)
	})

	t.Run("HighConcurrencyWithLimitedPool", func(t *testing.T) {
		storage, err := NewPostgresStorage(PostgresConfig{
			ConnectionString: connStr,
			MaxOpenConns:     3, // Very limited pool
			MaxIdleConns:     1,
			AutoMigrate:      false, // Already migrated
		})
		require.NoError(t, err)
		defer storage.Close()

		const numGoroutines = 20
		var wg sync.WaitGroup
		errChan := make(chan error, numGoroutines)

		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()

				// Mix of reads and writes
				if id%2 == 0 {
					script := &StoredScript{
						Name: fmt.Sprintf("pool-high-%d", id),
						Body: "test",
					}
					if err := storage.Save(ctx, script); err != nil {
						errChan <- err
					}
				} else {
					_, err := storage.List(ctx, nil)
					if err != nil {
						errChan <- err
					}
				}
			}(i)
		}

		wg.Wait()
		close(errChan)

		var errors []error
		for err := range errChan {
			errors = append(errors, err)
		}

		assert.Empty(t, errors, "pool should handle high concurrency")
	})

	t.Run("TimeoutBehavior", func(t *testing.T) {
		storage, err := NewPostgresStorage(PostgresConfig{
			ConnectionString: connStr,
			QueryTimeout:     100 * time.Millisecond,
			AutoMigrate:      false,
		})
		require.NoError(t, err)
		defer storage.Close()

		// Normal operation should complete within timeout
		_, err = storage.List(ctx, nil)
		require.NoError(t, err)
	})
}

// =============================================================================
// Large Data Tests
// =============================================================================

func TestPostgres_E2E_LargeData(t *testing.T) {
	storage, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("LargeMetadata", func(t *testing.T) {
		// Create metadata approaching 500KB
		largeMap := make(map[string]string)
		for i := 0; i < 1000; i++ {
			largeMap[fmt.Sprintf("key_%d", i)] = strings.Repeat("x", 500)
		}

		script := &StoredScript{
			Name:     "large-metadata",
			Body:     "test",
			Metadata: largeMap,
		}

		err := storage.Save(ctx, script)
		require.NoError(t, err)

		// Retrieve and verify
		retrieved, err := storage.Get(ctx, "large-metadata")
		require.NoError(t, err)
		assert.Len(t, retrieved.Metadata, 1000)
	})

	t.Run("LargeBody", func(t *testing.T) {
		// Create a large script body
		var sb strings.Builder
		for i := 0; i < 10000; i++ {
			fmt.Fprintf(&sb, "Line %d of dialogue.<wait=0.1>\n", i)
		}
		largeBody := sb.String()

		script := &StoredScript{
			Name: "large-body",
			Body: largeBody,
		}

		err := storage.Save(ctx, script)
		require.NoError(t, err)

		retrieved, err := storage.Get(ctx, "large-body")
		require.NoError(t, err)
		assert.Equal(t, len(largeBody), len(retrieved.Body))
	})

	t.Run("ManyScripts", func(t *testing.T) {
		const scriptCount = 500

		// Create many scripts
		for i := 0; i < scriptCount; i++ {
			script := &StoredScript{
				Name: fmt.Sprintf("bulk/script-%04d", i),
				Body: fmt.Sprintf("Content %d", i),
				Tags: []string{"bulk", fmt.Sprintf("group-%d", i%10)},
			}
			err := storage.Save(ctx, script)
			require.NoError(t, err)
		}

		// List all with prefix
		results, err := storage.List(ctx, &ScriptQuery{
			NamePrefix: "bulk/",
		})
		require.NoError(t, err)
		assert.Len(t, results, scriptCount)

		// Test pagination through all
		var allResults []*StoredScript
		pageSize := 50
		offset := 0

		for {
			page, err := storage.List(ctx, &ScriptQuery{
				NamePrefix: "bulk/",
				Limit:      pageSize,
				Offset:     offset,
			})
			require.NoError(t, err)

			if len(page) == 0 {
				break
			}

			allResults = append(allResults, page...)
			offset += pageSize
		}

		assert.Len(t, allResults, scriptCount)
	})
}

// =============================================================================
// Speaker and Profile Persistence Tests
// =============================================================================

func TestPostgres_E2E_SpeakerProfilePersistence(t *testing.T) {
	storage, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("SaveAndRetrieve", func(t *testing.T) {
		script := &StoredScript{
			Name:    "profile-test",
			Speaker: "oracle",
			Profile: "slow-mysterious",
			Body:    "The future<wait=1.2> is never certain.",
		}

		err := storage.Save(ctx, script)
		require.NoError(t, err)

		retrieved, err := storage.Get(ctx, "profile-test")
		require.NoError(t, err)
		assert.Equal(t, "oracle", retrieved.Speaker)
		assert.Equal(t, "slow-mysterious", retrieved.Profile)
	})

	t.Run("UpdateProfile", func(t *testing.T) {
		// Save new version with a different profile
		script := &StoredScript{
			Name:    "profile-test",
			Speaker: "oracle",
			Profile: "urgent",
			Body:    "There is no time!<speed=2> Run!",
		}

		err := storage.Save(ctx, script)
		require.NoError(t, err)
		assert.Equal(t, 2, script.Version)

		// Verify latest has new profile
		latest, err := storage.Get(ctx, "profile-test")
		require.NoError(t, err)
		assert.Equal(t, "urgent", latest.Profile)

		// Verify old version still has old profile
		v1, err := storage.GetVersion(ctx, "profile-test", 1)
		require.NoError(t, err)
		assert.Equal(t, "slow-mysterious", v1.Profile)
	})

	t.Run("EmptySpeakerAndProfile", func(t *testing.T) {
		script := &StoredScript{
			Name: "bare-script",
			Body: "Plain narration.",
		}

		err := storage.Save(ctx, script)
		require.NoError(t, err)

		retrieved, err := storage.Get(ctx, "bare-script")
		require.NoError(t, err)
		assert.Empty(t, retrieved.Speaker)
		assert.Empty(t, retrieved.Profile)
	})
}

// =============================================================================
// Edge Cases and Error Handling
// =============================================================================

func TestPostgres_E2E_EdgeCases(t *testing.T) {
	storage, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("EmptyName", func(t *testing.T) {
		script := &StoredScript{
			Name: "",
			Body: "test",
		}
		err := storage.Save(ctx, script)
		require.Error(t, err)
	})

	t.Run("EmptyTags", func(t *testing.T) {
		script := &StoredScript{
			Name: "empty-tags",
			Body: "test",
			Tags: []string{},
		}
		err := storage.Save(ctx, script)
		require.NoError(t, err)

		retrieved, err := storage.Get(ctx, "empty-tags")
		require.NoError(t, err)
		assert.Empty(t, retrieved.Tags)
	})

	t.Run("NilMetadata", func(t *testing.T) {
		script := &StoredScript{
			Name:     "nil-metadata",
			Body:     "test",
			Metadata: nil,
		}
		err := storage.Save(ctx, script)
		require.NoError(t, err)

		retrieved, err := storage.Get(ctx, "nil-metadata")
		require.NoError(t, err)
		assert.Empty(t, retrieved.Metadata)
	})

	t.Run("SpecialCharactersInName", func(t *testing.T) {
		names := []string{
			"script-with-dashes",
			"script_with_underscores",
			"script.with.dots",
			"script/with/slashes",
			"script:with:colons",
		}

		for _, name := range names {
			script := &StoredScript{
				Name: name,
				Body: "test",
			}
			err := storage.Save(ctx, script)
			require.NoError(t, err, "failed to save script with name: %s", name)

			retrieved, err := storage.Get(ctx, name)
			require.NoError(t, err, "failed to get script with name: %s", name)
			assert.Equal(t, name, retrieved.Name)
		}
	})

	t.Run("UnicodeContent", func(t *testing.T) {
		script := &StoredScript{
			Name: "unicode-test",
			Body: "Hello 世界!<wait=0.3> Привет мир! مرحبا بالعالم 🎉",
			Metadata: map[string]string{
				"greeting": "こんにちは",
			},
			Tags: []string{"日本語", "русский"},
		}
		err := storage.Save(ctx, script)
		require.NoError(t, err)

		retrieved, err := storage.Get(ctx, "unicode-test")
		require.NoError(t, err)
		assert.Contains(t, retrieved.Body, "世界")
		assert.Equal(t, "こんにちは", retrieved.Metadata["greeting"])
		assert.Contains(t, retrieved.Tags, "日本語")
	})

	t.Run("ContextCancellation", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		cancel() // Cancel immediately

		_, err := storage.Get(cancelCtx, "any-script")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "canceled")
	})

	t.Run("OperationsAfterClose", func(t *testing.T) {
		// Create a new storage just for this test
		container, err := postgres.Run(ctx, "postgres:15",
			postgres.WithDatabase("close_test"),
			postgres.WithUsername("test"),
			postgres.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		require.NoError(t, err)
		defer func() { _ = container.Terminate(ctx) }()

		connStr, err := container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)

		tmpStorage, err := NewPostgresStorage(PostgresConfig{
			ConnectionString: connStr,
			AutoMigrate:      true,
		})
		require.NoError(t, err)

		// Close it
		err = tmpStorage.Close()
		require.NoError(t, err)

		// Operations should fail
		_, err = tmpStorage.Get(ctx, "test")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "closed")

		err = tmpStorage.Save(ctx, &StoredScript{Name: "test", Body: "test"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "closed")

		// Double close should error
		err = tmpStorage.Close()
		require.Error(t, err)
	})
}
