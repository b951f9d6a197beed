package tagline

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of ScriptStorage.
// It is primarily intended for testing and development.
// All data is lost when the process terminates.
type MemoryStorage struct {
	mu      sync.RWMutex
	scripts map[string][]*StoredScript // name -> versions (sorted by version desc)
	byID    map[ScriptID]*StoredScript
	closed  bool
}

// MemoryStorageDriver is the driver for creating MemoryStorage instances.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{})
}

// Open creates a new MemoryStorage instance.
// The connection string is ignored for memory storage.
func (d *MemoryStorageDriver) Open(connectionString string) (ScriptStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates a new in-memory script storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		scripts: make(map[string][]*StoredScript),
		byID:    make(map[ScriptID]*StoredScript),
	}
}

// Get retrieves the latest version of a script by name.
func (s *MemoryStorage) Get(ctx context.Context, name string) (*StoredScript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	versions, ok := s.scripts[name]
	if !ok || len(versions) == 0 {
		return nil, NewStorageScriptNotFoundError(name)
	}

	// Return copy of the latest version (first in slice, sorted desc)
	return copyStoredScript(versions[0]), nil
}

// GetByID retrieves a specific script version by ID.
func (s *MemoryStorage) GetByID(ctx context.Context, id ScriptID) (*StoredScript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	script, ok := s.byID[id]
	if !ok {
		return nil, NewStorageScriptNotFoundError(string(id))
	}

	return copyStoredScript(script), nil
}

// GetVersion retrieves a specific version of a script.
func (s *MemoryStorage) GetVersion(ctx context.Context, name string, version int) (*StoredScript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	versions, ok := s.scripts[name]
	if !ok {
		return nil, NewStorageVersionNotFoundError(name, version)
	}

	for _, script := range versions {
		if script.Version == version {
			return copyStoredScript(script), nil
		}
	}

	return nil, NewStorageVersionNotFoundError(name, version)
}

// Save stores a script, creating a new version if one exists.
func (s *MemoryStorage) Save(ctx context.Context, script *StoredScript) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if script.Name == "" {
		return &StorageError{Message: ErrMsgInvalidScriptName}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	now := time.Now()
	versions := s.scripts[script.Name]

	// Determine next version number
	nextVersion := 1
	if len(versions) > 0 {
		nextVersion = versions[0].Version + 1
	}

	// Create new stored script with generated fields
	stored := &StoredScript{
		ID:        generateScriptID(),
		Name:      script.Name,
		Speaker:   script.Speaker,
		Profile:   script.Profile,
		Body:      script.Body,
		Version:   nextVersion,
		Metadata:  copyStringMap(script.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: script.CreatedBy,
		Tags:      copyStringSlice(script.Tags),
	}

	// Update input script with generated values
	script.ID = stored.ID
	script.Version = stored.Version
	script.CreatedAt = stored.CreatedAt
	script.UpdatedAt = stored.UpdatedAt

	// Insert at beginning (newest first)
	s.scripts[script.Name] = append([]*StoredScript{stored}, versions...)
	s.byID[stored.ID] = stored

	return nil
}

// Delete removes all versions of a script by name.
func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	versions, ok := s.scripts[name]
	if !ok {
		return NewStorageScriptNotFoundError(name)
	}

	// Remove all versions from byID index
	for _, script := range versions {
		delete(s.byID, script.ID)
	}

	delete(s.scripts, name)
	return nil
}

// DeleteVersion removes a specific version of a script.
func (s *MemoryStorage) DeleteVersion(ctx context.Context, name string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	versions, ok := s.scripts[name]
	if !ok {
		return NewStorageVersionNotFoundError(name, version)
	}

	for i, script := range versions {
		if script.Version == version {
			// Remove from byID index
			delete(s.byID, script.ID)

			// Remove from versions slice
			s.scripts[name] = append(versions[:i], versions[i+1:]...)

			// Clean up if no versions left
			if len(s.scripts[name]) == 0 {
				delete(s.scripts, name)
			}

			return nil
		}
	}

	return NewStorageVersionNotFoundError(name, version)
}

// List returns scripts matching the query.
func (s *MemoryStorage) List(ctx context.Context, query *ScriptQuery) ([]*StoredScript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	if query == nil {
		query = &ScriptQuery{}
	}

	var results []*StoredScript

	// Collect matching scripts
	for name, versions := range s.scripts {
		if !matchesQuery(name, versions, query) {
			continue
		}

		if query.IncludeAllVersions {
			for _, script := range versions {
				if matchesScriptQuery(script, query) {
					results = append(results, copyStoredScript(script))
				}
			}
		} else if len(versions) > 0 {
			// Only include latest version
			if matchesScriptQuery(versions[0], query) {
				results = append(results, copyStoredScript(versions[0]))
			}
		}
	}

	// Sort by name, then version descending
	sort.Slice(results, func(i, j int) bool {
		if results[i].Name != results[j].Name {
			return results[i].Name < results[j].Name
		}
		return results[i].Version > results[j].Version
	})

	// Apply offset and limit
	if query.Offset > 0 {
		if query.Offset >= len(results) {
			return []*StoredScript{}, nil
		}
		results = results[query.Offset:]
	}

	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}

	return results, nil
}

// Exists checks if a script with the given name exists.
func (s *MemoryStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}

	versions, ok := s.scripts[name]
	return ok && len(versions) > 0, nil
}

// ListVersions returns all version numbers for a script.
func (s *MemoryStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	versions, ok := s.scripts[name]
	if !ok {
		return []int{}, nil
	}

	result := make([]int, len(versions))
	for i, script := range versions {
		result[i] = script.Version
	}

	return result, nil
}

// Close marks the storage as closed.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.scripts = nil
	s.byID = nil
	return nil
}

// matchesQuery checks if a script name matches the query filters.
func matchesQuery(name string, versions []*StoredScript, query *ScriptQuery) bool {
	if query.NamePrefix != "" && !strings.HasPrefix(name, query.NamePrefix) {
		return false
	}
	if query.NameContains != "" && !strings.Contains(name, query.NameContains) {
		return false
	}
	return true
}

// matchesScriptQuery checks if a script matches additional query filters.
func matchesScriptQuery(script *StoredScript, query *ScriptQuery) bool {
	if query.Speaker != "" && script.Speaker != query.Speaker {
		return false
	}
	if query.CreatedBy != "" && script.CreatedBy != query.CreatedBy {
		return false
	}
	if len(query.Tags) > 0 {
		for _, tag := range query.Tags {
			if !containsString(script.Tags, tag) {
				return false
			}
		}
	}
	return true
}

// containsString checks if a slice contains a string.
func containsString(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}

// generateScriptID generates a unique script ID.
func generateScriptID() ScriptID {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	id := base64.RawURLEncoding.EncodeToString(b)
	return ScriptID(ScriptIDPrefix + id)
}

// copyStoredScript creates a deep copy of a StoredScript.
func copyStoredScript(script *StoredScript) *StoredScript {
	if script == nil {
		return nil
	}
	return &StoredScript{
		ID:        script.ID,
		Name:      script.Name,
		Speaker:   script.Speaker,
		Profile:   script.Profile,
		Body:      script.Body,
		Version:   script.Version,
		Metadata:  copyStringMap(script.Metadata),
		CreatedAt: script.CreatedAt,
		UpdatedAt: script.UpdatedAt,
		CreatedBy: script.CreatedBy,
		Tags:      copyStringSlice(script.Tags),
	}
}

// copyStringMap creates a copy of a string map.
func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// copyStringSlice creates a copy of a string slice.
func copyStringSlice(s []string) []string {
	if s == nil {
		return nil
	}
	result := make([]string, len(s))
	copy(result, s)
	return result
}
