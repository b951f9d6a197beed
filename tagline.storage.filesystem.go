package tagline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FilesystemStorage stores scripts as files on the filesystem.
// Each script is stored as a JSON file with metadata.
// Versioning is supported through separate files per version.
//
// Directory structure:
//
//	<root>/
//	  <script-name>/
//	    v1.json
//	    v2.json
//	    ...
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// FilesystemStorageDriver is the driver for creating FilesystemStorage instances.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &FilesystemStorageDriver{})
}

// Open creates a new FilesystemStorage instance.
// The connection string is the root directory path.
func (d *FilesystemStorageDriver) Open(connectionString string) (ScriptStorage, error) {
	return NewFilesystemStorage(connectionString)
}

// NewFilesystemStorage creates a new filesystem-based script storage.
// The root directory will be created if it doesn't exist.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgInvalidStorageRoot}
	}

	// Create root directory if it doesn't exist
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StorageError{
			Message: ErrMsgCreateStorageDir,
			Name:    root,
			Cause:   err,
		}
	}

	return &FilesystemStorage{
		root: root,
	}, nil
}

// Get retrieves the latest version of a script by name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredScript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Validate script name for security
	if err := validateScriptNameForFilesystem(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	versions, err := s.listVersionsInternal(name)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, NewStorageScriptNotFoundError(name)
	}

	// Latest version is first (sorted descending)
	return s.loadScript(name, versions[0])
}

// GetByID retrieves a specific script version by ID.
func (s *FilesystemStorage) GetByID(ctx context.Context, id ScriptID) (*StoredScript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	// Scan all scripts to find by ID (inefficient but correct)
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Cause: err}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		versions, err := s.listVersionsInternal(entry.Name())
		if err != nil {
			continue
		}

		for _, version := range versions {
			script, err := s.loadScript(entry.Name(), version)
			if err != nil {
				continue
			}
			if script.ID == id {
				return script, nil
			}
		}
	}

	return nil, NewStorageScriptNotFoundError(string(id))
}

// GetVersion retrieves a specific version of a script.
func (s *FilesystemStorage) GetVersion(ctx context.Context, name string, version int) (*StoredScript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Validate script name for security
	if err := validateScriptNameForFilesystem(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	return s.loadScript(name, version)
}

// Save stores a script, creating a new version if one exists.
func (s *FilesystemStorage) Save(ctx context.Context, script *StoredScript) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Validate script name for security
	if err := validateScriptNameForFilesystem(script.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	// Create script directory
	scriptDir := filepath.Join(s.root, script.Name)
	if err := os.MkdirAll(scriptDir, FilesystemDirPermissions); err != nil {
		return &StorageError{Message: ErrMsgCreateStorageDir, Name: scriptDir, Cause: err}
	}

	// Determine next version
	versions, _ := s.listVersionsInternal(script.Name)
	nextVersion := 1
	if len(versions) > 0 {
		nextVersion = versions[0] + 1
	}

	now := time.Now()

	// Create stored script with generated fields
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

	// Write to file
	filename := filepath.Join(scriptDir, FilesystemVersionPrefix+intToStr(nextVersion)+FilesystemVersionSuffix)
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return &StorageError{Message: ErrMsgMarshalScript, Name: script.Name, Cause: err}
	}

	if err := os.WriteFile(filename, data, FilesystemFilePermissions); err != nil {
		return &StorageError{Message: ErrMsgWriteScript, Name: filename, Cause: err}
	}

	// Update input script with generated values
	script.ID = stored.ID
	script.Version = stored.Version
	script.CreatedAt = stored.CreatedAt
	script.UpdatedAt = stored.UpdatedAt

	return nil
}

// Delete removes all versions of a script by name.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Validate script name for security
	if err := validateScriptNameForFilesystem(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	scriptDir := filepath.Join(s.root, name)
	if _, err := os.Stat(scriptDir); os.IsNotExist(err) {
		return NewStorageScriptNotFoundError(name)
	}

	if err := os.RemoveAll(scriptDir); err != nil {
		return &StorageError{Message: ErrMsgDeleteScript, Name: name, Cause: err}
	}

	return nil
}

// DeleteVersion removes a specific version of a script.
func (s *FilesystemStorage) DeleteVersion(ctx context.Context, name string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Validate script name for security
	if err := validateScriptNameForFilesystem(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	filename := filepath.Join(s.root, name, FilesystemVersionPrefix+intToStr(version)+FilesystemVersionSuffix)
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return NewStorageVersionNotFoundError(name, version)
	}

	if err := os.Remove(filename); err != nil {
		return &StorageError{Message: ErrMsgDeleteScript, Name: filename, Cause: err}
	}

	// Remove directory if no versions remain
	scriptDir := filepath.Join(s.root, name)
	entries, err := os.ReadDir(scriptDir)
	if err == nil && len(entries) == 0 {
		_ = os.RemoveAll(scriptDir)
	}

	return nil
}

// List returns scripts matching the query.
func (s *FilesystemStorage) List(ctx context.Context, query *ScriptQuery) ([]*StoredScript, error) {
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

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Cause: err}
	}

	var results []*StoredScript

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()

		// Apply name filters
		if query.NamePrefix != "" && !strings.HasPrefix(name, query.NamePrefix) {
			continue
		}
		if query.NameContains != "" && !strings.Contains(name, query.NameContains) {
			continue
		}

		versions, err := s.listVersionsInternal(name)
		if err != nil || len(versions) == 0 {
			continue
		}

		if query.IncludeAllVersions {
			for _, version := range versions {
				script, err := s.loadScript(name, version)
				if err != nil {
					continue
				}
				if matchesScriptQuery(script, query) {
					results = append(results, script)
				}
			}
		} else {
			// Only include latest version
			script, err := s.loadScript(name, versions[0])
			if err != nil {
				continue
			}
			if matchesScriptQuery(script, query) {
				results = append(results, script)
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
func (s *FilesystemStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}

	scriptDir := filepath.Join(s.root, name)
	if _, err := os.Stat(scriptDir); os.IsNotExist(err) {
		return false, nil
	}

	versions, _ := s.listVersionsInternal(name)
	return len(versions) > 0, nil
}

// ListVersions returns all version numbers for a script.
func (s *FilesystemStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	return s.listVersionsInternal(name)
}

// Close marks the storage as closed.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// listVersionsInternal lists version numbers for a script (no locking).
func (s *FilesystemStorage) listVersionsInternal(name string) ([]int, error) {
	scriptDir := filepath.Join(s.root, name)
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []int{}, nil
		}
		return nil, err
	}

	var versions []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filename := entry.Name()
		if strings.HasPrefix(filename, FilesystemVersionPrefix) && strings.HasSuffix(filename, FilesystemVersionSuffix) {
			versionStr := filename[len(FilesystemVersionPrefix) : len(filename)-len(FilesystemVersionSuffix)]
			version := parseVersionNumber(versionStr)
			if version > 0 {
				versions = append(versions, version)
			}
		}
	}

	// Sort descending
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

// loadScript loads a script from disk.
func (s *FilesystemStorage) loadScript(name string, version int) (*StoredScript, error) {
	filename := filepath.Join(s.root, name, FilesystemVersionPrefix+intToStr(version)+FilesystemVersionSuffix)
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewStorageVersionNotFoundError(name, version)
		}
		return nil, &StorageError{Message: ErrMsgReadScript, Name: filename, Cause: err}
	}

	var script StoredScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, &StorageError{Message: ErrMsgUnmarshalScript, Name: filename, Cause: err}
	}

	return &script, nil
}

// parseVersionNumber parses a version number string.
func parseVersionNumber(s string) int {
	if s == "" {
		return 0
	}
	result := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		result = result*10 + int(c-'0')
	}
	return result
}

// Ensure FilesystemStorage implements ScriptStorage
var _ ScriptStorage = (*FilesystemStorage)(nil)

// Additional storage error messages
const (
	ErrMsgInvalidStorageRoot = "invalid storage root path"
	ErrMsgCreateStorageDir   = "failed to create storage directory"
	ErrMsgReadStorageDir     = "failed to read storage directory"
	ErrMsgMarshalScript      = "failed to marshal script"
	ErrMsgUnmarshalScript    = "failed to unmarshal script"
	ErrMsgWriteScript        = "failed to write script file"
	ErrMsgReadScript         = "failed to read script file"
	ErrMsgDeleteScript       = "failed to delete script"
)

// validateScriptNameForFilesystem validates a script name for filesystem safety.
// Prevents path traversal attacks and invalid filesystem characters.
func validateScriptNameForFilesystem(name string) error {
	if name == "" {
		return &StorageError{Message: ErrMsgInvalidScriptName}
	}
	// Check for path traversal attempts
	if strings.Contains(name, "..") {
		return &StorageError{Message: ErrMsgPathTraversalDetected, Name: name}
	}
	// Check for invalid filesystem characters
	if strings.ContainsAny(name, "/\\:*?\"<>|") {
		return &StorageError{Message: ErrMsgInvalidScriptName, Name: name}
	}
	return nil
}
