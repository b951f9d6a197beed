package tagline

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/asdine/storm/v3"
	"go.etcd.io/bbolt"
)

// BoltStorage stores scripts in a single Bolt database file via storm.
// It is a good fit for CLI tools and single-node deployments that need
// persistence without running a database server.
type BoltStorage struct {
	mu     sync.RWMutex
	db     *storm.DB
	closed bool
}

// boltScriptRecord is the storm-indexed representation of a StoredScript.
// Each version is stored as its own record.
type boltScriptRecord struct {
	ID        string `storm:"id"`
	Name      string `storm:"index"`
	Speaker   string
	Profile   string
	Body      string
	Version   int
	Metadata  map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	Tags      []string
}

// BoltStorageDriver is the driver for creating BoltStorage instances.
type BoltStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameBolt, &BoltStorageDriver{})
}

// Open creates a new BoltStorage instance.
// The connection string is the database file path.
func (d *BoltStorageDriver) Open(connectionString string) (ScriptStorage, error) {
	return NewBoltStorage(connectionString)
}

// NewBoltStorage opens (or creates) a Bolt database file at the given path.
// The open call times out instead of blocking when another process holds
// the file lock.
func NewBoltStorage(path string) (*BoltStorage, error) {
	if path == "" {
		return nil, &StorageError{Message: ErrMsgBoltEmptyPath}
	}

	db, err := storm.Open(path, storm.BoltOptions(BoltFilePermissions, &bbolt.Options{
		Timeout: BoltOpenTimeout,
	}))
	if err != nil {
		return nil, &StorageError{Message: ErrMsgBoltOpenFailed, Name: path, Cause: err}
	}

	return &BoltStorage{db: db}, nil
}

// Get retrieves the latest version of a script by name.
func (s *BoltStorage) Get(ctx context.Context, name string) (*StoredScript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	records, err := s.findByName(name)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, NewStorageScriptNotFoundError(name)
	}

	// Latest version is first (sorted descending)
	return fromBoltRecord(&records[0]), nil
}

// GetByID retrieves a specific script version by ID.
func (s *BoltStorage) GetByID(ctx context.Context, id ScriptID) (*StoredScript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	var record boltScriptRecord
	if err := s.db.One("ID", string(id), &record); err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return nil, NewStorageScriptNotFoundError(string(id))
		}
		return nil, &StorageError{Message: ErrMsgBoltQueryFailed, Name: string(id), Cause: err}
	}

	return fromBoltRecord(&record), nil
}

// GetVersion retrieves a specific version of a script.
func (s *BoltStorage) GetVersion(ctx context.Context, name string, version int) (*StoredScript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	records, err := s.findByName(name)
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].Version == version {
			return fromBoltRecord(&records[i]), nil
		}
	}

	return nil, NewStorageVersionNotFoundError(name, version)
}

// Save stores a script, creating a new version if one exists.
func (s *BoltStorage) Save(ctx context.Context, script *StoredScript) error {
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

	records, err := s.findByName(script.Name)
	if err != nil {
		return err
	}

	// Determine next version number
	nextVersion := 1
	if len(records) > 0 {
		nextVersion = records[0].Version + 1
	}

	now := time.Now()

	record := &boltScriptRecord{
		ID:        string(generateScriptID()),
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

	if err := s.db.Save(record); err != nil {
		return &StorageError{Message: ErrMsgBoltQueryFailed, Name: script.Name, Cause: err}
	}

	// Update input script with generated values
	script.ID = ScriptID(record.ID)
	script.Version = record.Version
	script.CreatedAt = record.CreatedAt
	script.UpdatedAt = record.UpdatedAt

	return nil
}

// Delete removes all versions of a script by name.
func (s *BoltStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	records, err := s.findByName(name)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return NewStorageScriptNotFoundError(name)
	}

	for i := range records {
		if err := s.db.DeleteStruct(&records[i]); err != nil {
			return &StorageError{Message: ErrMsgBoltQueryFailed, Name: name, Cause: err}
		}
	}

	return nil
}

// DeleteVersion removes a specific version of a script.
func (s *BoltStorage) DeleteVersion(ctx context.Context, name string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	records, err := s.findByName(name)
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].Version == version {
			if err := s.db.DeleteStruct(&records[i]); err != nil {
				return &StorageError{Message: ErrMsgBoltQueryFailed, Name: name, Cause: err}
			}
			return nil
		}
	}

	return NewStorageVersionNotFoundError(name, version)
}

// List returns scripts matching the query.
func (s *BoltStorage) List(ctx context.Context, query *ScriptQuery) ([]*StoredScript, error) {
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

	var records []boltScriptRecord
	if err := s.db.All(&records); err != nil {
		return nil, &StorageError{Message: ErrMsgBoltQueryFailed, Cause: err}
	}

	// Group by name, sorted by version descending within each group
	byName := make(map[string][]*StoredScript)
	for i := range records {
		script := fromBoltRecord(&records[i])
		byName[script.Name] = append(byName[script.Name], script)
	}
	for _, versions := range byName {
		sort.Slice(versions, func(i, j int) bool {
			return versions[i].Version > versions[j].Version
		})
	}

	var results []*StoredScript

	for name, versions := range byName {
		if !matchesQuery(name, versions, query) {
			continue
		}

		if query.IncludeAllVersions {
			for _, script := range versions {
				if matchesScriptQuery(script, query) {
					results = append(results, script)
				}
			}
		} else if len(versions) > 0 {
			// Only include latest version
			if matchesScriptQuery(versions[0], query) {
				results = append(results, versions[0])
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
func (s *BoltStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}

	records, err := s.findByName(name)
	if err != nil {
		return false, err
	}

	return len(records) > 0, nil
}

// ListVersions returns all version numbers for a script.
func (s *BoltStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	records, err := s.findByName(name)
	if err != nil {
		return nil, err
	}

	result := make([]int, len(records))
	for i := range records {
		result[i] = records[i].Version
	}

	return result, nil
}

// Close closes the underlying Bolt database.
func (s *BoltStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &StorageError{Message: ErrMsgBoltAlreadyClosed}
	}

	s.closed = true
	return s.db.Close()
}

// findByName returns all version records for a name, sorted by version
// descending. A missing name yields an empty slice, not an error.
func (s *BoltStorage) findByName(name string) ([]boltScriptRecord, error) {
	var records []boltScriptRecord
	if err := s.db.Find("Name", name, &records); err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return nil, nil
		}
		return nil, &StorageError{Message: ErrMsgBoltQueryFailed, Name: name, Cause: err}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Version > records[j].Version
	})

	return records, nil
}

// fromBoltRecord converts a storm record back into a StoredScript.
func fromBoltRecord(record *boltScriptRecord) *StoredScript {
	return &StoredScript{
		ID:        ScriptID(record.ID),
		Name:      record.Name,
		Speaker:   record.Speaker,
		Profile:   record.Profile,
		Body:      record.Body,
		Version:   record.Version,
		Metadata:  copyStringMap(record.Metadata),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
		CreatedBy: record.CreatedBy,
		Tags:      copyStringSlice(record.Tags),
	}
}

// Ensure BoltStorage implements ScriptStorage
var _ ScriptStorage = (*BoltStorage)(nil)
