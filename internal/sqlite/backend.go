package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fusion-tools/facet/pkg/types"
)

// DatabaseFileName is the geometry database file inside the data dir.
const DatabaseFileName = "facet.db"

// Backend implements the Store interface on an SQLite database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

var _ types.Store = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the backend with the given configuration. Creates
// DataDir if it does not exist and writes a fresh schema; a composed
// geometry database is always rebuilt, never migrated in place.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, DatabaseFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// AttachExisting opens an already composed database without touching its
// schema or contents. Used by the verification commands.
func (b *Backend) AttachExisting(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dbPath := filepath.Join(config.DataDir, DatabaseFileName)
	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", dbPath, types.ErrEmptyStore)
		}
		return err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// ensureSchema drops any previous schema and recreates all tables and
// indexes.
func ensureSchema(db *sql.DB) error {
	drops := []string{
		"DROP TABLE IF EXISTS group_members;",
		"DROP TABLE IF EXISTS groups;",
		"DROP TABLE IF EXISTS triangles;",
		"DROP TABLE IF EXISTS vertices;",
		"DROP TABLE IF EXISTS surfaces;",
		"DROP TABLE IF EXISTS volumes;",
		"DROP TABLE IF EXISTS model;",
	}
	for _, stmt := range drops {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("resetting schema: %w", err)
		}
	}
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating indexes: %w", err)
		}
	}
	return nil
}

// Detach releases all resources held by the backend. After Detach, all
// operations return ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// newUUID generates a UUID v7 string.
func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}
