package types

import "errors"

// Store defines the interface for geometry database backends. Callers
// attach to a backend, save or load a model, and detach when done.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, operations return ErrStoreDetached.
	Detach() error

	// SaveModel persists the complete model, replacing any previous one.
	SaveModel(m *Model) error

	// LoadModel reconstructs the model from the database.
	// Returns ErrEmptyStore if no model has been saved.
	LoadModel() (*Model, error)

	// ListMaterials returns the material groups with their member volumes,
	// ordered by group name.
	ListMaterials() ([]MaterialGroup, error)

	// Summary reports entity counts and stored metadata.
	Summary() (Summary, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrEmptyStore      = errors.New("store contains no model")
)

// Summary reports the contents of a geometry database.
type Summary struct {
	Volumes        int     `json:"volumes"`
	Surfaces       int     `json:"surfaces"`
	SharedSurfaces int     `json:"shared_surfaces"`
	Triangles      int     `json:"triangles"`
	Vertices       int     `json:"vertices"`
	FacetingTol    float64 `json:"faceting_tol"`
}
