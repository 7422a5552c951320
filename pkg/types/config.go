package types

import "errors"

// Config holds backend selection and parameters for Store.Attach.
type Config struct {
	Backend     string  `json:"backend" yaml:"backend"`
	DataDir     string  `json:"data_dir" yaml:"data_dir"`
	FacetingTol float64 `json:"faceting_tol" yaml:"faceting_tol"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultFacetingTol is recorded in the database when no tolerance is
// configured. Downstream sealing tools require the tag to be present.
const DefaultFacetingTol = 1e-3

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrTolNegative    = errors.New("faceting tolerance must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.FacetingTol < 0 {
		return ErrTolNegative
	}
	return nil
}

// EffectiveFacetingTol returns the configured tolerance, or the default
// when unset.
func (c Config) EffectiveFacetingTol() float64 {
	if c.FacetingTol == 0 {
		return DefaultFacetingTol
	}
	return c.FacetingTol
}
