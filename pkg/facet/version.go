// Package facet exposes module-level metadata.
package facet

// Version is the facet release version.
const Version = "0.1.0"
