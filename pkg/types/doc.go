// Package types defines the geometry model entities, the Store interface,
// and the standard errors shared by the facet packages.
package types
