// Package types defines the core data model shared across packsmith:
// instance settings, pack manifests, pack version descriptors, change sets,
// and mod loader selections. It has no dependencies on other packsmith
// packages so that every component can use it freely.
package types
