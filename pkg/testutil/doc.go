// Package testutil provides shared test infrastructure: an in-memory
// types.FS implementation with error injection, and helpers for building
// manifests and descriptors in tests.
package testutil
