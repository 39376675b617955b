// Package filesystem provides the OS-backed implementation of types.FS.
// Atomic writes go through google/renameio so that a crash mid-save never
// leaves a partially written file behind.
package filesystem
