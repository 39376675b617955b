// Package hashutil provides streaming checksum helpers for download
// verification.
package hashutil

import (
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"io"
	"strings"
)

// SHA1Writer passes writes through to the underlying writer while
// accumulating their SHA-1. Wrap a download destination with it and compare
// Sum against the expected digest once the stream is complete.
type SHA1Writer struct {
	w io.Writer
	h hash.Hash
}

// NewSHA1Writer wraps w.
func NewSHA1Writer(w io.Writer) *SHA1Writer {
	return &SHA1Writer{w: w, h: sha1.New()}
}

func (s *SHA1Writer) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	// Hash exactly what reached the destination.
	s.h.Write(p[:n])
	return n, err
}

// Sum returns the lowercase hex SHA-1 of everything written so far.
func (s *SHA1Writer) Sum() string {
	return hex.EncodeToString(s.h.Sum(nil))
}

// Matches compares a hex digest case-insensitively. An empty expected digest
// matches anything, since upstream manifests do not always carry hashes.
func Matches(expected, actual string) bool {
	return expected == "" || strings.EqualFold(expected, actual)
}
