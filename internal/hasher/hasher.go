// Package hasher computes the content hash that names every imported hold.
//
// A content hash is the first Length hex characters of the SHA-256 digest of
// a file's text with line endings normalized to "\n". It is computed fresh on
// every run and never persisted outside the manifest.
package hasher

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// Length is the number of hex characters kept from the digest.
const Length = 12

// ErrNotText is returned when a file is not valid UTF-8 text.
var ErrNotText = errors.New("file is not valid UTF-8 text")

// HashBytes returns the truncated SHA-256 hex digest of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:Length]
}

// HashFile reads the whole file at path and returns its content hash. The
// file must be UTF-8 text. "\r\n" and lone "\r" are hashed as "\n", so a
// model saved with Windows line endings keeps its key.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to hash '%s': %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("failed to hash '%s': %w", path, ErrNotText)
	}
	return HashBytes(NormalizeNewlines(data)), nil
}

// NormalizeNewlines rewrites "\r\n" and then any remaining "\r" to "\n".
func NormalizeNewlines(data []byte) []byte {
	if bytes.IndexByte(data, '\r') < 0 {
		return data
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
}
