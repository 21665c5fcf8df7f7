// Package sums fingerprints the files a development environment depends on.
//
// A [Set] holds one SHA-256 digest per watched file. The cache is valid
// exactly while the Set recorded at build time equals a freshly computed
// one; modification times are never consulted.
package sums

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Checksum is the content fingerprint of one file.
type Checksum struct {
	Path   string
	Digest [sha256.Size]byte
}

// Hex returns the digest as lowercase hex.
func (c Checksum) Hex() string {
	return hex.EncodeToString(c.Digest[:])
}

// Set is a list of checksums sorted by path, one per path.
type Set []Checksum

// UnreadableFileError reports a watched file that could not be read.
type UnreadableFileError struct {
	Path string
	Err  error
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("cannot read watched file %s: %v", e.Path, e.Err)
}

func (e *UnreadableFileError) Unwrap() error {
	return e.Err
}

// Compute reads every path in full and returns their checksums.
// It fails on the first file that cannot be read; no partial Set is
// returned.
func Compute(paths []string) (Set, error) {
	unique := slices.Clone(paths)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	set := make(Set, 0, len(unique))
	for _, path := range unique {
		digest, err := digestFile(path)
		if err != nil {
			return nil, &UnreadableFileError{Path: path, Err: err}
		}
		set = append(set, Checksum{Path: path, Digest: digest})
	}
	return set, nil
}

func digestFile(path string) ([sha256.Size]byte, error) {
	var digest [sha256.Size]byte

	f, err := os.Open(path)
	if err != nil {
		return digest, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return digest, err
	}
	copy(digest[:], h.Sum(nil))
	return digest, nil
}

// Equal reports whether a and b map the same paths to the same digests.
// Order does not matter.
func Equal(a, b Set) bool {
	am := a.byPath()
	bm := b.byPath()
	if len(am) != len(bm) {
		return false
	}
	for path, digest := range am {
		other, ok := bm[path]
		if !ok || other != digest {
			return false
		}
	}
	return true
}

func (s Set) byPath() map[string][sha256.Size]byte {
	m := make(map[string][sha256.Size]byte, len(s))
	for _, c := range s {
		m[c.Path] = c.Digest
	}
	return m
}

// Paths returns the watched paths in the order they are stored.
func (s Set) Paths() []string {
	paths := make([]string, len(s))
	for i, c := range s {
		paths[i] = c.Path
	}
	return paths
}

// Lookup returns the checksum recorded for path.
func (s Set) Lookup(path string) (Checksum, bool) {
	for _, c := range s {
		if c.Path == path {
			return c, true
		}
	}
	return Checksum{}, false
}

// Manifest renders the set in sha256sum layout, one "<digest>  <path>" line
// per file, sorted by path.
func Manifest(s Set) []string {
	sorted := slices.Clone(s)
	slices.SortFunc(sorted, func(a, b Checksum) int {
		return strings.Compare(a.Path, b.Path)
	})
	lines := make([]string, len(sorted))
	for i, c := range sorted {
		lines[i] = c.Hex() + "  " + c.Path + "\n"
	}
	return lines
}
