// Package manifest compiles static sites into an in-memory asset manifest
// and serves its entries.
package manifest

import (
	"sort"
	"time"
)

// Entry is a single published asset. Entries are immutable once the
// manifest is built.
type Entry struct {
	pathname    string
	content     []byte
	contentType string
	modTime     time.Time
	etag        string

	// precompressed bodies of the same asset, keyed by content encoding
	variants map[string]*Entry
}

// Pathname is the normalized lookup key of the entry, e.g. /img/a.png
func (e *Entry) Pathname() string {
	return e.pathname
}

// ContentType of the uncompressed asset
func (e *Entry) ContentType() string {
	return e.contentType
}

// Size of the uncompressed asset in bytes
func (e *Entry) Size() int64 {
	return int64(len(e.content))
}

// ModTime is the modification time recorded at build time
func (e *Entry) ModTime() time.Time {
	return e.modTime
}

// ETag is a strong entity tag derived from the content
func (e *Entry) ETag() string {
	return e.etag
}

// Encodings lists the precompressed variants available for the entry
func (e *Entry) Encodings() []string {
	encodings := make([]string, 0, len(e.variants))
	for enc := range e.variants {
		encodings = append(encodings, enc)
	}
	sort.Strings(encodings)

	return encodings
}

// Manifest maps pathnames to entries. It is read-only and safe for
// concurrent use.
type Manifest struct {
	entries map[string]*Entry
}

// Lookup returns the entry stored under pathname
func (m *Manifest) Lookup(pathname string) (*Entry, bool) {
	entry, ok := m.entries[pathname]
	return entry, ok
}

// Len is the number of entries
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Pathnames returns all lookup keys in lexical order
func (m *Manifest) Pathnames() []string {
	pathnames := make([]string, 0, len(m.entries))
	for pathname := range m.entries {
		pathnames = append(pathnames, pathname)
	}
	sort.Strings(pathnames)

	return pathnames
}
