package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar"
	log "github.com/sirupsen/logrus"
	contentencoding "gitlab.com/feistel/go-contentencoding/encoding"
	zip "gitlab.com/gitlab-org/golang-archive-zip"
)

// DefaultArchivePrefix is the directory of a site archive holding the
// published files
const DefaultArchivePrefix = "public/"

var (
	// ErrUnsupportedCompression is returned for archive entries using a
	// compression method other than Store or Deflate
	ErrUnsupportedCompression = errors.New("unsupported compression method")

	compressedExtensions = map[string]string{
		".br": contentencoding.Brotli,
		".gz": contentencoding.Gzip,
	}
)

// Options control which files become part of a manifest
type Options struct {
	// Prefix selects the files below a directory, and is stripped from
	// their pathnames
	Prefix string
	// Exclude holds doublestar patterns matched against pathnames without
	// the leading "/", e.g. "**/*.map"
	Exclude []string
}

// ValidatePatterns reports the first malformed exclude pattern
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if _, err := doublestar.Match(pattern, pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}

	return nil
}

// LoadArchive compiles a manifest from a zip archive
func LoadArchive(r io.ReaderAt, size int64, opts Options) (*Manifest, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	b := newBuilder(opts)
	for _, file := range archive.File {
		if !file.Mode().IsRegular() {
			log.WithField("name", file.Name).Trace("skipping non-regular archive entry")
			continue
		}

		name, ok := b.relativeName(file.Name)
		if !ok {
			continue
		}

		if file.Method != zip.Store && file.Method != zip.Deflate {
			return nil, fmt.Errorf("%s: %w: %x", file.Name, ErrUnsupportedCompression, file.Method)
		}

		content, err := readArchiveFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file.Name, err)
		}

		if err := b.add(name, file.Modified, content); err != nil {
			return nil, err
		}
	}

	return b.build(), nil
}

// LoadArchiveFile opens the zip archive at path and compiles a manifest from it
func LoadArchiveFile(path string, opts Options) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return LoadArchive(f, fi.Size(), opts)
}

// LoadFS compiles a manifest from the regular files of fsys
func LoadFS(fsys fs.FS, opts Options) (*Manifest, error) {
	b := newBuilder(opts)

	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, ok := b.relativeName(name)
		if !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}

		return b.add(rel, info.ModTime(), content)
	})
	if err != nil {
		return nil, err
	}

	return b.build(), nil
}

func readArchiveFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

type builder struct {
	opts    Options
	entries map[string]*Entry
}

func newBuilder(opts Options) *builder {
	return &builder{
		opts:    opts,
		entries: make(map[string]*Entry),
	}
}

// relativeName strips the configured prefix, returning false for names
// outside of it
func (b *builder) relativeName(name string) (string, bool) {
	prefix := strings.TrimPrefix(b.opts.Prefix, "./")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	if !strings.HasPrefix(name, prefix) {
		return "", false
	}

	rel := strings.TrimPrefix(name, prefix)
	if rel == "" || strings.HasSuffix(rel, "/") {
		return "", false
	}

	return rel, true
}

func (b *builder) add(name string, modTime time.Time, content []byte) error {
	pathname := path.Clean("/" + name)

	for _, pattern := range b.opts.Exclude {
		excluded, err := doublestar.Match(pattern, strings.TrimPrefix(pathname, "/"))
		if err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		if excluded {
			log.WithField("pathname", pathname).WithField("pattern", pattern).Debug("excluding asset")
			return nil
		}
	}

	b.entries[pathname] = &Entry{
		pathname:    pathname,
		content:     content,
		contentType: detectContentType(pathname, content),
		modTime:     modTime,
		etag:        computeETag(content),
	}

	return nil
}

// build attaches precompressed files to the asset they were compressed from
func (b *builder) build() *Manifest {
	for pathname, entry := range b.entries {
		encoding, ok := compressedExtensions[path.Ext(pathname)]
		if !ok {
			continue
		}

		base, ok := b.entries[strings.TrimSuffix(pathname, path.Ext(pathname))]
		if !ok {
			continue
		}

		if base.variants == nil {
			base.variants = make(map[string]*Entry)
		}
		base.variants[encoding] = entry
	}

	log.WithField("assets", len(b.entries)).Debug("manifest compiled")

	return &Manifest{entries: b.entries}
}

// detectContentType resolves the type by extension first, falling back to
// content sniffing like http.ServeContent does
func detectContentType(pathname string, content []byte) string {
	if contentType := mimeTypeByExtension(path.Ext(pathname)); contentType != "" {
		return contentType
	}

	n := len(content)
	if n > 512 {
		n = 512
	}

	return http.DetectContentType(content[:n])
}

func computeETag(content []byte) string {
	sum := sha256.Sum256(content)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}
