package servestatic

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

const (
	// DefaultRoot is used when no root is configured
	DefaultRoot = "./"

	// placeholderOrigin only anchors relative path resolution, it is never
	// requested or exposed.
	placeholderOrigin = "https://www.example.com/"
)

var (
	errRootNotPath = errors.New("root must be a path without scheme or host")

	// %2E is an unreserved escape, so it is a dot segment like "."
	dotSegmentReplacer = strings.NewReplacer("%2e", ".", "%2E", ".")
)

// PathResolutionError is returned when a path cannot be parsed as a URL
// path component.
type PathResolutionError struct {
	Path string
	Err  error
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve path %q: %v", e.Path, e.Err)
}

func (e *PathResolutionError) Unwrap() error {
	return e.Err
}

func (e *PathResolutionError) Is(target error) bool {
	// nolint: errorlint // implementing type equality for errors.Is
	_, ok := target.(*PathResolutionError)
	return ok
}

// Resolver maps request paths to asset pathnames relative to a root.
// It is immutable and safe for concurrent use.
type Resolver struct {
	root         string
	explicitPath string
	base         *url.URL
}

// NewResolver normalizes root and computes the resolution base once.
// A non-empty explicitPath is resolved instead of every request path.
func NewResolver(root, explicitPath string) (*Resolver, error) {
	root = normalizeRoot(root)

	origin, err := url.Parse(placeholderOrigin)
	if err != nil {
		return nil, err
	}

	ref, err := url.Parse(root)
	if err != nil {
		return nil, &PathResolutionError{Path: root, Err: err}
	}

	if ref.Scheme != "" || ref.Host != "" {
		return nil, &PathResolutionError{Path: root, Err: errRootNotPath}
	}

	return &Resolver{
		root:         root,
		explicitPath: explicitPath,
		base:         origin.ResolveReference(ref),
	}, nil
}

// Root returns the normalized root, always ending with "/"
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns the normalized pathname for requestPath. requestPath is
// expected in its escaped form, e.g. url.URL.EscapedPath().
func (r *Resolver) Resolve(requestPath string) (string, error) {
	if r.explicitPath != "" {
		requestPath = r.explicitPath
	}

	// keep the path relative so it stays below the root
	reqPath := "./" + dotSegmentReplacer.Replace(strings.TrimPrefix(requestPath, "/"))

	ref, err := url.Parse(reqPath)
	if err != nil {
		return "", &PathResolutionError{Path: requestPath, Err: err}
	}

	pathname, err := decodePathname(cleanPathname(r.base.ResolveReference(ref).EscapedPath()))
	if err != nil {
		return "", &PathResolutionError{Path: requestPath, Err: err}
	}

	return pathname, nil
}

func normalizeRoot(root string) string {
	if root == "" {
		return DefaultRoot
	}

	if !strings.HasSuffix(root, "/") {
		root += "/"
	}

	return root
}

// cleanPathname collapses repeated separators left over by URL resolution,
// preserving a trailing "/". pathname must still be escaped so that an
// escaped separator is not mistaken for a real one.
func cleanPathname(pathname string) string {
	cleaned := path.Clean("/" + pathname)
	if strings.HasSuffix(pathname, "/") && cleaned != "/" {
		cleaned += "/"
	}

	return cleaned
}

// decodePathname unescapes every segment of an escaped pathname. A "/"
// decoded from "%2F" belongs to its segment and stays escaped.
func decodePathname(escaped string) (string, error) {
	segments := strings.Split(escaped, "/")
	for i, segment := range segments {
		decoded, err := url.PathUnescape(segment)
		if err != nil {
			return "", err
		}

		segments[i] = strings.ReplaceAll(decoded, "/", "%2F")
	}

	return strings.Join(segments, "/"), nil
}
