package manifest

import (
	"mime"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/go-mimedb"
)

var (
	extraMIMETypes = map[string]string{
		".avif":        "image/avif",
		".webmanifest": "application/manifest+json",
		".wasm":        "application/wasm",
	}

	loadMIMETypesOnce sync.Once
	errLoadMIMETypes  error
)

// LoadMIMETypes registers the MIME database and a few extra types with the
// mime package. It is safe to call more than once.
func LoadMIMETypes() error {
	loadMIMETypesOnce.Do(func() {
		if err := mimedb.LoadTypes(); err != nil {
			errLoadMIMETypes = err
			return
		}

		for ext, mimeType := range extraMIMETypes {
			if err := mime.AddExtensionType(ext, mimeType); err != nil {
				log.WithError(err).Errorf("failed to add extension: %q with MIME type: %q", ext, mimeType)
			}
		}
	})

	return errLoadMIMETypes
}

func mimeTypeByExtension(ext string) string {
	if ext == "" {
		return ""
	}

	return mime.TypeByExtension(strings.ToLower(ext))
}
