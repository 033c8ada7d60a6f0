package codec

import (
	"sort"
	"strings"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// VideoExtensions are detected and skipped, never decoded
var VideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".flv"}

// Registry maps lowercase file extensions to codecs
type Registry struct {
	codecs map[string]ports.Codec
	videos map[string]struct{}
}

// NewRegistry creates the default dispatch table.
// jpegQuality applies to lossy JPEG output only.
func NewRegistry(jpegQuality int) *Registry {
	r := &Registry{
		codecs: make(map[string]ports.Codec),
		videos: make(map[string]struct{}),
	}

	r.Register(NewJPEGCodec(jpegQuality), ".jpg", ".jpeg")
	r.Register(NewPNGCodec(), ".png")
	r.Register(NewWebPCodec(), ".webp")
	r.Register(NewBMPCodec(), ".bmp")
	r.Register(NewGIFCodec(), ".gif")

	for _, ext := range VideoExtensions {
		r.videos[ext] = struct{}{}
	}

	return r
}

// Register binds a codec to one or more extensions
func (r *Registry) Register(c ports.Codec, exts ...string) {
	for _, ext := range exts {
		r.codecs[normalizeExt(ext)] = c
	}
}

// Lookup returns the codec for an extension
func (r *Registry) Lookup(ext string) (ports.Codec, bool) {
	c, ok := r.codecs[normalizeExt(ext)]
	return c, ok
}

// Classify returns the batch kind for an extension
func (r *Registry) Classify(ext string) domain.Kind {
	ext = normalizeExt(ext)
	if _, ok := r.videos[ext]; ok {
		return domain.KindVideo
	}
	if c, ok := r.codecs[ext]; ok {
		return c.Kind()
	}
	return domain.KindUnsupported
}

// Extensions lists the registered extensions of a kind in sorted order
func (r *Registry) Extensions(kind domain.Kind) []string {
	var exts []string
	if kind == domain.KindVideo {
		for ext := range r.videos {
			exts = append(exts, ext)
		}
	} else {
		for ext, c := range r.codecs {
			if c.Kind() == kind {
				exts = append(exts, ext)
			}
		}
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
