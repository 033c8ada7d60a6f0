package ports

import (
	"context"
	"io"
	"time"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

// FrameSource yields the frames of a decoded asset one at a time.
// Next returns io.EOF once the sequence is exhausted; the source cannot be
// restarted.
type FrameSource interface {
	// Meta returns asset-level metadata known after the header is read
	Meta() domain.Metadata

	// Next returns the next frame or io.EOF at end of sequence
	Next() (domain.Frame, error)

	// Close releases decoder resources
	Close() error
}

// Codec decodes and encodes one raster format
type Codec interface {
	// Format returns the format handled by this codec
	Format() domain.Format

	// Kind reports whether the format is processed as a static or animated asset
	Kind() domain.Kind

	// Decode reads an encoded asset and returns a lazy frame source
	Decode(r io.Reader) (FrameSource, error)

	// Encode writes the asset using the format's compression settings
	Encode(w io.Writer, asset *domain.RasterAsset) error
}

// CodecRegistry is the format dispatch table keyed by file extension
type CodecRegistry interface {
	// Lookup returns the codec registered for an extension (".jpg", ".GIF", ...)
	Lookup(ext string) (Codec, bool)

	// Classify returns the batch kind for an extension, including rejected videos
	Classify(ext string) domain.Kind
}

// Sniffer inspects leading file bytes to detect the real content type
type Sniffer interface {
	// Sniff classifies content from its header bytes
	Sniff(head []byte) domain.Kind
}

// RecordRepository defines the port for structured record persistence
type RecordRepository interface {
	// List returns the paths of all record files in document order
	List(ctx context.Context) ([]string, error)

	// AboutPath returns the profile record path when it exists
	AboutPath(ctx context.Context) (string, bool)

	// Read parses a record file
	Read(ctx context.Context, path string) (*domain.Record, error)

	// Write persists a record in place
	Write(ctx context.Context, record *domain.Record) error

	// Backup copies the given files verbatim into a timestamped directory
	// and returns that directory
	Backup(ctx context.Context, paths []string, at time.Time) (string, error)

	// ListBackups returns existing backup directories, oldest first
	ListBackups(ctx context.Context) ([]string, error)

	// RemoveBackup deletes one backup directory
	RemoveBackup(ctx context.Context, dir string) error
}
