package domain

import (
	"image"
	"path/filepath"
	"strings"
	"time"
)

// Format identifies the encoding of a raster file
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatBMP  Format = "bmp"
	FormatGIF  Format = "gif"
)

// Kind classifies an input file for batch processing
type Kind int

const (
	KindUnsupported Kind = iota
	KindImage
	KindAnimated
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindAnimated:
		return "animated"
	case KindVideo:
		return "video"
	default:
		return "unsupported"
	}
}

// DefaultFrameDelay is used for frames that carry no display duration
const DefaultFrameDelay = 100 * time.Millisecond

// Frame is one still image of a raster asset
type Frame struct {
	Image image.Image
	Delay time.Duration

	// HasDelay is false when the source carried no duration for the frame.
	// A zero Delay with HasDelay set is a real zero delay.
	HasDelay bool
}

// Width returns the frame width in pixels
func (f Frame) Width() int {
	return f.Image.Bounds().Dx()
}

// Height returns the frame height in pixels
func (f Frame) Height() int {
	return f.Image.Bounds().Dy()
}

// Metadata holds asset-level properties that survive a resample
type Metadata struct {
	Format       Format
	LoopCount    int
	DefaultDelay time.Duration
}

// RasterAsset is a decoded image: a single frame for static formats,
// N frames for animations
type RasterAsset struct {
	Frames []Frame
	Meta   Metadata
}

// IsAnimated reports whether the asset has more than one frame
func (a *RasterAsset) IsAnimated() bool {
	return len(a.Frames) > 1
}

// Bounds returns the dimensions of the first frame
func (a *RasterAsset) Bounds() (int, int) {
	if len(a.Frames) == 0 {
		return 0, 0
	}
	return a.Frames[0].Width(), a.Frames[0].Height()
}

// Naming selects how output files are named
type Naming string

const (
	// NamingSameName keeps the input filename in the output directory
	NamingSameName Naming = "same-name"
	// NamingSuffix appends OptimizedSuffix before the extension
	NamingSuffix Naming = "suffix"
)

const OptimizedSuffix = "_optimized"

// IsValid reports whether n is a known naming convention
func (n Naming) IsValid() bool {
	return n == NamingSameName || n == NamingSuffix
}

// OutputName derives the output filename for an input path
func (n Naming) OutputName(inputPath string) string {
	base := filepath.Base(inputPath)
	if n != NamingSuffix {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + OptimizedSuffix + ext
}
