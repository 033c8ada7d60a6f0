package codec

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/bmp"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// DefaultJPEGQuality is the quality used when none is configured
const DefaultJPEGQuality = 85

// StaticCodec handles single-frame formats
type StaticCodec struct {
	format domain.Format
	decode func(io.Reader) (image.Image, error)
	encode func(io.Writer, image.Image) error
}

// NewJPEGCodec encodes with a fixed lossy quality
func NewJPEGCodec(quality int) *StaticCodec {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	opts := &jpeg.Options{Quality: quality}
	return &StaticCodec{
		format: domain.FormatJPEG,
		decode: jpeg.Decode,
		encode: func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, opts)
		},
	}
}

// NewPNGCodec encodes losslessly at the highest compression level
func NewPNGCodec() *StaticCodec {
	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	return &StaticCodec{
		format: domain.FormatPNG,
		decode: png.Decode,
		encode: enc.Encode,
	}
}

// NewWebPCodec encodes with the encoder's default settings
func NewWebPCodec() *StaticCodec {
	return &StaticCodec{
		format: domain.FormatWebP,
		decode: webp.Decode,
		encode: func(w io.Writer, img image.Image) error {
			return webp.Encode(w, toRGBA(img), nil)
		},
	}
}

// NewBMPCodec encodes with the encoder's default settings
func NewBMPCodec() *StaticCodec {
	return &StaticCodec{
		format: domain.FormatBMP,
		decode: bmp.Decode,
		encode: bmp.Encode,
	}
}

func (c *StaticCodec) Format() domain.Format {
	return c.format
}

func (c *StaticCodec) Kind() domain.Kind {
	return domain.KindImage
}

// Decode reads the whole image and exposes it as a one-frame source
func (c *StaticCodec) Decode(r io.Reader) (ports.FrameSource, error) {
	img, err := c.decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.format, err)
	}
	return &singleFrameSource{
		frame: domain.Frame{Image: img},
		meta:  domain.Metadata{Format: c.format},
	}, nil
}

// Encode writes the single frame of asset
func (c *StaticCodec) Encode(w io.Writer, asset *domain.RasterAsset) error {
	switch len(asset.Frames) {
	case 0:
		return domain.ErrEmptyFrameSequence
	case 1:
	default:
		return fmt.Errorf("%s encoder expects one frame, got %d", c.format, len(asset.Frames))
	}

	if err := c.encode(w, asset.Frames[0].Image); err != nil {
		return fmt.Errorf("encode %s: %w", c.format, err)
	}
	return nil
}

type singleFrameSource struct {
	frame domain.Frame
	meta  domain.Metadata
	done  bool
}

func (s *singleFrameSource) Meta() domain.Metadata {
	return s.meta
}

func (s *singleFrameSource) Next() (domain.Frame, error) {
	if s.done {
		return domain.Frame{}, io.EOF
	}
	s.done = true
	return s.frame, nil
}

func (s *singleFrameSource) Close() error {
	s.done = true
	s.frame = domain.Frame{}
	return nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
