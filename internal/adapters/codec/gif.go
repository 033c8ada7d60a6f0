package codec

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"time"

	"github.com/ericpauley/go-quantize/quantize"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// gifDelayUnit is the resolution of GIF frame delays
const gifDelayUnit = 10 * time.Millisecond

// maxGIFColors is the largest color table a GIF frame can carry
const maxGIFColors = 256

// GIFCodec handles animated GIFs
type GIFCodec struct{}

func NewGIFCodec() *GIFCodec {
	return &GIFCodec{}
}

func (c *GIFCodec) Format() domain.Format {
	return domain.FormatGIF
}

func (c *GIFCodec) Kind() domain.Kind {
	return domain.KindAnimated
}

// Decode parses the GIF stream. Frames are composited onto the logical
// screen lazily, one per call to Next.
func (c *GIFCodec) Decode(r io.Reader) (ports.FrameSource, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}

	width, height := g.Config.Width, g.Config.Height
	if width == 0 || height == 0 {
		var union image.Rectangle
		for _, frame := range g.Image {
			union = union.Union(frame.Bounds())
		}
		width, height = union.Max.X, union.Max.Y
	}

	meta := domain.Metadata{
		Format:       domain.FormatGIF,
		LoopCount:    g.LoopCount,
		DefaultDelay: domain.DefaultFrameDelay,
	}
	if len(g.Delay) > 0 && g.Delay[0] > 0 {
		meta.DefaultDelay = time.Duration(g.Delay[0]) * gifDelayUnit
	}

	return &gifSource{
		g:      g,
		meta:   meta,
		canvas: image.NewRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

// Encode quantizes every frame against its own colors and writes a single
// multi-frame GIF with the original timing and loop count
func (c *GIFCodec) Encode(w io.Writer, asset *domain.RasterAsset) error {
	if len(asset.Frames) == 0 {
		return domain.ErrEmptyFrameSequence
	}

	out := &gif.GIF{LoopCount: asset.Meta.LoopCount}
	for _, frame := range asset.Frames {
		out.Image = append(out.Image, toPaletted(frame))
		out.Delay = append(out.Delay, delayCentiseconds(frame, asset.Meta.DefaultDelay))
		// Frames are full composites, so each one replaces the last
		out.Disposal = append(out.Disposal, gif.DisposalBackground)
	}

	if err := gif.EncodeAll(w, out); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

type gifSource struct {
	g      *gif.GIF
	meta   domain.Metadata
	canvas *image.RGBA
	next   int
}

func (s *gifSource) Meta() domain.Metadata {
	return s.meta
}

func (s *gifSource) Next() (domain.Frame, error) {
	if s.g == nil || s.next >= len(s.g.Image) {
		return domain.Frame{}, io.EOF
	}

	i := s.next
	s.next++

	src := s.g.Image[i]
	disposal := byte(gif.DisposalNone)
	if i < len(s.g.Disposal) {
		disposal = s.g.Disposal[i]
	}

	var previous *image.RGBA
	if disposal == gif.DisposalPrevious {
		previous = cloneRGBA(s.canvas)
	}

	draw.Draw(s.canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)
	composite := cloneRGBA(s.canvas)

	switch disposal {
	case gif.DisposalBackground:
		draw.Draw(s.canvas, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		s.canvas = previous
	}

	frame := domain.Frame{Image: composite}
	if i < len(s.g.Delay) {
		frame.Delay = time.Duration(s.g.Delay[i]) * gifDelayUnit
		frame.HasDelay = true
	}

	return frame, nil
}

func (s *gifSource) Close() error {
	s.g = nil
	s.canvas = nil
	return nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// toPaletted maps a composite frame onto a palette built from the frame
// itself. A composite mixes colors from earlier frames, so the source
// frame's local table cannot be reused.
func toPaletted(frame domain.Frame) *image.Paletted {
	b := frame.Image.Bounds()
	pal, exact := exactPalette(frame.Image)
	if !exact {
		q := quantize.MedianCutQuantizer{AddTransparent: hasTransparency(frame.Image)}
		pal = q.Quantize(make(color.Palette, 0, maxGIFColors), frame.Image)
	}

	pm := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), pal)
	if exact {
		draw.Draw(pm, pm.Bounds(), frame.Image, b.Min, draw.Src)
	} else {
		draw.FloydSteinberg.Draw(pm, pm.Bounds(), frame.Image, b.Min)
	}
	return pm
}

// exactPalette collects the distinct colors of img in first-seen order.
// It reports false once img has more colors than a GIF frame can hold.
func exactPalette(img image.Image) (color.Palette, bool) {
	seen := make(map[color.RGBA]struct{})
	var pal color.Palette

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(pal) == maxGIFColors {
				return nil, false
			}
			seen[c] = struct{}{}
			pal = append(pal, c)
		}
	}
	return pal, true
}

func hasTransparency(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				return true
			}
		}
	}
	return false
}

// delayCentiseconds keeps a frame's own delay, including an explicit zero,
// and falls back to the asset default only when the frame has none
func delayCentiseconds(frame domain.Frame, fallback time.Duration) int {
	if frame.HasDelay {
		return int(frame.Delay / gifDelayUnit)
	}
	if fallback <= 0 {
		fallback = domain.DefaultFrameDelay
	}
	return int(fallback / gifDelayUnit)
}
