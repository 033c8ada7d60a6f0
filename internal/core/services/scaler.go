package services

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/disintegration/gift"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// Scaler fits raster assets into a SizeConstraint with one uniform factor
type Scaler struct {
	resampling gift.Resampling
}

// NewScaler creates a scaler using Lanczos resampling, which keeps thin
// lines and edges crisp when downscaling
func NewScaler() *Scaler {
	return &Scaler{resampling: gift.LanczosResampling}
}

// StaticFactor returns D / max(w, h), or 1 when the image already fits
func StaticFactor(width, height, maxDimension int) float64 {
	longest := max(width, height)
	if longest <= maxDimension || longest <= 0 {
		return 1
	}
	return float64(maxDimension) / float64(longest)
}

// AnimatedFactor returns sqrt(B / originalBytes), or 1 when the file is
// already within budget.
//
// The square root assumes encoded size grows with pixel area, so halving
// the byte budget shrinks each side by 1/sqrt(2). This is a heuristic: the
// re-encoded output is not checked against the budget.
func AnimatedFactor(originalBytes, maxBytes int64) float64 {
	if originalBytes <= maxBytes || originalBytes <= 0 {
		return 1
	}
	return math.Sqrt(float64(maxBytes) / float64(originalBytes))
}

// ScaledSize applies factor to both sides, rounding to the nearest pixel
// and never going below 1px
func ScaledSize(width, height int, factor float64) (int, int) {
	if factor >= 1 {
		return width, height
	}
	w := int(math.Round(float64(width) * factor))
	h := int(math.Round(float64(height) * factor))
	return max(w, 1), max(h, 1)
}

// Plan computes the scale factor for an asset.
// originalBytes is the on-disk size of the source and is only consulted
// for MaxByteSize constraints.
func (s *Scaler) Plan(asset *domain.RasterAsset, constraint domain.SizeConstraint, originalBytes int64) (domain.ScalePlan, error) {
	if err := constraint.Validate(); err != nil {
		return domain.ScalePlan{}, err
	}
	if len(asset.Frames) == 0 {
		return domain.ScalePlan{}, domain.ErrEmptyFrameSequence
	}

	switch constraint.Kind {
	case domain.MaxDimension:
		if len(asset.Frames) != 1 {
			return domain.ScalePlan{}, fmt.Errorf("dimension constraint expects one frame, got %d", len(asset.Frames))
		}
		w, h := asset.Bounds()
		return domain.ScalePlan{Factor: StaticFactor(w, h, int(constraint.Limit))}, nil
	default:
		return domain.ScalePlan{Factor: AnimatedFactor(originalBytes, constraint.Limit)}, nil
	}
}

// Apply returns a new asset with every frame resampled by the plan's
// factor. Metadata and per-frame delays carry over unchanged. An identity
// plan returns a copy that shares the source frames.
func (s *Scaler) Apply(asset *domain.RasterAsset, plan domain.ScalePlan) *domain.RasterAsset {
	out := &domain.RasterAsset{
		Frames: make([]domain.Frame, len(asset.Frames)),
		Meta:   asset.Meta,
	}

	for i, frame := range asset.Frames {
		if plan.IsIdentity() {
			out.Frames[i] = frame
			continue
		}
		w, h := ScaledSize(frame.Width(), frame.Height(), plan.Factor)
		out.Frames[i] = domain.Frame{
			Image:    s.Resample(frame.Image, w, h),
			Delay:    frame.Delay,
			HasDelay: frame.HasDelay,
		}
	}

	return out
}

// Resample resizes img to exactly width x height
func (s *Scaler) Resample(img image.Image, width, height int) image.Image {
	g := gift.New(gift.Resize(width, height, s.resampling))
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// Fit plans and applies in one step
func (s *Scaler) Fit(asset *domain.RasterAsset, constraint domain.SizeConstraint, originalBytes int64) (*domain.RasterAsset, domain.ScalePlan, error) {
	plan, err := s.Plan(asset, constraint, originalBytes)
	if err != nil {
		return nil, plan, err
	}
	return s.Apply(asset, plan), plan, nil
}

// CollectFrames drains a frame source into an asset. The source must yield
// at least one frame; an empty sequence is reported as
// ErrEmptyFrameSequence rather than producing an asset with no frames.
func CollectFrames(src ports.FrameSource) (*domain.RasterAsset, error) {
	asset := &domain.RasterAsset{Meta: src.Meta()}

	for {
		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if len(asset.Frames) == 0 {
				return nil, fmt.Errorf("%w: %v", domain.ErrEmptyFrameSequence, err)
			}
			return nil, fmt.Errorf("frame %d: %w", len(asset.Frames), err)
		}
		asset.Frames = append(asset.Frames, frame)
	}

	if len(asset.Frames) == 0 {
		return nil, domain.ErrEmptyFrameSequence
	}
	return asset, nil
}
