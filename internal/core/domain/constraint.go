package domain

import "fmt"

// ConstraintKind tags the variant held by a SizeConstraint
type ConstraintKind int

const (
	MaxDimension ConstraintKind = iota + 1
	MaxByteSize
)

// SizeConstraint is the budget an asset must be scaled into.
// Limit is pixels for MaxDimension and bytes for MaxByteSize.
type SizeConstraint struct {
	Kind  ConstraintKind
	Limit int64
}

// MaxDimensionConstraint limits the longest side of a static image
func MaxDimensionConstraint(pixels int) SizeConstraint {
	return SizeConstraint{Kind: MaxDimension, Limit: int64(pixels)}
}

// MaxByteSizeConstraint limits the on-disk size of an animated asset
func MaxByteSizeConstraint(bytes int64) SizeConstraint {
	return SizeConstraint{Kind: MaxByteSize, Limit: bytes}
}

// Validate checks that the constraint is usable
func (c SizeConstraint) Validate() error {
	if c.Kind != MaxDimension && c.Kind != MaxByteSize {
		return fmt.Errorf("unknown constraint kind %d", c.Kind)
	}
	if c.Limit <= 0 {
		return fmt.Errorf("constraint limit must be positive, got %d", c.Limit)
	}
	return nil
}

func (c SizeConstraint) String() string {
	switch c.Kind {
	case MaxDimension:
		return fmt.Sprintf("max %dpx", c.Limit)
	case MaxByteSize:
		return fmt.Sprintf("max %.2fMB", float64(c.Limit)/BytesPerMB)
	default:
		return "invalid constraint"
	}
}

// BytesPerMB converts the MB budgets used in configuration
const BytesPerMB = 1024 * 1024

// ScalePlan is the uniform factor applied to every frame.
// Factor is in (0, 1]; 1 means the asset is left at its size.
type ScalePlan struct {
	Factor float64
}

// IsIdentity reports whether the plan leaves dimensions unchanged
func (p ScalePlan) IsIdentity() bool {
	return p.Factor >= 1
}
