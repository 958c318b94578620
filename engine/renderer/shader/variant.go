package shader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownVariant is returned when a variant name or index does not map to a shading mode.
var ErrUnknownVariant = errors.New("unknown shader variant")

// Variant is the closed set of shading modes. Every variant shares the vertex stage and
// uniform layout and differs only in its fragment stage.
type Variant int

const (
	// VariantShaded is Lambertian diffuse plus hemispheric ambient.
	VariantShaded Variant = iota

	// VariantUVDebug visualizes the interpolated texture coordinates as red/green.
	VariantUVDebug

	// VariantChecker draws a procedural checkerboard driven by the texture coordinates.
	VariantChecker

	// VariantCount is the number of variants; not a valid variant.
	VariantCount
)

var variantNames = [VariantCount]string{
	VariantShaded:  "shaded",
	VariantUVDebug: "uv",
	VariantChecker: "checker",
}

func (v Variant) String() string {
	if !v.Valid() {
		return "Variant(" + strconv.Itoa(int(v)) + ")"
	}
	return variantNames[v]
}

// Valid reports whether v names one of the shading modes.
func (v Variant) Valid() bool {
	return v >= 0 && v < VariantCount
}

// Variants returns every valid variant in index order.
func Variants() []Variant {
	vs := make([]Variant, 0, VariantCount)
	for v := range VariantCount {
		vs = append(vs, v)
	}
	return vs
}

// VariantFromIndex converts a shading-mode index to a Variant.
//
// Parameters:
//   - index: the zero-based shading-mode index
//
// Returns:
//   - Variant: the matching variant
//   - error: ErrUnknownVariant if index is out of range
func VariantFromIndex(index int) (Variant, error) {
	v := Variant(index)
	if !v.Valid() {
		return 0, fmt.Errorf("%w: index %d", ErrUnknownVariant, index)
	}
	return v, nil
}

// ParseVariant converts a name ("shaded", "uv", "checker") or a decimal index to a Variant.
// Matching is case-insensitive; "uvdebug" is accepted as an alias for "uv".
//
// Parameters:
//   - s: the variant name or index
//
// Returns:
//   - Variant: the matching variant
//   - error: ErrUnknownVariant if s names no variant
func ParseVariant(s string) (Variant, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "uvdebug" || name == "uv_debug" {
		return VariantUVDebug, nil
	}
	for v, n := range variantNames {
		if n == name {
			return Variant(v), nil
		}
	}
	if i, err := strconv.Atoi(name); err == nil {
		return VariantFromIndex(i)
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}
