// Package pattern implements the pattern-cutting engine §4.D
// describes: a pattern descriptor, tile-position generation, cutter
// template construction, and the Cut orchestration that subtracts a
// fused, optionally clipped set of positioned cutters from a solid.
package pattern

import (
	"fmt"
	"strings"

	"github.com/chazu/patterncut/pkg/diag"
)

// ShapeKind is the closed tag the shape alias table (§6) resolves to.
type ShapeKind int

const (
	Line ShapeKind = iota
	Rect
	Square
	Circle
	Polygon // n-sided, N holds the side count
)

func (k ShapeKind) String() string {
	switch k {
	case Line:
		return "line"
	case Rect:
		return "rect"
	case Square:
		return "square"
	case Circle:
		return "circle"
	case Polygon:
		return "polygon"
	}
	return "unknown"
}

// Clip names the non-rectangular face clipping mode.
type Clip int

const (
	ClipNone Clip = iota
	ClipPartial
	ClipWhole
)

// Descriptor is the fully-resolved pattern descriptor D (§6). Every
// field has already had its default applied by ParseDescriptor or
// NewDescriptor; Cut never re-derives a default from a zero value.
type Descriptor struct {
	Shape ShapeKind
	N     int // side count when Shape == Polygon

	Width  float64
	Height float64 // rect only; defaults to Width
	Length float64 // line only; 0 means "auto"

	Fillet    float64
	RoundEnds bool
	Shear     float64
	Rotation  float64

	Depth    float64 // 0 means "through"
	HasDepth bool

	SpacingX, SpacingY float64
	WallThickness      float64
	HasWallThickness   bool
	BorderX, BorderY   float64
	Columns, Rows      int
	ColumnGap, RowGap  float64
	Stagger            bool
	StaggerAmount      float64
	Angle              float64
	Clip               Clip
}

// NewDescriptor returns a Descriptor with every default §6's table
// specifies already applied, for a given shape and primary width.
func NewDescriptor(shape ShapeKind, width float64) Descriptor {
	return Descriptor{
		Shape:         shape,
		Width:         width,
		Height:        width,
		Fillet:        0,
		SpacingX:      width,
		SpacingY:      width,
		BorderX:       2.0,
		BorderY:       2.0,
		Columns:       1,
		Rows:          1,
		ColumnGap:     5.0,
		RowGap:        5.0,
		StaggerAmount: 0.5,
	}
}

// CellU returns the effective per-cell pitch along u: wallThickness if
// set, else the per-axis spacing gap, plus width (§4.D step 5).
func (d Descriptor) CellU() float64 {
	if d.HasWallThickness {
		return d.Width + d.WallThickness
	}
	return d.Width + d.SpacingX
}

// CellV returns the effective per-cell pitch along v.
func (d Descriptor) CellV() float64 {
	if d.HasWallThickness {
		return d.Height + d.WallThickness
	}
	return d.Height + d.SpacingY
}

// shapeAliases is the closed shape-word table §6 specifies.
var shapeAliases = map[string]ShapeKind{
	"line":      Line,
	"rect":      Rect,
	"rectangle": Rect,
	"square":    Square,
	"circle":    Circle,
}

var polygonAliases = map[string]int{
	"hexagon":  6,
	"hex":      6,
	"octagon":  8,
	"oct":      8,
	"triangle": 3,
	"tri":      3,
}

// ParseDescriptor resolves a loose map[string]any wire descriptor
// (§6's external interface) into a Descriptor, applying every default
// and alias the table specifies, including the legacy `sides`/`type`/
// `size` keys and the deprecated `direction` alias.
func ParseDescriptor(m map[string]any) (Descriptor, error) {
	shapeVal, ok := firstOf(m, "shape", "type", "sides")
	if !ok {
		shapeVal = "line"
	}

	kind, n, err := resolveShape(shapeVal)
	if err != nil {
		return Descriptor{}, diag.New(diag.InvalidInput, "ParseDescriptor", err.Error(), map[string]any{"shape": shapeVal})
	}

	width := 1.0
	if v, ok := firstOf(m, "width", "size"); ok {
		f, err := toFloat(v)
		if err != nil {
			return Descriptor{}, diag.New(diag.InvalidInput, "ParseDescriptor", "width must be numeric", map[string]any{"width": v})
		}
		width = f
	}
	if width <= 0 {
		return Descriptor{}, diag.New(diag.InvalidInput, "ParseDescriptor", "width must be positive", map[string]any{"width": width})
	}

	d := NewDescriptor(kind, width)
	d.N = n

	if v, ok := m["height"]; ok {
		if f, err := toFloat(v); err == nil {
			d.Height = f
		}
	}
	if v, ok := m["length"]; ok {
		if f, err := toFloat(v); err == nil {
			d.Length = f
		}
	}
	if v, ok := m["fillet"]; ok {
		if f, err := toFloat(v); err == nil {
			d.Fillet = f
		}
	}
	if v, ok := m["roundEnds"]; ok {
		if b, ok := v.(bool); ok {
			d.RoundEnds = b
		}
	}
	if v, ok := m["shear"]; ok {
		if f, err := toFloat(v); err == nil {
			d.Shear = f
		}
	}
	if v, ok := m["rotation"]; ok {
		if f, err := toFloat(v); err == nil {
			d.Rotation = f
		}
	}
	if v, ok := m["depth"]; ok {
		if f, err := toFloat(v); err == nil {
			d.Depth = f
			d.HasDepth = true
		}
	}

	spacing := width
	if v, ok := m["spacing"]; ok {
		if f, err := toFloat(v); err == nil {
			spacing = f
		}
	}
	d.SpacingX, d.SpacingY = spacing, spacing
	if v, ok := m["spacingX"]; ok {
		if f, err := toFloat(v); err == nil {
			d.SpacingX = f
		}
	}
	if v, ok := m["spacingY"]; ok {
		if f, err := toFloat(v); err == nil {
			d.SpacingY = f
		}
	}
	if v, ok := m["wallThickness"]; ok {
		if f, err := toFloat(v); err == nil {
			d.WallThickness = f
			d.HasWallThickness = true
		}
	}

	border := 2.0
	if v, ok := m["border"]; ok {
		if f, err := toFloat(v); err == nil {
			border = f
		}
	}
	d.BorderX, d.BorderY = border, border
	if v, ok := m["borderX"]; ok {
		if f, err := toFloat(v); err == nil {
			d.BorderX = f
		}
	}
	if v, ok := m["borderY"]; ok {
		if f, err := toFloat(v); err == nil {
			d.BorderY = f
		}
	}

	if v, ok := m["columns"]; ok {
		if n, ok := toInt(v); ok {
			d.Columns = n
		}
	}
	if v, ok := m["rows"]; ok {
		if n, ok := toInt(v); ok {
			d.Rows = n
		}
	}

	columnGap := 5.0
	if v, ok := m["columnGap"]; ok {
		if f, err := toFloat(v); err == nil {
			columnGap = f
		}
	}
	d.ColumnGap = columnGap
	d.RowGap = columnGap
	if v, ok := m["rowGap"]; ok {
		if f, err := toFloat(v); err == nil {
			d.RowGap = f
		}
	}

	if v, ok := m["stagger"]; ok {
		if b, ok := v.(bool); ok {
			d.Stagger = b
		}
	}
	if v, ok := m["staggerAmount"]; ok {
		if f, err := toFloat(v); err == nil {
			d.StaggerAmount = f
		}
	}

	angle := 0.0
	if v, ok := m["angle"]; ok {
		if f, err := toFloat(v); err == nil {
			angle = f
		}
	} else if v, ok := m["direction"]; ok {
		// Deprecated alias: "x" -> 0 degrees, "y" -> 90 degrees.
		if s, ok := v.(string); ok && strings.EqualFold(s, "y") {
			angle = 90
		}
	}
	d.Angle = angle

	if v, ok := m["clip"]; ok {
		if s, ok := v.(string); ok {
			switch strings.ToLower(s) {
			case "partial":
				d.Clip = ClipPartial
			case "whole":
				d.Clip = ClipWhole
			}
		}
	}

	return d, nil
}

func firstOf(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func resolveShape(v any) (ShapeKind, int, error) {
	switch val := v.(type) {
	case string:
		word := strings.ToLower(val)
		if kind, ok := shapeAliases[word]; ok {
			return kind, 0, nil
		}
		if n, ok := polygonAliases[word]; ok {
			return Polygon, n, nil
		}
		return 0, 0, fmt.Errorf("unknown shape word %q", val)
	case int:
		if val < 3 {
			return 0, 0, fmt.Errorf("numeric shape must be >= 3 sides, got %d", val)
		}
		return Polygon, val, nil
	case float64:
		n := int(val)
		if float64(n) != val || n < 3 {
			return 0, 0, fmt.Errorf("numeric shape must be an integer >= 3 sides, got %v", val)
		}
		return Polygon, n, nil
	default:
		return 0, 0, fmt.Errorf("shape must be a string or an integer side count, got %T", v)
	}
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("value %v is not numeric", v)
	}
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}
