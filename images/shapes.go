// Package images - Box geometry shared by detections and ground truths.
package images

import (
	"strings"

	"github.com/pkg/errors"
)

// Epsilon guards every ratio in the evaluation path against a zero denominator.
const Epsilon = 1e-6

// BoxFormat selects how the four coordinates of a box are encoded.
type BoxFormat string

const (
	// FormatCorners encodes a box as (x1, y1, x2, y2): top-left and bottom-right.
	FormatCorners BoxFormat = "corners"
	// FormatMidpoint encodes a box as (cx, cy, w, h): center, width and height.
	FormatMidpoint BoxFormat = "midpoint"
)

// ErrUnknownBoxFormat is returned when a box format name is not recognised.
var ErrUnknownBoxFormat = errors.New("unknown box format")

// ParseBoxFormat resolves a box format name, case-insensitively.
//
// Arguments:
//   - name: "corners" or "midpoint".
//
// Returns:
//   - BoxFormat: The matching format.
//   - error: ErrUnknownBoxFormat (wrapped with the name) otherwise.
func ParseBoxFormat(name string) (BoxFormat, error) {
	format := BoxFormat(strings.ToLower(strings.TrimSpace(name)))
	if err := format.Validate(); err != nil {
		return "", err
	}
	return format, nil
}

// Validate reports whether f is one of the supported encodings.
func (f BoxFormat) Validate() error {
	switch f {
	case FormatCorners, FormatMidpoint:
		return nil
	default:
		return errors.Wrapf(ErrUnknownBoxFormat, "%q", string(f))
	}
}

// Rect is a box in corner encoding.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// ToCorners converts four raw coordinates in the given encoding into a Rect.
//
// Anything other than FormatMidpoint is read as corners.
//
// @example
// r := ToCorners([4]float64{0.5, 0.5, 0.2, 0.4}, FormatMidpoint)
// // r == Rect{X1: 0.4, Y1: 0.3, X2: 0.6, Y2: 0.7}
func ToCorners(coords [4]float64, format BoxFormat) Rect {
	if format == FormatMidpoint {
		cx, cy, w, h := coords[0], coords[1], coords[2], coords[3]
		return Rect{
			X1: cx - w/2,
			Y1: cy - h/2,
			X2: cx + w/2,
			Y2: cy + h/2,
		}
	}
	return Rect{X1: coords[0], Y1: coords[1], X2: coords[2], Y2: coords[3]}
}

// Width of r, never negative.
func (r Rect) Width() float64 {
	return max(0, r.X2-r.X1)
}

// Height of r, never negative.
func (r Rect) Height() float64 {
	return max(0, r.Y2-r.Y1)
}

// Area returns the area of r. Inverted boxes have zero area.
func (r Rect) Area() float64 {
	return r.Width() * r.Height()
}

// Intersect returns the overlapping region of r and o. When the boxes do not
// overlap the result is inverted and its Area is zero.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
		X2: min(r.X2, o.X2),
		Y2: min(r.Y2, o.Y2),
	}
}

// IoU returns the Intersection over Union of r and o.
func (r Rect) IoU(o Rect) float64 {
	inter := r.Intersect(o).Area()
	return inter / (r.Area() + o.Area() - inter + Epsilon)
}

// CalculateIoU measures how much two boxes overlap, as a number in [0, 1].
//
// See also:
//   - http://ronny.rest/tutorials/module/localization_001/iou
//
// Both boxes are first converted to corner encoding. The intersection is the
// rectangle bounded by the larger of the two top-left corners and the smaller of
// the two bottom-right corners. For boxes that do not overlap that rectangle is
// inverted, so its width and height are clamped to zero before taking the area.
// The same clamp applies to each box's own area, which keeps malformed boxes
// (x2 < x1) from producing negative areas.
//
// The union follows inclusion-exclusion:
//
//	Area(Union) = Area(A) + Area(B) - Area(Intersection)
//
// and Epsilon is added to it so two zero-area boxes yield 0 instead of NaN.
// Because of Epsilon, a box compared with itself yields a value just below 1.
//
// Arguments:
//   - a: The first box, four coordinates in `format`.
//   - b: The second box, four coordinates in `format`.
//   - format: The encoding of both boxes.
//
// Returns:
//   - float64: The IoU score in [0, 1].
//
// Example Usage:
// ```go
//
//	a := [4]float64{0, 0, 10, 10}
//	b := [4]float64{5, 5, 15, 15}
//	iou := CalculateIoU(a, b, FormatCorners) // 25 / (100 + 100 - 25) ≈ 0.142857
//
// ```
func CalculateIoU(a, b [4]float64, format BoxFormat) float64 {
	return ToCorners(a, format).IoU(ToCorners(b, format))
}
