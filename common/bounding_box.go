// Package common - Detection and ground-truth records consumed by the evaluator.
package common

import (
	"fmt"
	"math"

	"github.com/nvr-ai/go-eval/images"
	"github.com/pkg/errors"
)

// ErrMalformedRow is returned when a raw input row cannot be read as a box.
var ErrMalformedRow = errors.New("malformed row")

const (
	detectionColumns   = 7
	groundTruthColumns = 6
)

// BoundingBox is a box tied to an image and a class label.
type BoundingBox struct {
	// ImageID identifies the image the box belongs to.
	ImageID int `json:"image_id" yaml:"image_id"`
	// Class is the class index of the box.
	Class int `json:"class" yaml:"class"`
	// Coords holds the four coordinates, in whichever images.BoxFormat the caller evaluates with.
	Coords [4]float64 `json:"coords" yaml:"coords"`
}

// Rect converts the box to corner encoding.
func (b BoundingBox) Rect(format images.BoxFormat) images.Rect {
	return images.ToCorners(b.Coords, format)
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("Box image=%d class=%d: (%.4f, %.4f, %.4f, %.4f)",
		b.ImageID, b.Class, b.Coords[0], b.Coords[1], b.Coords[2], b.Coords[3])
}

// Detection is a predicted box with the model's confidence.
type Detection struct {
	BoundingBox
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

func (d Detection) String() string {
	return fmt.Sprintf("Detection image=%d class=%d (confidence %f): (%.4f, %.4f, %.4f, %.4f)",
		d.ImageID, d.Class, d.Confidence, d.Coords[0], d.Coords[1], d.Coords[2], d.Coords[3])
}

// GroundTruth is an annotated box.
type GroundTruth struct {
	BoundingBox
}

// ParseDetections reads rows of (image_id, class_id, confidence, c1, c2, c3, c4).
//
// Arguments:
//   - rows: One row per detection.
//
// Returns:
//   - []Detection: The detections, in input order.
//   - error: ErrMalformedRow wrapped with the offending row index.
//
// @example
// dets, err := ParseDetections([][]float64{{0, 0, .9, .55, .2, .3, .2}})
func ParseDetections(rows [][]float64) ([]Detection, error) {
	dets := make([]Detection, 0, len(rows))
	for i, row := range rows {
		if len(row) != detectionColumns {
			return nil, errors.Wrapf(ErrMalformedRow, "detection %d: want %d columns, got %d",
				i, detectionColumns, len(row))
		}
		box, err := parseBox(row[0], row[1], row[3:])
		if err != nil {
			return nil, errors.Wrapf(err, "detection %d", i)
		}
		dets = append(dets, Detection{BoundingBox: box, Confidence: row[2]})
	}
	return dets, nil
}

// ParseGroundTruths reads rows of (image_id, class_id, c1, c2, c3, c4).
//
// Rows shaped like detections (seven columns) are also accepted; the
// confidence column is ignored.
func ParseGroundTruths(rows [][]float64) ([]GroundTruth, error) {
	gts := make([]GroundTruth, 0, len(rows))
	for i, row := range rows {
		var coords []float64
		switch len(row) {
		case groundTruthColumns:
			coords = row[2:]
		case detectionColumns:
			coords = row[3:]
		default:
			return nil, errors.Wrapf(ErrMalformedRow, "ground truth %d: want %d or %d columns, got %d",
				i, groundTruthColumns, detectionColumns, len(row))
		}
		box, err := parseBox(row[0], row[1], coords)
		if err != nil {
			return nil, errors.Wrapf(err, "ground truth %d", i)
		}
		gts = append(gts, GroundTruth{BoundingBox: box})
	}
	return gts, nil
}

func parseBox(imageID, class float64, coords []float64) (BoundingBox, error) {
	img, err := toID(imageID)
	if err != nil {
		return BoundingBox{}, errors.Wrap(err, "image id")
	}
	cls, err := toID(class)
	if err != nil {
		return BoundingBox{}, errors.Wrap(err, "class id")
	}
	box := BoundingBox{ImageID: img, Class: cls}
	copy(box.Coords[:], coords)
	return box, nil
}

func toID(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, errors.Wrapf(ErrMalformedRow, "%v is not an integer", v)
	}
	return int(v), nil
}
