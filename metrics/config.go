// Package metrics - Mean Average Precision for object detection.
package metrics

import (
	"github.com/nvr-ai/go-eval/images"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNoClasses is returned when the evaluation is asked to average over zero classes.
var ErrNoClasses = errors.New("number of classes must be positive")

// Config controls how detections are matched and averaged.
type Config struct {
	// IoUThreshold is the overlap a detection must strictly exceed to match a ground truth.
	IoUThreshold float64 `json:"iou_threshold" yaml:"iou_threshold"`
	// BoxFormat is the encoding of every box, predicted and annotated. Empty means corners.
	BoxFormat images.BoxFormat `json:"box_format" yaml:"box_format"`
	// NumClasses is the number of class indices evaluated, [0, NumClasses).
	NumClasses int `json:"num_classes" yaml:"num_classes"`
	// NumWorkers is the number of goroutines evaluating classes. Values below 2 run serially.
	NumWorkers int `json:"num_workers" yaml:"num_workers"`
	// Logger receives per-class results at debug level. Nil uses the logrus standard logger.
	Logger logrus.FieldLogger `json:"-" yaml:"-"`
}

// DefaultConfig returns the conventional evaluation settings:
// IoU > 0.5, corner-encoded boxes, 20 classes (the PASCAL VOC label count).
func DefaultConfig() Config {
	return Config{
		IoUThreshold: 0.5,
		BoxFormat:    images.FormatCorners,
		NumClasses:   20,
		NumWorkers:   1,
		Logger:       logrus.StandardLogger(),
	}
}

// Validate checks the settings that would otherwise produce a meaningless metric.
// The IoU threshold is not range checked.
func (c Config) Validate() error {
	if c.NumClasses <= 0 {
		return errors.Wrapf(ErrNoClasses, "got %d", c.NumClasses)
	}
	if c.BoxFormat == "" {
		return nil
	}
	return c.BoxFormat.Validate()
}

func (c Config) withDefaults() Config {
	if c.BoxFormat == "" {
		c.BoxFormat = images.FormatCorners
	}
	if c.NumWorkers < 1 {
		c.NumWorkers = 1
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}
