package metrics

import (
	"sort"
	"sync"

	"github.com/nvr-ai/go-eval/common"
	"github.com/nvr-ai/go-eval/images"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// ClassReport is the outcome of evaluating a single class.
type ClassReport struct {
	Class          int     `json:"class"`
	AP             float64 `json:"ap"`
	GroundTruths   int     `json:"ground_truths"`
	Detections     int     `json:"detections"`
	TruePositives  int     `json:"true_positives"`
	FalsePositives int     `json:"false_positives"`
	Curve          Curve   `json:"curve"`
}

// Report is the outcome of a full evaluation.
type Report struct {
	// MAP is the mean of every class AP, empty classes included.
	MAP     float64       `json:"map"`
	Classes []ClassReport `json:"classes"`
}

// MeanAveragePrecision computes the mAP of dets against gts.
//
// Arguments:
//   - dets: Predicted boxes. Read only.
//   - gts: Annotated boxes. Read only.
//   - cfg: Matching threshold, box format and class count.
//
// Returns:
//   - float64: The mean of the per-class AP over cfg.NumClasses, in [0, 1].
//   - error: ErrNoClasses if cfg.NumClasses is not positive, or an unknown box format.
//
// @example
// cfg := metrics.DefaultConfig()
// cfg.NumClasses = 1
// cfg.BoxFormat = images.FormatMidpoint
// score, err := metrics.MeanAveragePrecision(dets, gts, cfg)
func MeanAveragePrecision(dets []common.Detection, gts []common.GroundTruth, cfg Config) (float64, error) {
	report, err := Evaluate(dets, gts, cfg)
	if err != nil {
		return 0, err
	}
	return report.MAP, nil
}

// Evaluate computes the AP of every class in [0, cfg.NumClasses) and their mean.
// Detections and ground truths whose class falls outside that range are ignored.
func Evaluate(dets []common.Detection, gts []common.GroundTruth, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	detsByClass := make(map[int][]common.Detection)
	for _, d := range dets {
		detsByClass[d.Class] = append(detsByClass[d.Class], d)
	}
	gtsByClass := make(map[int][]common.GroundTruth)
	for _, gt := range gts {
		gtsByClass[gt.Class] = append(gtsByClass[gt.Class], gt)
	}

	classes := make([]ClassReport, cfg.NumClasses)
	evaluate := func(c int) {
		classes[c] = evaluateClass(c, detsByClass[c], gtsByClass[c], cfg)
	}

	if cfg.NumWorkers > 1 && cfg.NumClasses > 1 {
		jobs := make(chan int, cfg.NumClasses)
		var wg sync.WaitGroup
		for w := 0; w < min(cfg.NumWorkers, cfg.NumClasses); w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for c := range jobs {
					evaluate(c)
				}
			}()
		}
		for c := 0; c < cfg.NumClasses; c++ {
			jobs <- c
		}
		close(jobs)
		wg.Wait()
	} else {
		for c := 0; c < cfg.NumClasses; c++ {
			evaluate(c)
		}
	}

	aps := make([]float64, len(classes))
	for i, cr := range classes {
		aps[i] = cr.AP
	}
	report := &Report{
		MAP:     floats.Sum(aps) / float64(cfg.NumClasses),
		Classes: classes,
	}

	cfg.Logger.WithFields(logrus.Fields{
		"map":         report.MAP,
		"classes":     cfg.NumClasses,
		"detections":  len(dets),
		"annotations": len(gts),
	}).Debug("mean average precision computed")

	return report, nil
}

// EvaluateClass computes the AP of a single class. dets and gts may hold other
// classes; they are filtered out. cfg is not validated.
func EvaluateClass(class int, dets []common.Detection, gts []common.GroundTruth, cfg Config) ClassReport {
	var classDets []common.Detection
	for _, d := range dets {
		if d.Class == class {
			classDets = append(classDets, d)
		}
	}
	var classGTs []common.GroundTruth
	for _, gt := range gts {
		if gt.Class == class {
			classGTs = append(classGTs, gt)
		}
	}
	return evaluateClass(class, classDets, classGTs, cfg.withDefaults())
}

// evaluateClass greedily matches detections of one class, most confident first,
// against the unclaimed ground truths of the same image. dets and gts are not
// modified.
func evaluateClass(class int, dets []common.Detection, gts []common.GroundTruth, cfg Config) ClassReport {
	table := NewMatchTable(gts)
	byImage := groupByImage(gts)

	// Equal confidences keep their input order.
	sorted := make([]common.Detection, len(dets))
	copy(sorted, dets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	tp := make([]float64, len(sorted))
	fp := make([]float64, len(sorted))
	report := ClassReport{
		Class:        class,
		GroundTruths: len(gts),
		Detections:   len(sorted),
	}

	for i, det := range sorted {
		bestIoU := 0.0
		bestIdx := -1
		for j, gt := range byImage[det.ImageID] {
			iou := images.CalculateIoU(det.Coords, gt.Coords, cfg.BoxFormat)
			if iou > bestIoU {
				bestIoU = iou
				bestIdx = j
			}
		}

		if bestIoU > cfg.IoUThreshold && table.Claim(det.ImageID, bestIdx) {
			tp[i] = 1
			report.TruePositives++
		} else {
			fp[i] = 1
			report.FalsePositives++
		}
	}

	report.Curve = NewCurve(tp, fp, len(gts))
	report.AP = report.Curve.Area()

	cfg.Logger.WithFields(logrus.Fields{
		"class":         class,
		"ap":            report.AP,
		"tp":            report.TruePositives,
		"fp":            report.FalsePositives,
		"ground_truths": report.GroundTruths,
	}).Debug("class evaluated")

	return report
}
