package metrics

import (
	"github.com/nvr-ai/go-eval/images"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// Curve is a precision-recall curve, starting at the anchor (recall 0, precision 1).
type Curve struct {
	Recall    []float64 `json:"recall" yaml:"recall"`
	Precision []float64 `json:"precision" yaml:"precision"`
}

// NewCurve builds the precision-recall curve of confidence-sorted detections.
//
// Arguments:
//   - tp: 1 where the i-th detection is a true positive, 0 otherwise.
//   - fp: 1 where the i-th detection is a false positive, 0 otherwise.
//   - totalGT: The number of ground truths of the class.
//
// Returns:
//   - Curve: len(tp)+1 points. Both ratios carry an Epsilon in the denominator,
//     so a class with no ground truths yields recall 0 instead of NaN.
func NewCurve(tp, fp []float64, totalGT int) Curve {
	tpCum := floats.CumSum(make([]float64, len(tp)), tp)
	fpCum := floats.CumSum(make([]float64, len(fp)), fp)

	c := Curve{
		Recall:    make([]float64, 0, len(tp)+1),
		Precision: make([]float64, 0, len(tp)+1),
	}
	c.Recall = append(c.Recall, 0)
	c.Precision = append(c.Precision, 1)

	for i := range tpCum {
		c.Recall = append(c.Recall, tpCum[i]/(float64(totalGT)+images.Epsilon))
		c.Precision = append(c.Precision, tpCum[i]/(tpCum[i]+fpCum[i]+images.Epsilon))
	}
	return c
}

// Area integrates precision over recall with the trapezoidal rule. A curve
// holding only the anchor has no area.
func (c Curve) Area() float64 {
	if len(c.Recall) < 2 {
		return 0
	}
	return integrate.Trapezoidal(c.Recall, c.Precision)
}
