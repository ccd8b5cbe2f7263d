// Package face finds the first face in a frame and classifies its
// expression.
package face

import (
	"image"
	"math"

	"saathi/internal/expression"
)

var (
	ServiceParams    = expression.Sensitivity{ScaleFactor: 1.1, MinNeighbors: 5, MinSize: 50}
	StandaloneParams = expression.Sensitivity{ScaleFactor: 1.1, MinNeighbors: 5, MinSize: 30}
)

// Detection is the outcome of analysing one frame. Result is meaningful
// only when Detected is true.
type Detection struct {
	Detected   bool
	Result     expression.Result
	Confidence float64
	Box        image.Rectangle
	Count      int
}

// NoFace is reported for frames without a face or frames that could not be
// decoded.
func NoFace() Detection {
	return Detection{
		Result: expression.Result{Label: expression.Neutral, Color: expression.Neutral.Color()},
	}
}

type Analyzer struct {
	detector   expression.Detector
	classifier *expression.Classifier
	params     expression.Sensitivity
}

func NewAnalyzer(d expression.Detector, params expression.Sensitivity) *Analyzer {
	return &Analyzer{
		detector:   d,
		classifier: expression.NewClassifier(d),
		params:     params,
	}
}

// Analyze classifies the first detected face of frame.
func (a *Analyzer) Analyze(frame *image.Gray) Detection {
	if frame == nil || frame.Rect.Empty() {
		return NoFace()
	}

	faces := a.detector.Detect(frame, expression.Face, a.params)
	if len(faces) == 0 {
		return NoFace()
	}

	box := faces[0].Intersect(frame.Rect)
	region, ok := Crop(frame, box)
	if !ok {
		return NoFace()
	}

	res, err := a.classifier.Classify(region)
	if err != nil {
		return NoFace()
	}

	return Detection{
		Detected:   true,
		Result:     res,
		Confidence: Confidence(box, frame.Rect),
		Box:        box,
		Count:      len(faces),
	}
}

// Confidence is the face's share of the frame scaled by five and capped
// at one.
func Confidence(face, frame image.Rectangle) float64 {
	fa := float64(face.Dx() * face.Dy())
	ta := float64(frame.Dx() * frame.Dy())
	if ta <= 0 || fa <= 0 {
		return 0
	}
	return math.Min(fa/ta*5, 1)
}

// Crop returns the part of frame inside r, sharing pixels with frame.
func Crop(frame *image.Gray, r image.Rectangle) (*image.Gray, bool) {
	r = r.Intersect(frame.Rect)
	if r.Empty() {
		return nil, false
	}
	return frame.SubImage(r).(*image.Gray), true
}

// Round2 rounds to two decimals for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
