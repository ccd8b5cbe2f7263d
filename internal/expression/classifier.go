// Package expression turns a grayscale face region into one of eight
// expression labels using cascade detections and simple photometrics.
package expression

import (
	"errors"
	"image"
	"math"
)

// Feature names what the region detector should look for.
type Feature int

const (
	Face Feature = iota
	Eye
	Smile
)

func (f Feature) String() string {
	switch f {
	case Face:
		return "face"
	case Eye:
		return "eye"
	case Smile:
		return "smile"
	default:
		return "unknown"
	}
}

// Sensitivity holds the detector parameters for a single pass.
type Sensitivity struct {
	ScaleFactor  float64
	MinNeighbors int
	MinSize      int // square, in pixels
}

var (
	EyeStrict   = Sensitivity{ScaleFactor: 1.1, MinNeighbors: 15, MinSize: 15}
	EyeLoose    = Sensitivity{ScaleFactor: 1.2, MinNeighbors: 8, MinSize: 10}
	SmileHigh   = Sensitivity{ScaleFactor: 1.5, MinNeighbors: 12, MinSize: 20}
	SmileMedium = Sensitivity{ScaleFactor: 1.3, MinNeighbors: 8, MinSize: 15}
	SmileLow    = Sensitivity{ScaleFactor: 1.2, MinNeighbors: 5, MinSize: 10}
)

// Detector locates feature rectangles inside a grayscale image.
type Detector interface {
	Detect(img *image.Gray, feature Feature, s Sensitivity) []image.Rectangle
}

var ErrEmptyRegion = errors.New("expression: empty face region")

// Features is the measurement bundle the decision list works on.
type Features struct {
	Eyes        int
	EyesLoose   int
	SmileHigh   int
	SmileMedium int
	SmileLow    int

	Brightness    float64
	Upper         float64
	Lower         float64
	Middle        float64
	LowerContrast float64
}

type Classifier struct {
	detector Detector
}

func NewClassifier(d Detector) *Classifier {
	return &Classifier{detector: d}
}

// Classify measures region and returns its expression. The region must have
// positive width and height.
func (c *Classifier) Classify(region *image.Gray) (Result, error) {
	f, err := c.Measure(region)
	if err != nil {
		return Result{}, err
	}
	return Decide(f), nil
}

// Measure computes the feature bundle for region.
func (c *Classifier) Measure(region *image.Gray) (Features, error) {
	if region == nil || region.Bounds().Empty() {
		return Features{}, ErrEmptyRegion
	}

	f := Features{
		Eyes:        len(c.detector.Detect(region, Eye, EyeStrict)),
		EyesLoose:   len(c.detector.Detect(region, Eye, EyeLoose)),
		SmileHigh:   len(c.detector.Detect(region, Smile, SmileHigh)),
		SmileMedium: len(c.detector.Detect(region, Smile, SmileMedium)),
		SmileLow:    len(c.detector.Detect(region, Smile, SmileLow)),
	}

	h := region.Bounds().Dy()
	at := func(frac float64) int { return int(float64(h) * frac) }

	f.Brightness, _ = band(region, 0, h)
	f.Upper, _ = band(region, 0, at(0.5))
	f.Lower, _ = band(region, at(0.5), h)
	f.Middle, _ = band(region, at(0.3), at(0.7))
	_, f.LowerContrast = band(region, at(0.66), h)

	return f, nil
}

// Decide applies the ordered rule list. The first matching rule wins.
func Decide(f Features) Result {
	switch {
	case f.SmileHigh > 0:
		return resultFor(Happy)
	case f.SmileMedium > 0:
		return resultFor(Happy)
	case f.SmileLow > 0 && f.Eyes >= 1:
		return resultFor(Content)
	case f.Eyes < 2 && f.EyesLoose >= 1:
		return resultFor(Sleepy)
	case f.Eyes == 0:
		return resultFor(Surprised)
	}

	if f.Eyes >= 2 {
		switch {
		case f.Upper < f.Lower-15:
			return resultFor(Thinking)
		case f.Brightness < 75 || f.Upper < f.Middle-12:
			return resultFor(Serious)
		case f.LowerContrast < 35 && f.Brightness >= 80 && f.Brightness <= 100:
			return resultFor(Sad)
		case f.Brightness < 85 && f.SmileLow == 0:
			return resultFor(Sad)
		}
		return resultFor(Neutral)
	}

	// eyes == 1 with no loose detections
	return resultFor(Neutral)
}

// band returns mean and population standard deviation of rows [y0, y1)
// relative to the region origin. An empty band yields zeros.
func band(img *image.Gray, y0, y1 int) (mean, std float64) {
	b := img.Bounds()
	w := b.Dx()
	if y1 <= y0 || w == 0 {
		return 0, 0
	}

	var sum, sq float64
	for y := b.Min.Y + y0; y < b.Min.Y+y1; y++ {
		off := img.PixOffset(b.Min.X, y)
		for _, p := range img.Pix[off : off+w] {
			v := float64(p)
			sum += v
			sq += v * v
		}
	}

	n := float64(w * (y1 - y0))
	mean = sum / n
	variance := sq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}
