package expression

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeDetector returns a fixed number of rectangles per detector pass.
type fakeDetector struct {
	counts map[Sensitivity]int
	calls  []Feature
}

func (f *fakeDetector) Detect(_ *image.Gray, feature Feature, s Sensitivity) []image.Rectangle {
	f.calls = append(f.calls, feature)
	return make([]image.Rectangle, f.counts[s])
}

func uniform(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// split fills the top half with top and the rest with bottom.
func split(w, h int, top, bottom uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		v := bottom
		if y < h/2 {
			v = top
		}
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestClassifyRejectsEmptyRegion(t *testing.T) {
	c := NewClassifier(&fakeDetector{})

	_, err := c.Classify(image.NewGray(image.Rect(0, 0, 0, 10)))
	require.ErrorIs(t, err, ErrEmptyRegion)

	_, err = c.Classify(nil)
	require.ErrorIs(t, err, ErrEmptyRegion)
}

func TestMeasureRunsFiveDetectorPasses(t *testing.T) {
	det := &fakeDetector{counts: map[Sensitivity]int{EyeStrict: 2, EyeLoose: 3, SmileLow: 1}}
	c := NewClassifier(det)

	f, err := c.Measure(uniform(40, 40, 120))
	require.NoError(t, err)
	require.Equal(t, []Feature{Eye, Eye, Smile, Smile, Smile}, det.calls)
	require.Equal(t, 2, f.Eyes)
	require.Equal(t, 3, f.EyesLoose)
	require.Equal(t, 0, f.SmileHigh)
	require.Equal(t, 1, f.SmileLow)
}

func TestMeasurePhotometrics(t *testing.T) {
	c := NewClassifier(&fakeDetector{})

	f, err := c.Measure(split(10, 100, 60, 140))
	require.NoError(t, err)
	require.InDelta(t, 100, f.Brightness, 1e-9)
	require.InDelta(t, 60, f.Upper, 1e-9)
	require.InDelta(t, 140, f.Lower, 1e-9)
	// rows 30..69: 20 rows of 60 and 20 rows of 140
	require.InDelta(t, 100, f.Middle, 1e-9)
	// bottom third is uniform
	require.InDelta(t, 0, f.LowerContrast, 1e-9)
}

func TestMeasureHonoursSubImageOrigin(t *testing.T) {
	frame := uniform(100, 100, 10)
	for y := 20; y < 60; y++ {
		for x := 30; x < 70; x++ {
			frame.SetGray(x, y, color.Gray{Y: 200})
		}
	}
	region := frame.SubImage(image.Rect(30, 20, 70, 60)).(*image.Gray)

	f, err := NewClassifier(&fakeDetector{}).Measure(region)
	require.NoError(t, err)
	require.InDelta(t, 200, f.Brightness, 1e-9)
	require.InDelta(t, 200, f.Upper, 1e-9)
}

func TestLowerContrastIsPopulationStdDev(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 3))
	// rows [1,3) form the bottom third for h=3 (int(3*0.66) == 1)
	img.Pix = []uint8{0, 0, 10, 30, 10, 30}

	f, err := NewClassifier(&fakeDetector{}).Measure(img)
	require.NoError(t, err)
	require.InDelta(t, 10, f.LowerContrast, 1e-9)
}

func TestDecide(t *testing.T) {
	neutralEyes := Features{Eyes: 2, Brightness: 120, Upper: 120, Lower: 120, Middle: 120, LowerContrast: 50}

	tests := []struct {
		name string
		in   Features
		want Label
	}{
		{"strong smile", Features{SmileHigh: 1}, Happy},
		{"medium smile", Features{SmileMedium: 2, Eyes: 0}, Happy},
		{"weak smile with eye", Features{SmileLow: 1, Eyes: 1}, Content},
		{"weak smile without eyes", Features{SmileLow: 1}, Surprised},
		{"loose eyes only", Features{Eyes: 1, EyesLoose: 1}, Sleepy},
		{"no eyes", Features{Brightness: 10}, Surprised},
		{"single strict eye", Features{Eyes: 1}, Neutral},
		{"dark brow", withEyes(func(f *Features) { f.Upper = 80; f.Lower = 100 }), Thinking},
		{"very dark", withEyes(func(f *Features) { f.Brightness = 70 }), Serious},
		{"bright middle", withEyes(func(f *Features) { f.Middle = 140 }), Serious},
		{"flat mid brightness", withEyes(func(f *Features) { f.Brightness = 90; f.LowerContrast = 20 }), Sad},
		{"dim without smile", withEyes(func(f *Features) { f.Brightness = 82 }), Sad},
		{"dim with weak smile", Features{Eyes: 2, SmileLow: 1, Brightness: 82, Upper: 82, Lower: 82, Middle: 82, LowerContrast: 50}, Content},
		{"calm", neutralEyes, Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.in)
			require.Equal(t, tt.want, got.Label)
			require.Equal(t, tt.want.Color(), got.Color)
		})
	}
}

func withEyes(mut func(*Features)) Features {
	f := Features{Eyes: 2, Brightness: 120, Upper: 120, Lower: 120, Middle: 120, LowerContrast: 50}
	mut(&f)
	return f
}

func TestDecideSmileDominates(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		f := randomFeatures(r)
		f.SmileHigh = 1 + r.IntN(3)
		require.Equal(t, Happy, Decide(f).Label)
	}
}

func TestDecideNoEyesIsSurprisedWithoutSmile(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 500; i++ {
		f := randomFeatures(r)
		f.Eyes, f.EyesLoose = 0, 0
		f.SmileHigh, f.SmileMedium = 0, 0
		require.Equal(t, Surprised, Decide(f).Label)
	}
}

func TestDecideThinkingBeforeSerious(t *testing.T) {
	f := Features{Eyes: 2, Brightness: 50, Upper: 40, Lower: 60, Middle: 90}
	require.Equal(t, Thinking, Decide(f).Label)
}

func TestDecideAlwaysReturnsKnownLabel(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 2000; i++ {
		got := Decide(randomFeatures(r))
		require.True(t, got.Label.Valid(), "label %q", got.Label)
	}
}

func randomFeatures(r *rand.Rand) Features {
	return Features{
		Eyes:          r.IntN(4),
		EyesLoose:     r.IntN(4),
		SmileHigh:     r.IntN(2),
		SmileMedium:   r.IntN(2),
		SmileLow:      r.IntN(2),
		Brightness:    r.Float64() * 255,
		Upper:         r.Float64() * 255,
		Lower:         r.Float64() * 255,
		Middle:        r.Float64() * 255,
		LowerContrast: r.Float64() * 128,
	}
}
