// Package vision wraps the OpenCV pieces the assistant needs: Haar
// cascades, image decoding and camera capture.
package vision

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"

	"saathi/internal/expression"
)

var cascadeFiles = map[expression.Feature]string{
	expression.Face:  "haarcascade_frontalface_default.xml",
	expression.Eye:   "haarcascade_eye.xml",
	expression.Smile: "haarcascade_smile.xml",
}

// Cascades holds one classifier per feature. OpenCV classifiers are not
// safe for concurrent use, so every detection takes the lock.
type Cascades struct {
	mu  sync.Mutex
	cls map[expression.Feature]*gocv.CascadeClassifier
}

// LoadCascades reads the three cascade files from dir.
func LoadCascades(dir string) (*Cascades, error) {
	c := &Cascades{cls: make(map[expression.Feature]*gocv.CascadeClassifier, len(cascadeFiles))}

	for feature, name := range cascadeFiles {
		cl := gocv.NewCascadeClassifier()
		path := filepath.Join(dir, name)
		if !cl.Load(path) {
			cl.Close()
			c.Close()
			return nil, fmt.Errorf("load %s cascade %q", feature, path)
		}
		c.cls[feature] = &cl
	}

	return c, nil
}

// Detect implements expression.Detector.
func (c *Cascades) Detect(img *image.Gray, feature expression.Feature, s expression.Sensitivity) []image.Rectangle {
	if img == nil || img.Rect.Empty() {
		return nil
	}

	mat, err := gocv.ImageGrayToMatGray(compact(img))
	if err != nil {
		return nil
	}
	defer mat.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	cl, ok := c.cls[feature]
	if !ok {
		return nil
	}

	minSize := image.Pt(s.MinSize, s.MinSize)
	return cl.DetectMultiScaleWithParams(mat, s.ScaleFactor, s.MinNeighbors, 0, minSize, image.Point{})
}

func (c *Cascades) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for f, cl := range c.cls {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(c.cls, f)
	}
	return errors.Join(errs...)
}

// compact returns img with a zero origin and Stride == width, which is the
// layout gocv expects when copying pixels into a Mat.
func compact(img *image.Gray) *image.Gray {
	b := img.Bounds()
	if b.Min == (image.Point{}) && img.Stride == b.Dx() {
		return img
	}

	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], img.Pix[src:src+b.Dx()])
	}
	return out
}
