package vision

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

var ErrUndecodable = errors.New("vision: cannot decode image")

// DecodeGray decodes an encoded image (JPEG, PNG, ...) straight to grayscale.
func DecodeGray(data []byte) (*image.Gray, error) {
	if len(data) == 0 {
		return nil, ErrUndecodable
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadGrayScale)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, ErrUndecodable
	}
	return matToGray(mat)
}

func matToGray(mat gocv.Mat) (*image.Gray, error) {
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("mat to image: %w", err)
	}
	g, ok := img.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("mat to image: unexpected %T", img)
	}
	return g, nil
}
