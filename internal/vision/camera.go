package vision

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

var ErrNoFrame = errors.New("vision: camera returned no frame")

// Camera reads grayscale frames from a video device.
type Camera struct {
	mu    sync.Mutex
	cap   *gocv.VideoCapture
	frame gocv.Mat
	gray  gocv.Mat
}

func OpenCamera(device int) (*Camera, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", device, err)
	}
	return &Camera{cap: vc, frame: gocv.NewMat(), gray: gocv.NewMat()}, nil
}

func (c *Camera) ReadGray() (*image.Gray, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ok := c.cap.Read(&c.frame); !ok || c.frame.Empty() {
		return nil, ErrNoFrame
	}
	gocv.CvtColor(c.frame, &c.gray, gocv.ColorBGRToGray)
	return matToGray(c.gray)
}

func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frame.Close()
	c.gray.Close()
	return c.cap.Close()
}
