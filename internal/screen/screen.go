package screen

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"github.com/ghettoDdOS/yeelight-screen-bar-pro-ambilight/lights"
)

// ErrEmptyRegion reports a capture region that produced no pixels. Reducing
// such a region would divide by zero, so it is refused up front.
var ErrEmptyRegion = errors.New("screen: captured region contains no pixels")

// Sampler produces one representative color per cycle from the top band of
// a display. Only the upper 30% of the screen is captured: a light bar sits
// above the display, and the smaller grab keeps each cycle cheap.
type Sampler struct {
	display       int
	pixelGridSize int
}

// NewSampler samples the given display (0 is primary), reading every
// pixelGridSize-th pixel in each direction. Grid sizes below 1 are raised
// to 1.
func NewSampler(display, pixelGridSize int) *Sampler {
	if pixelGridSize < 1 {
		pixelGridSize = 1
	}
	return &Sampler{
		display:       display,
		pixelGridSize: pixelGridSize,
	}
}

// Sample captures the top band of the display and reduces it to a single
// color.
func (s *Sampler) Sample(ctx context.Context) (lights.Color, error) {
	img, err := s.captureTopBand()
	if err != nil {
		return lights.Color{}, fmt.Errorf("capture display %d: %w", s.display, err)
	}
	return AverageColor(img, s.pixelGridSize)
}

func (s *Sampler) captureTopBand() (*image.RGBA, error) {
	bounds := screenshot.GetDisplayBounds(s.display)
	band := image.Rect(
		bounds.Min.X,
		bounds.Min.Y,
		bounds.Max.X,
		bounds.Min.Y+bounds.Dy()/10*3,
	)
	return screenshot.CaptureRect(band)
}
