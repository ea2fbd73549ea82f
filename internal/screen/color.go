package screen

import (
	"image"
	"image/color"

	"github.com/ghettoDdOS/yeelight-screen-bar-pro-ambilight/lights"
)

// AverageColor reduces an image to the frequency-weighted integer mean of
// its distinct colors, visiting every pixelGridSize-th pixel. Channel means
// use floor division by the total pixel count. This is a plain average, not
// a perceptual reduction; it runs every cycle and needs to stay cheap.
func AverageColor(img *image.RGBA, pixelGridSize int) (lights.Color, error) {
	colorCount := make(map[color.RGBA]uint64)
	bounds := img.Bounds()

	for y := bounds.Min.Y; y < bounds.Max.Y; y += pixelGridSize {
		for x := bounds.Min.X; x < bounds.Max.X; x += pixelGridSize {
			colorCount[img.RGBAAt(x, y)]++
		}
	}

	return meanColor(colorCount)
}

func meanColor(colorCount map[color.RGBA]uint64) (lights.Color, error) {
	var sumR, sumG, sumB, totalPixels uint64
	for c, count := range colorCount {
		sumR += uint64(c.R) * count
		sumG += uint64(c.G) * count
		sumB += uint64(c.B) * count
		totalPixels += count
	}

	if totalPixels == 0 {
		return lights.Color{}, ErrEmptyRegion
	}

	return lights.Color{
		Red:   uint8(sumR / totalPixels),
		Green: uint8(sumG / totalPixels),
		Blue:  uint8(sumB / totalPixels),
	}, nil
}
