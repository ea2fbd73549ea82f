package lights

import (
	"context"
	"time"
)

type Color struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// LightService is implemented by each fixture backend. SetBrightness and
// SetColorWithDuration report transport failures to the caller; the caller
// decides whether a failure is fatal (startup) or logged and skipped (a
// running cycle).
type LightService interface {
	Start(ctx context.Context)
	LightCount() int
	SetBrightness(ctx context.Context, percent int) error
	SetColorWithDuration(ctx context.Context, color Color, duration time.Duration) error
}
