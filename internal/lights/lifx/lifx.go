package lifx

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/pdf/golifx"
	"github.com/pdf/golifx/common"
	"github.com/pdf/golifx/protocol"
	"go.uber.org/zap"

	"github.com/ghettoDdOS/yeelight-screen-bar-pro-ambilight/internal/logging"
	"github.com/ghettoDdOS/yeelight-screen-bar-pro-ambilight/lights"
)

var logger = logging.New("lifx")

// ErrNoGroup reports a color push before discovery has found the group.
var ErrNoGroup = errors.New("lifx: group not discovered yet")

type Config struct {
	GroupName     string
	MaxBrightness float64
	MinBrightness float64
}

// Lights drives a LIFX group as an alternate fixture backend. Discovery is
// asynchronous: Start keeps re-resolving the group every 15 seconds.
type Lights struct {
	config Config
	client *golifx.Client

	mu         sync.RWMutex
	group      common.Group
	brightness float64 // 0-1 ceiling recorded by SetBrightness
}

var _ lights.LightService = (*Lights)(nil)

func New(config Config) (*Lights, error) {
	client, err := golifx.NewClient(&protocol.V2{})
	if err != nil {
		return nil, err
	}

	return &Lights{
		config:     config,
		client:     client,
		brightness: 1,
	}, nil
}

// Start runs the discovery loop until ctx is cancelled.
func (l *Lights) Start(ctx context.Context) {
	discoveryInterval := 15 * time.Second
	ticker := time.NewTicker(discoveryInterval)
	defer ticker.Stop()

	l.client.SetDiscoveryInterval(discoveryInterval)

	timeout := 5 * time.Second
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	l.discover(ctxWithTimeout)
	cancel()

	for {
		select {
		case <-ticker.C:
			ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
			l.discover(ctxWithTimeout)
			cancel()
		case <-ctx.Done():
			return
		}
	}
}

func (l *Lights) discover(ctx context.Context) {
	logger.With(zap.String("group", l.config.GroupName)).Info("LIFX discovery starting...")

	completed := make(chan struct{})

	var g common.Group
	go func() {
		defer close(completed)
		var err error
		g, err = l.client.GetGroupByLabel(l.config.GroupName)
		if err != nil {
			logger.With(zap.Error(err)).Warn("Failed to get LIFX group by label")
		}
	}()

	select {
	case <-ctx.Done():
		logger.With(zap.Error(ctx.Err())).Warn("LIFX discovery timed out.")
	case <-completed:
		if g != nil {
			logger.With(zap.String("group", g.GetLabel())).Info("LIFX group found")
			l.mu.Lock()
			l.group = g
			l.mu.Unlock()
		}
	}

	logger.Info("LIFX discovery complete")
}

func (l *Lights) LightCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.group == nil {
		return 0
	}
	return len(l.group.Lights())
}

// SetBrightness records a brightness ceiling applied to subsequent color
// pushes. No network call happens here: discovery may not have produced a
// group yet when the control loop is constructed.
func (l *Lights) SetBrightness(ctx context.Context, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	l.mu.Lock()
	l.brightness = float64(percent) / 100
	l.mu.Unlock()
	return nil
}

func (l *Lights) SetColorWithDuration(ctx context.Context, color lights.Color, duration time.Duration) error {
	l.mu.RLock()
	group := l.group
	ceiling := l.brightness
	l.mu.RUnlock()

	if group == nil {
		return ErrNoGroup
	}

	lifxColor := newLifxColor(color)
	lifxColor = adjustColor(lifxColor, l.config, ceiling)

	logger.With(zap.Any("color", color), zap.Any("lifxColor", lifxColor)).
		Debug("Setting LIFX group color")

	return group.SetColor(lifxColor, duration)
}

func newLifxColor(color lights.Color) common.Color {
	hue, saturation, brightness := rgbToHsb(color.Red, color.Green, color.Blue)

	return common.Color{
		Hue:        hue,
		Saturation: saturation,
		Brightness: brightness,
		Kelvin:     3500,
	}
}

func adjustColor(color common.Color, config Config, ceiling float64) common.Color {
	blackThreshold := 0.015 * 0xFFFF
	if color.Brightness <= uint16(blackThreshold) && color.Saturation <= uint16(blackThreshold) {
		// blackish color - turn the group off
		return common.Color{
			Hue:        0,
			Saturation: 0,
			Brightness: 0,
			Kelvin:     3500,
		}
	}

	maxBrightness := config.MaxBrightness
	if maxBrightness <= 0 || maxBrightness > 1 {
		maxBrightness = 1
	}
	maxBrightness = math.Min(maxBrightness, ceiling)

	color.Brightness = uint16(math.Min(maxBrightness*0xFFFF, math.Max(config.MinBrightness*0xFFFF, float64(color.Brightness))))

	return color
}
