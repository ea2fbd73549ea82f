package ambilight

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ghettoDdOS/yeelight-screen-bar-pro-ambilight/internal/logging"
	"github.com/ghettoDdOS/yeelight-screen-bar-pro-ambilight/lights"
)

var logger = logging.New("ambilight")

const (
	DefaultRefreshInterval   = time.Second
	DefaultInitialBrightness = 100
)

// Sampler produces one representative screen color per cycle.
type Sampler interface {
	Sample(ctx context.Context) (lights.Color, error)
}

type Config struct {
	// RefreshInterval is the minimum time between consecutive dispatches.
	RefreshInterval time.Duration
	// InitialBrightness (0-100) is sent once during construction, before
	// any color cycle runs.
	InitialBrightness int
	// Transition is the fade duration passed to the backend on each color
	// push. Zero selects the backend default.
	Transition time.Duration
}

// Ambilight runs the sample→encode→dispatch cycle on one worker goroutine.
// The running flag is the only state shared with the controlling goroutine;
// the worker checks it at the top of each cycle, so Stop never interrupts
// an in-flight cycle.
type Ambilight struct {
	config  Config
	sampler Sampler
	service lights.LightService

	running atomic.Bool
	done    chan struct{}
}

// New builds the loop and immediately pushes the initial brightness to the
// fixture. A brightness failure aborts construction: a fixture that cannot
// be reached at startup makes the whole run pointless.
func New(ctx context.Context, config Config, sampler Sampler, service lights.LightService) (*Ambilight, error) {
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = DefaultRefreshInterval
	}
	if config.InitialBrightness <= 0 {
		config.InitialBrightness = DefaultInitialBrightness
	}

	if err := service.SetBrightness(ctx, config.InitialBrightness); err != nil {
		return nil, fmt.Errorf("set initial fixture brightness: %w", err)
	}

	done := make(chan struct{})
	close(done)

	return &Ambilight{
		config:  config,
		sampler: sampler,
		service: service,
		done:    done,
	}, nil
}

// Start launches the worker. Calling Start on a running loop is a no-op.
// The caller does not block; the worker also exits when ctx is cancelled.
func (a *Ambilight) Start(ctx context.Context) {
	if !a.running.CompareAndSwap(false, true) {
		return
	}
	done := make(chan struct{})
	a.done = done
	go a.process(ctx, done)
}

// Stop asks the worker to exit at the next cycle boundary. The in-flight
// cycle, including its dispatch, always completes first.
func (a *Ambilight) Stop() {
	a.running.Store(false)
}

// Done is closed once the worker has exited.
func (a *Ambilight) Done() <-chan struct{} {
	return a.done
}

func (a *Ambilight) process(ctx context.Context, done chan struct{}) {
	defer close(done)

	var lastWarning time.Time
	for a.running.Load() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if a.service.LightCount() == 0 {
			time.Sleep(a.config.RefreshInterval)
			continue
		}

		startTime := time.Now()

		color, err := a.sampler.Sample(ctx)
		sampleDuration := time.Since(startTime)
		if err != nil {
			logger.With(zap.Error(err)).Error("Failed to sample screen color")
			a.sleepRemainder(time.Since(startTime))
			continue
		}

		dispatchStart := time.Now()
		if err := a.service.SetColorWithDuration(ctx, color, a.config.Transition); err != nil {
			// One failed dispatch never terminates the worker; the next
			// cycle attempts a fresh connection.
			logger.With(zap.Error(err)).Error("Failed to set fixture color")
		}
		dispatchDuration := time.Since(dispatchStart)

		totalDuration := time.Since(startTime)
		if totalDuration > a.config.RefreshInterval {
			if time.Since(lastWarning) > 10*time.Second {
				logger.With(
					zap.Stringer("sampleDuration", sampleDuration),
					zap.Stringer("dispatchDuration", dispatchDuration),
					zap.Stringer("totalDuration", totalDuration)).
					Warn("Cannot keep up with REFRESH_INTERVAL. Consider increasing PIXEL_GRID_SIZE or REFRESH_INTERVAL.")
				lastWarning = time.Now()
			}
		} else {
			a.sleepRemainder(totalDuration)
		}
	}
}

// sleepRemainder holds the cadence: each cycle measures its own elapsed
// time, so scheduling error does not accumulate across cycles.
func (a *Ambilight) sleepRemainder(elapsed time.Duration) {
	untilNextTick := a.config.RefreshInterval - elapsed
	if untilNextTick > 0 {
		time.Sleep(untilNextTick)
	}
}
