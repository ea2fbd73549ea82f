package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/caarlos0/env"
	"github.com/ghettoDdOS/yeelight-screen-bar-pro-ambilight/ambilight"
	"github.com/ghettoDdOS/yeelight-screen-bar-pro-ambilight/internal/lights/lifx"
	"github.com/ghettoDdOS/yeelight-screen-bar-pro-ambilight/internal/logging"
	"github.com/ghettoDdOS/yeelight-screen-bar-pro-ambilight/internal/screen"
	"github.com/ghettoDdOS/yeelight-screen-bar-pro-ambilight/internal/yeelight"
	"github.com/ghettoDdOS/yeelight-screen-bar-pro-ambilight/lights"
)

var (
	logger = logging.New("main")
	config = AmbilightConfig{}
)

type AmbilightConfig struct {
	FixturePort        int           `env:"FIXTURE_PORT" envDefault:"55443"`
	RefreshInterval    time.Duration `env:"REFRESH_INTERVAL" envDefault:"1s"`
	InitialBrightness  int           `env:"INITIAL_BRIGHTNESS" envDefault:"100"`
	Effect             string        `env:"EFFECT" envDefault:"smooth"`
	TransitionDuration time.Duration `env:"TRANSITION_DURATION" envDefault:"500ms"`
	DialTimeout        time.Duration `env:"DIAL_TIMEOUT" envDefault:"2s"`
	WriteTimeout       time.Duration `env:"WRITE_TIMEOUT" envDefault:"2s"`
	ScreenNumber       int           `env:"SCREEN_NUMBER" envDefault:"0"`
	PixelGridSize      int           `env:"PIXEL_GRID_SIZE" envDefault:"1"`
	LightType          string        `env:"LIGHT_TYPE" envDefault:"YEELIGHT"`
	LightGroupName     string        `env:"LIGHT_GROUP_NAME" envDefault:"AMBILIGHT"`
	MaxBrightness      float64       `env:"MAX_BRIGHTNESS" envDefault:"1"`
	MinBrightness      float64       `env:"MIN_BRIGHTNESS" envDefault:"0"`
}

func main() {
	defer logger.Sync()

	debug := flag.Bool("d", false, "enable debug logging")
	flag.Parse()
	if *debug {
		logging.SetLevel(zapcore.DebugLevel)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ambilight [-d] <fixture-address>")
		os.Exit(2)
	}
	fixtureHost := flag.Arg(0)

	if err := env.Parse(&config); err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to parse environment variables")
	}

	logger.With(zap.String("fixture", fixtureHost), zap.Any("config", config)).
		Info("Starting screen bar ambilight")
	logger.Info("Adjust REFRESH_INTERVAL to change how often the screen is sampled.")
	logger.Info("Adjust PIXEL_GRID_SIZE to trade accuracy for speed. 1 reads every pixel of the sampled band.")
	logger.Info("Adjust SCREEN_NUMBER to target a different screen. 0 is the primary screen.")
	logger.Info("LIGHT_TYPE supports YEELIGHT and LIFX.")
	logger.Info("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var lightService lights.LightService
	switch config.LightType {
	case "YEELIGHT":
		lightService = yeelight.NewService(yeelight.Config{
			Host:         fixtureHost,
			Port:         config.FixturePort,
			Effect:       config.Effect,
			Transition:   config.TransitionDuration,
			DialTimeout:  config.DialTimeout,
			WriteTimeout: config.WriteTimeout,
		})
	case "LIFX":
		var err error
		lightService, err = lifx.New(lifx.Config{
			GroupName:     config.LightGroupName,
			MinBrightness: config.MinBrightness,
			MaxBrightness: config.MaxBrightness,
		})
		if err != nil {
			logger.With(zap.Error(err)).Fatal("Failed to create LIFX light service")
		}
	default:
		logger.Fatalf("unknown light type: %v", config.LightType)
	}
	go lightService.Start(ctx)

	sampler := screen.NewSampler(config.ScreenNumber, config.PixelGridSize)

	loop, err := ambilight.New(ctx, ambilight.Config{
		RefreshInterval:   config.RefreshInterval,
		InitialBrightness: config.InitialBrightness,
		Transition:        config.TransitionDuration,
	}, sampler, lightService)
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to initialize fixture")
	}

	loop.Start(ctx)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	logger.Info("Shutting down")
	loop.Stop()
	<-loop.Done()
	logger.Info("Goodbye")
}
