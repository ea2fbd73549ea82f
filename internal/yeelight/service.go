package yeelight

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ghettoDdOS/yeelight-screen-bar-pro-ambilight/internal/logging"
	"github.com/ghettoDdOS/yeelight-screen-bar-pro-ambilight/lights"
)

var logger = logging.New("yeelight")

type Config struct {
	Host         string
	Port         int
	Effect       string
	Transition   time.Duration
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// Service drives the background segment of a single Yeelight screen bar.
type Service struct {
	encoder *Encoder
	session *Session
}

var _ lights.LightService = (*Service)(nil)

func NewService(config Config) *Service {
	return &Service{
		encoder: NewEncoder(config.Effect, config.Transition),
		session: NewSession(config.Host, config.Port, config.DialTimeout, config.WriteTimeout),
	}
}

// Start is a no-op: the fixture address is fixed, there is nothing to
// discover or keep alive.
func (s *Service) Start(ctx context.Context) {}

func (s *Service) LightCount() int {
	return 1
}

func (s *Service) SetBrightness(ctx context.Context, percent int) error {
	return s.send(ctx, s.encoder.SetBrightness(percent, 0))
}

func (s *Service) SetColorWithDuration(ctx context.Context, color lights.Color, duration time.Duration) error {
	return s.send(ctx, s.encoder.SetColor(color.Red, color.Green, color.Blue, duration))
}

func (s *Service) send(ctx context.Context, cmd Command) error {
	payload, err := cmd.Bytes()
	if err != nil {
		return err
	}
	n, err := s.session.Send(ctx, payload)
	if err != nil {
		return err
	}
	logger.With(
		zap.Int64("id", cmd.ID),
		zap.String("method", cmd.Method),
		zap.Int("bytesWritten", n)).
		Debug("Sent fixture command")
	return nil
}
