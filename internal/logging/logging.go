package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfg = zap.Config{
		Level:       zap.NewAtomicLevelAt(zap.InfoLevel),
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stdout"},
	}

	registry = &levelRegistry{
		defaultLevel: zap.InfoLevel,
		levels:       make(map[string]zap.AtomicLevel),
	}
)

// levelRegistry tracks one AtomicLevel per named logger so verbosity can be
// flipped at runtime for all of them at once.
type levelRegistry struct {
	mu           sync.Mutex
	defaultLevel zapcore.Level
	levels       map[string]zap.AtomicLevel
}

func (r *levelRegistry) level(name string) zap.AtomicLevel {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.levels[name]; ok {
		return l
	}
	l := zap.NewAtomicLevelAt(r.defaultLevel)
	r.levels[name] = l
	return l
}

func (r *levelRegistry) setAll(level zapcore.Level) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defaultLevel = level
	for _, l := range r.levels {
		l.SetLevel(level)
	}
}

// SetLevel changes the level of every logger created so far and of any
// logger created afterwards.
func SetLevel(level zapcore.Level) {
	registry.setAll(level)
}

// New builds a named SugaredLogger wired into the shared level registry.
func New(name string) *zap.SugaredLogger {
	c := cfg
	c.Level = registry.level(name)
	return zap.Must(c.Build(zap.AddStacktrace(zapcore.PanicLevel))).Named(name).Sugar()
}
