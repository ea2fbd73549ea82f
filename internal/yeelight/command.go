package yeelight

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Methods understood by the background segment of a Yeelight screen bar.
const (
	MethodBgSetRGB    = "bg_set_rgb"
	MethodBgSetBright = "bg_set_bright"
)

const (
	DefaultEffect     = "smooth"
	DefaultTransition = 500 * time.Millisecond
)

// packCacheLimit bounds the packed-RGB memo; the cache is dropped wholesale
// when it fills. Caching is an optimization only.
const packCacheLimit = 1024

// Command is a single instruction to the fixture. Commands are built right
// before dispatch, serialized, and discarded; they are never replayed.
// Field order matters on the wire.
type Command struct {
	ID     int64  `json:"id"`
	Method string `json:"method"`
	Params []any  `json:"params"`
}

// Bytes serializes the command as one compact JSON object terminated with
// CRLF, which is the framing the fixture expects.
func (c Command) Bytes() ([]byte, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return append(b, '\r', '\n'), nil
}

// PackRGB folds an RGB triple into the single integer the protocol carries.
func PackRGB(r, g, b uint8) int {
	return int(r)*65536 + int(g)*256 + int(b)
}

// Encoder builds fixture commands. It owns the command id counter: ids are
// strictly increasing from 0 with no gaps for the lifetime of the encoder.
type Encoder struct {
	effect     string
	transition time.Duration

	nextID atomic.Int64

	packMu sync.Mutex
	packed map[[3]uint8]int
}

// NewEncoder returns an Encoder using the given effect and transition for
// every command it builds. Zero values select the protocol defaults
// ("smooth", 500ms).
func NewEncoder(effect string, transition time.Duration) *Encoder {
	if effect == "" {
		effect = DefaultEffect
	}
	if transition <= 0 {
		transition = DefaultTransition
	}
	return &Encoder{
		effect:     effect,
		transition: transition,
		packed:     make(map[[3]uint8]int),
	}
}

func (e *Encoder) newCommand(method string, params []any) Command {
	return Command{
		ID:     e.nextID.Add(1) - 1,
		Method: method,
		Params: params,
	}
}

// SetColor builds a bg_set_rgb command. A non-positive transition falls back
// to the encoder default.
func (e *Encoder) SetColor(r, g, b uint8, transition time.Duration) Command {
	if transition <= 0 {
		transition = e.transition
	}
	return e.newCommand(MethodBgSetRGB, []any{
		e.packRGB(r, g, b),
		e.effect,
		int(transition / time.Millisecond),
	})
}

// SetBrightness builds a bg_set_bright command with the percentage clamped
// to [0, 100].
func (e *Encoder) SetBrightness(percent int, transition time.Duration) Command {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if transition <= 0 {
		transition = e.transition
	}
	return e.newCommand(MethodBgSetBright, []any{
		percent,
		e.effect,
		int(transition / time.Millisecond),
	})
}

func (e *Encoder) packRGB(r, g, b uint8) int {
	key := [3]uint8{r, g, b}

	e.packMu.Lock()
	defer e.packMu.Unlock()

	if v, ok := e.packed[key]; ok {
		return v
	}
	if len(e.packed) >= packCacheLimit {
		e.packed = make(map[[3]uint8]int)
	}
	v := PackRGB(r, g, b)
	e.packed[key] = v
	return v
}
