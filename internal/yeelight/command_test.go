package yeelight

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestPackRGB(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    int
	}{
		{0, 0, 0, 0},
		{255, 255, 255, 16777215},
		{255, 0, 0, 16711680},
		{0, 255, 0, 65280},
		{0, 0, 255, 255},
		{18, 52, 86, 0x123456},
	}
	for _, tt := range tests {
		if got := PackRGB(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("PackRGB(%d, %d, %d) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestPackRGBMemoization(t *testing.T) {
	e := NewEncoder("", 0)

	first := e.packRGB(10, 20, 30)
	second := e.packRGB(10, 20, 30)
	if first != second {
		t.Errorf("repeated packRGB returned %d then %d", first, second)
	}
	if first != PackRGB(10, 20, 30) {
		t.Errorf("cached value %d differs from PackRGB %d", first, PackRGB(10, 20, 30))
	}
	if len(e.packed) != 1 {
		t.Errorf("expected 1 cache entry, got %d", len(e.packed))
	}
}

func TestCommandIDsStrictlyIncreasing(t *testing.T) {
	e := NewEncoder("", 0)
	for i := 0; i < 100; i++ {
		var cmd Command
		if i%2 == 0 {
			cmd = e.SetColor(1, 2, 3, 0)
		} else {
			cmd = e.SetBrightness(50, 0)
		}
		if cmd.ID != int64(i) {
			t.Fatalf("command %d got id %d", i, cmd.ID)
		}
	}
}

func TestSetColorCommand(t *testing.T) {
	e := NewEncoder("", 0)
	cmd := e.SetColor(255, 0, 0, 0)

	if cmd.Method != MethodBgSetRGB {
		t.Errorf("expected method %q, got %q", MethodBgSetRGB, cmd.Method)
	}
	if len(cmd.Params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(cmd.Params))
	}
	if cmd.Params[0] != 16711680 {
		t.Errorf("expected packed color 16711680, got %v", cmd.Params[0])
	}
	if cmd.Params[1] != "smooth" {
		t.Errorf("expected effect smooth, got %v", cmd.Params[1])
	}
	if cmd.Params[2] != 500 {
		t.Errorf("expected duration 500, got %v", cmd.Params[2])
	}
}

func TestSetBrightnessClamps(t *testing.T) {
	e := NewEncoder("", 0)

	tests := []struct {
		percent int
		want    int
	}{
		{80, 80},
		{0, 0},
		{100, 100},
		{150, 100},
		{-5, 0},
	}
	for _, tt := range tests {
		cmd := e.SetBrightness(tt.percent, 0)
		if cmd.Method != MethodBgSetBright {
			t.Errorf("expected method %q, got %q", MethodBgSetBright, cmd.Method)
		}
		if cmd.Params[0] != tt.want {
			t.Errorf("SetBrightness(%d) sent %v, want %d", tt.percent, cmd.Params[0], tt.want)
		}
	}
}

func TestCommandBytesRoundTrip(t *testing.T) {
	e := NewEncoder("sudden", 300*time.Millisecond)
	cmd := e.SetColor(1, 2, 3, 0)

	payload, err := cmd.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(payload, []byte("\r\n")) {
		t.Errorf("payload %q does not end with CRLF", payload)
	}

	var decoded struct {
		ID     int64  `json:"id"`
		Method string `json:"method"`
		Params []any  `json:"params"`
	}
	if err := json.Unmarshal(bytes.TrimSuffix(payload, []byte("\r\n")), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.ID != cmd.ID {
		t.Errorf("expected id %d, got %d", cmd.ID, decoded.ID)
	}
	if decoded.Method != MethodBgSetRGB {
		t.Errorf("expected method %q, got %q", MethodBgSetRGB, decoded.Method)
	}
	// JSON numbers decode as float64.
	if decoded.Params[0] != float64(PackRGB(1, 2, 3)) {
		t.Errorf("expected packed color %d, got %v", PackRGB(1, 2, 3), decoded.Params[0])
	}
	if decoded.Params[1] != "sudden" {
		t.Errorf("expected effect sudden, got %v", decoded.Params[1])
	}
	if decoded.Params[2] != float64(300) {
		t.Errorf("expected duration 300, got %v", decoded.Params[2])
	}
}
