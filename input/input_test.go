package input

import (
	"testing"

	agbhost "github.com/aheraud/agb-host"
)

func TestMap(t *testing.T) {
	tests := []struct {
		key  string
		want agbhost.Button
	}{
		{"ArrowUp", agbhost.ButtonUp},
		{"ArrowDown", agbhost.ButtonDown},
		{"ArrowLeft", agbhost.ButtonLeft},
		{"ArrowRight", agbhost.ButtonRight},
		{"x", agbhost.ButtonA},
		{"z", agbhost.ButtonB},
		{"c", agbhost.ButtonSelect},
		{"v", agbhost.ButtonStart},
	}

	for _, tt := range tests {
		got, ok := Map(tt.key)
		if !ok {
			t.Errorf("Map(%q) not found", tt.key)
			continue
		}
		if got != tt.want {
			t.Errorf("Map(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestMap_Unmapped(t *testing.T) {
	for _, key := range []string{"q", "Escape", "", "X", "ArrowUpLeft"} {
		if code, ok := Map(key); ok {
			t.Errorf("Map(%q) = %v, want unmapped", key, code)
		}
	}
}

func TestButtonCodes_StableABI(t *testing.T) {
	// codes 0..7 are a wire contract with the core module
	want := map[agbhost.Button]uint32{
		agbhost.ButtonUp:     0,
		agbhost.ButtonDown:   1,
		agbhost.ButtonLeft:   2,
		agbhost.ButtonRight:  3,
		agbhost.ButtonB:      4,
		agbhost.ButtonA:      5,
		agbhost.ButtonSelect: 6,
		agbhost.ButtonStart:  7,
	}
	for b, code := range want {
		if uint32(b) != code {
			t.Errorf("%v = %d, want %d", b, uint32(b), code)
		}
	}
}
