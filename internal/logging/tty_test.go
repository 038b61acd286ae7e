package logging

import (
	"bytes"
	"testing"
)

func TestColorAllowed(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		tty  bool
		want bool
	}{
		{"terminal", map[string]string{"TERM": "xterm-256color"}, true, true},
		{"NO_COLOR set", map[string]string{"NO_COLOR": ""}, true, false},
		{"dumb terminal", map[string]string{"TERM": "dumb"}, true, false},
		{"not a terminal", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			}
			if got := colorAllowed(lookup, tt.tty); got != tt.want {
				t.Errorf("colorAllowed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTTY_Buffer(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
	if SupportsColor(&bytes.Buffer{}) {
		t.Error("a buffer should not get colors")
	}
}
