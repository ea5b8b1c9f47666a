package history

import "testing"

func TestFormatting(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{formatDuration(84), "84ms"},
		{formatDuration(2500), "2.5s"},
		{formatSize(512), "512 B"},
		{formatSize(2048), "2.0 KB"},
		{formatSize(3 * 1024 * 1024), "3.0 MB"},
		{shortID("0c5d4f1e-8b7a-4a2b-9c1d-2e3f4a5b6c7d"), "0c5d4f1e"},
		{shortID("abc"), "abc"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
