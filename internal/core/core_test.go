package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddress(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"127.0.0.1", 90, "127.0.0.1:90"},
		{"::1", 8080, "[::1]:8080"},
	}
	for _, tt := range tests {
		if got := Address(tt.host, tt.port); got != tt.want {
			t.Errorf("Address(%q, %d) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestFileExists(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "config.yaml")

	got, err := FileExists(filePath)
	if err != nil {
		t.Fatalf("FileExists: %v", err)
	}
	if got {
		t.Error("FileExists = true for a missing file, want false")
	}

	if err := os.WriteFile(filePath, []byte("{}"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err = FileExists(filePath)
	if err != nil {
		t.Fatalf("FileExists: %v", err)
	}
	if !got {
		t.Error("FileExists = false for an existing file, want true")
	}
}
