package version

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version == "" {
		t.Error("expected a non-empty version")
	}
	if info.GoVersion == "" {
		t.Error("expected the Go version from build info")
	}
}

func TestShort(t *testing.T) {
	s := Short()
	if s == "" {
		t.Fatal("expected a non-empty short version")
	}
	if !strings.HasPrefix(s, Version) {
		t.Errorf("expected short version to start with %q, got %q", Version, s)
	}
}
