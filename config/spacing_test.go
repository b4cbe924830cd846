package config

import "testing"

func TestDefaultSpacing(t *testing.T) {
	s := DefaultSpacing()
	if s.SubgraphHeaderHeight <= 0 || s.NodeSeparationHorizontal <= 0 {
		t.Fatalf("expected positive defaults, got %+v", s)
	}
}

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != DefaultSpacing() {
		t.Errorf("expected defaults with no config file, got %+v", s)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/path/to/spacing.yaml"); err == nil {
		t.Fatal("expected error reading a nonexistent config file")
	}
}
