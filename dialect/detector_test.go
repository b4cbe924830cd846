package dialect

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   Dialect
	}{
		{"flowchart keyword", "flowchart TD\nA --> B", Flowchart},
		{"graph keyword", "graph LR\nA --> B", Flowchart},
		{"c4context lowercase", "c4context\ntitle x", C4Context},
		{"C4Context canonical case", "C4Context\ntitle x", C4Context},
		{"leading blank lines", "\n\n  C4Context\n", C4Context},
		{"empty source", "", Flowchart},
		{"unknown header defaults flowchart", "someUnknownDiagram\nA --> B", Flowchart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.source); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}
