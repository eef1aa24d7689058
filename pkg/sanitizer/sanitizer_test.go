package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"leading and trailing", "  cordless drill  ", "cordless drill"},
		{"internal runs", "cordless \t\t drill", "cordless drill"},
		{"newlines", "cordless\ndrill", "cordless drill"},
		{"already clean", "cordless drill", "cordless drill"},
		{"unicode letters kept", "éclair  pan", "éclair pan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Alice@Example.COM", "alice@example.com"},
		{"trims", "  alice@example.com ", "alice@example.com"},
		{"already normal", "alice@example.com", "alice@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEmail(tt.input); got != tt.expected {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeSearchText(t *testing.T) {
	if got := NormalizeSearchText("  Cordless   DRILL "); got != "cordless drill" {
		t.Errorf("unexpected search text %q", got)
	}
}

func TestPipelineAppliesInOrder(t *testing.T) {
	p := Pipeline{
		func(s string) string { return s + "b" },
		func(s string) string { return s + "c" },
	}
	if got := p.Apply("a"); got != "abc" {
		t.Errorf("Pipeline.Apply = %q, want abc", got)
	}
}
