package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "root", false},
		{"valid uuid", "3f1c2a9e-0b7d-4c55-9a51-2f7e3c1d8b40", false},
		{"valid unicode", "idée-1", false},

		{"empty", "", true},
		{"too long", strings.Repeat("n", 300), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDocument) {
				t.Errorf("ValidateNodeID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidDocument)
			}
		})
	}
}

func TestValidateCluster(t *testing.T) {
	for c := 0; c <= 5; c++ {
		if err := ValidateCluster("n", c); err != nil {
			t.Errorf("ValidateCluster(%d) = %v, want nil", c, err)
		}
	}
	for _, c := range []int{-1, 6, 42} {
		if err := ValidateCluster("n", c); err == nil {
			t.Errorf("ValidateCluster(%d) = nil, want error", c)
		}
	}
}

func TestValidateChoice(t *testing.T) {
	if err := ValidateChoice(ErrCodeInvalidStrategy, "strategy", "radial", "radial", "force"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateChoice(ErrCodeInvalidStrategy, "strategy", "spiral", "radial", "force")
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	if !Is(err, ErrCodeInvalidStrategy) {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidStrategy)
	}
	if !strings.Contains(err.Error(), "radial, force") {
		t.Errorf("error %q should list valid choices", err)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "maps/essay.json", false},
		{"valid absolute", "/tmp/essay.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		schemes []string
		wantErr bool
	}{
		{"redis", "redis://localhost:6379/0", []string{"redis", "rediss"}, false},
		{"rediss", "rediss://cache.internal:6380", []string{"redis", "rediss"}, false},
		{"mongo srv", "mongodb+srv://cluster0.example.net", []string{"mongodb", "mongodb+srv"}, false},

		{"empty", "", []string{"redis"}, true},
		{"wrong scheme", "http://localhost", []string{"redis"}, true},
		{"no scheme", "localhost:6379", []string{"redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
