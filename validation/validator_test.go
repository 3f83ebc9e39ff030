package validation

import (
	"strings"
	"testing"

	"github.com/giygas/statcan-api/statcanparser/entities"
)

func TestValidateTableID(t *testing.T) {
	v := NewDataValidator()

	testCases := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"14-10-0287", "14-10-0287", false},
		{"14 10 0287", "14-10-0287", false},
		{"14100287", "14100287", false},
		{"  14-10-0287  ", "14-10-0287", false},
		{"14-10-028701", "14-10-028701", false},
		{"", "", true},
		{"abc", "", true},
		{"14-10", "", true},
		{"14-10-0287-01", "", true}, // extra group not matched by the id shape
		{"../etc/passwd", "", true},
		{"<script>alert(1)</script>", "", true},
	}

	for _, tc := range testCases {
		got, err := v.ValidateTableID(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ValidateTableID(%q): expected error, got %q", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ValidateTableID(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("ValidateTableID(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

func TestValidateLanguage(t *testing.T) {
	v := NewDataValidator()

	if language, err := v.ValidateLanguage(""); err != nil || language != entities.English {
		t.Errorf("Expected empty language to default to English, got %q, %v", language, err)
	}
	if language, err := v.ValidateLanguage("fra"); err != nil || language != entities.French {
		t.Errorf("Expected fra to parse as French, got %q, %v", language, err)
	}
	if _, err := v.ValidateLanguage("de"); err == nil {
		t.Error("Expected error for unsupported language")
	}
	if _, err := v.ValidateLanguage("javascript:alert(1)"); err == nil {
		t.Error("Expected error for dangerous language input")
	}
}

func TestValidateInput(t *testing.T) {
	v := NewDataValidator()

	if err := v.ValidateInput("14-10-0287"); err != nil {
		t.Errorf("Expected clean input to pass, got %v", err)
	}

	if err := v.ValidateInput(strings.Repeat("a", 101)); err == nil {
		t.Error("Expected error for input longer than 100 characters")
	}

	dangerous := []string{
		"<script>alert(1)</script>",
		"1' or '1'='1",
		"id; rm -rf /",
		"../../etc/passwd",
		"union select * from users",
		"$(whoami)",
	}
	for _, input := range dangerous {
		if err := v.ValidateInput(input); err == nil {
			t.Errorf("Expected error for dangerous input %q", input)
		}
	}
}
