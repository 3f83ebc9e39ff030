// Package validation provides request input validation for the statcan API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/giygas/statcan-api/interfaces"
	"github.com/giygas/statcan-api/statcanparser/entities"
)

// Pre-compiled regex patterns, compiled once at package initialization
var (
	// Table ids: digits optionally grouped by dashes or spaces
	tableIDRegex = regexp.MustCompile(`^[0-9]{2}[-\s]?[0-9]{2}[-\s]?[0-9]{4,6}$`)

	// Dangerous patterns as strings (strings.Contains is much faster than
	// regex for simple substring matching)
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "onload=", "onerror=",
		"eval(", "expression(", "@import",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "--", "/*", "*/",
		// Command injection patterns
		"; ", "| ", "& ", "`", "$(", "${",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
	}
)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateTableID checks the shape of a table id and returns it in canonical
// dashed form (e.g. "14 10 0287" -> "14-10-0287"). The id is not checked
// against the provider's catalog.
func (v *DataValidatorImpl) ValidateTableID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("table id cannot be empty")
	}

	if err := v.ValidateInput(input); err != nil {
		return "", err
	}

	if !tableIDRegex.MatchString(input) {
		return "", fmt.Errorf("table id %q does not look like a table number (e.g. 14-10-0287)", input)
	}

	return strings.ReplaceAll(strings.ReplaceAll(input, " ", "-"), "--", "-"), nil
}

// ValidateLanguage converts a language query parameter. An empty value
// defaults to English.
func (v *DataValidatorImpl) ValidateLanguage(input string) (entities.Language, error) {
	if err := v.ValidateInput(input); err != nil {
		return entities.English, err
	}
	return entities.ParseLanguage(input)
}

// ValidateInput screens user input strings for dangerous patterns
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if len(input) > 100 {
		return fmt.Errorf("input too long: %d characters", len(input))
	}

	lowered := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("input contains forbidden sequence")
		}
	}

	return nil
}
