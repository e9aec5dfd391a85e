package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// SanitizeFilename strips path separators and control characters from an
// uploaded file name.
func SanitizeFilename(name string) string {
	name = regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(name, "")
	name = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(name)
	name = strings.TrimSpace(name)
	if name == "" {
		return "document"
	}
	return name
}
