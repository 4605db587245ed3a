// Package validation holds input rules shared by the services.
package validation

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"bailanysta/internal/models"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.StrictPolicy()

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

var reservedUsernames = map[string]struct{}{
	"admin":   {},
	"api":     {},
	"feed":    {},
	"health":  {},
	"me":      {},
	"metrics": {},
	"posts":   {},
	"search":  {},
	"users":   {},
}

// SanitizeText strips markup from user-supplied text and trims surrounding whitespace.
// Posts are stored and served as plain text, so entities are decoded back.
func SanitizeText(input string) string {
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(input)))
}

// ValidatePostText checks that text holds 1..MaxPostTextRunes code points.
func ValidatePostText(text string) error {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return models.NewValidationError("text is required")
	}
	if n > models.MaxPostTextRunes {
		return models.NewValidationError(fmt.Sprintf("text must be at most %d characters", models.MaxPostTextRunes))
	}
	return nil
}

// ValidateUsername validates username format and reserved names.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return models.NewValidationError("username must be 3-32 characters and contain only letters, numbers, and underscores")
	}
	if _, exists := reservedUsernames[strings.ToLower(username)]; exists {
		return models.NewValidationError("username is reserved")
	}
	return nil
}
