package middleware

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Input validation and sanitization utilities

var bareVideoID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ValidateVideoURL accepts the common YouTube URL shapes or a bare video id.
// Shape validation beyond "looks like a video reference" is left to the
// transcript provider.
func ValidateVideoURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("video URL cannot be empty")
	}
	if bareVideoID.MatchString(rawURL) {
		return nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (allowed: http, https)", u.Scheme)
	}
	return nil
}

// ValidateAnalysisID validates a record id (UUID format)
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid analysis ID format")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
