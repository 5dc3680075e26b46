package validation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
)

// timeRegex matches a 24h time of day in HH:MM format.
var timeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidateUpdateTime checks that the daily update time is a valid HH:MM
// string.
func ValidateUpdateTime(value string) error {
	if !timeRegex.MatchString(value) {
		return fmt.Errorf("invalid update time: %s, expected HH:MM", value)
	}
	return nil
}

// ValidatePagination validates pagination parameters to ensure they are within
// acceptable ranges. Returns an error if the parameters are invalid.
func ValidatePagination(page, size int) error {
	if page < 1 {
		return fmt.Errorf("page must be greater than 0")
	}
	if size < 1 || size > 100 {
		return fmt.Errorf("size must be between 1 and 100")
	}
	return nil
}

// WriteError writes a validation error response to the HTTP response writer.
// It takes a response writer, error message, and HTTP status code.
func WriteError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	}); err != nil {
		slog.Error("Failed to encode error response", slog.Any("error", err))
	}
}
