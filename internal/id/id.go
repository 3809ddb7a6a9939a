package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NewAccountID returns a random, stable account identifier.
func NewAccountID() string {
	return uuid.NewString()
}

// ValidAccountID reports whether s parses as a UUID.
func ValidAccountID(s string) bool {
	return uuid.Validate(s) == nil
}

// FormatSnapshotID returns a snapshot ID like "2026-03-007".
func FormatSnapshotID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// ParseSnapshotID parses "2026-03-007" into year, month, seq.
func ParseSnapshotID(s string) (year, month, seq int, err error) {
	parts := strings.SplitN(s, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid snapshot ID format: %q", s)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in snapshot ID %q: %w", s, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("invalid month in snapshot ID %q", s)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil || seq < 1 {
		return 0, 0, 0, fmt.Errorf("invalid sequence in snapshot ID %q", s)
	}

	return year, month, seq, nil
}
