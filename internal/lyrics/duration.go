package lyrics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned for anything that is not two colon-separated
// non-negative integers.
var ErrInvalidFormat = errors.New("invalid duration format")

// ParseDuration converts "mm:ss" into whole seconds. seconds are not range
// checked, so "1:75" yields 135.
func ParseDuration(s string) (uint32, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	minutes, err := parseField(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	seconds, err := parseField(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	total := uint64(minutes)*60 + uint64(seconds)
	if total > uint64(^uint32(0)) {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidFormat, s)
	}

	return uint32(total), nil
}

// FormatDuration renders seconds as "m:ss".
func FormatDuration(seconds uint32) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func parseField(s string) (uint32, error) {
	value, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(value), nil
}
