// Package envutil provides typed access to process environment variables.
package envutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Lookup resolves an environment variable. It matches os.LookupEnv.
type Lookup func(key string) (string, bool)

// OS returns a Lookup backed by the process environment.
func OS() Lookup {
	return os.LookupEnv
}

// FromMap returns a Lookup backed by values. Used by tests and the local runner.
func FromMap(values map[string]string) Lookup {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

// Value returns the trimmed value of key, or "" when unset.
func (l Lookup) Value(key string) string {
	value, _ := l(key)
	return strings.TrimSpace(value)
}

// String returns the value of key, or fallback when unset or blank.
func (l Lookup) String(key, fallback string) string {
	if value := l.Value(key); value != "" {
		return value
	}
	return fallback
}

// Int parses key as a base-10 integer. ok is false when the variable is unset or blank.
func (l Lookup) Int(key string) (value int, ok bool, err error) {
	raw := l.Value(key)
	if raw == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return parsed, true, nil
}

// Float parses key as a float. ok is false when the variable is unset or blank.
func (l Lookup) Float(key string) (value float64, ok bool, err error) {
	raw := l.Value(key)
	if raw == "" {
		return 0, false, nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s: invalid number %q", key, raw)
	}
	return parsed, true, nil
}

// Flag reports whether key is set to 1, true or yes (case-insensitive).
func (l Lookup) Flag(key string) bool {
	switch strings.ToLower(l.Value(key)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
