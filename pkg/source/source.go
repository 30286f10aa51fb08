package source

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a key is absent from a source.
	ErrNotFound = errors.New("key not found")
	// ErrSectionNotFound is returned when a config store has no such section.
	ErrSectionNotFound = errors.New("section not found")
)

// Environment is a flat name to string mapping.
type Environment interface {
	LookupEnv(name string) (string, bool)
}

// ConfigStore is a two-level mapping addressed by (section, key).
// Lookup must return a *LookupError when either level is missing.
type ConfigStore interface {
	Lookup(section, key string) (any, error)
}

// Namespace holds parsed command-line arguments.
// Lookup reports false when the argument was not supplied.
type Namespace interface {
	Lookup(name string) (any, bool)
}

// LookupError describes a failed lookup in a backing source.
type LookupError struct {
	Source string // kind of source, e.g. "env", "ini", "flags"
	Key    string // key as addressed, e.g. "HOME" or "System.HomeDir"
	Err    error  // ErrNotFound, ErrSectionNotFound or a source-specific error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s lookup %q: %v", e.Source, e.Key, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// NotFound builds a LookupError for an absent key.
func NotFound(src, key string) *LookupError {
	return &LookupError{Source: src, Key: key, Err: ErrNotFound}
}

// SectionKey formats a config store address as "section.key".
func SectionKey(section, key string) string {
	if section == "" {
		return key
	}
	return section + "." + key
}
