package variable

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Converters for common target types. They accept strings as well as the
// typed values YAML, TOML and JSON decoders produce.
var (
	String      Converter[string]        = cast.ToStringE
	Int         Converter[int]           = toInt
	Int64       Converter[int64]         = toInt64
	Float64     Converter[float64]       = cast.ToFloat64E
	Bool        Converter[bool]          = cast.ToBoolE
	Duration    Converter[time.Duration] = toDuration
	StringSlice Converter[[]string]      = toStringSlice
	Lower       Converter[string]        = toLower
)

// toInt64 reads strings as base 10, so "010" is 10 and "0x10" is rejected.
// cast would apply C-style prefixes.
func toInt64(raw any) (int64, error) {
	s, ok := raw.(string)
	if !ok {
		return cast.ToInt64E(raw)
	}
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func toInt(raw any) (int, error) {
	s, ok := raw.(string)
	if !ok {
		return cast.ToIntE(raw)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 0)
	return int(n), err
}

// toDuration reads bare numbers as seconds; anything else uses Go duration
// syntax ("30s", "1h30m").
func toDuration(raw any) (time.Duration, error) {
	switch v := raw.(type) {
	case time.Duration:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return secondsToDuration(f), nil
		}
		return time.ParseDuration(s)
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, err
	}
	return secondsToDuration(f), nil
}

func secondsToDuration(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

// toLower trims and lower-cases string values.
func toLower(raw any) (string, error) {
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(s)), nil
}

// Path converts to a cleaned filesystem path, expanding a leading "~".
// Empty values are rejected.
func Path(raw any) (string, error) {
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("empty path")
	}
	if s == "~" || strings.HasPrefix(s, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		s = filepath.Join(home, strings.TrimPrefix(s, "~"))
	}
	return filepath.Clean(s), nil
}

// toStringSlice splits comma-separated strings; other inputs go through cast.
func toStringSlice(raw any) ([]string, error) {
	s, ok := raw.(string)
	if !ok {
		return cast.ToStringSliceE(raw)
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

// OneOf wraps c and rejects values not in allowed.
func OneOf[T comparable](c Converter[T], allowed ...T) Converter[T] {
	return func(raw any) (T, error) {
		v, err := c(raw)
		if err != nil {
			return v, err
		}
		for _, a := range allowed {
			if v == a {
				return v, nil
			}
		}
		var zero T
		return zero, fmt.Errorf("%v is not one of %v", v, allowed)
	}
}
