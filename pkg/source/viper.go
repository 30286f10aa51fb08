package source

import (
	"bytes"
	"fmt"

	"github.com/spf13/viper"
)

var _ ConfigStore = (*ViperStore)(nil)

// ViperStore adapts a viper instance. Sections are top-level keys and
// lookups are case-insensitive, as everywhere in viper.
type ViperStore struct {
	v *viper.Viper
}

// Viper wraps an existing viper instance.
func Viper(v *viper.Viper) *ViperStore {
	return &ViperStore{v: v}
}

// ParseViper reads data in the given viper format ("toml", "json", "hcl",
// "properties", ...).
func ParseViper(data []byte, format string) (*ViperStore, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", format, err)
	}
	return Viper(v), nil
}

// Lookup implements ConfigStore.
func (s *ViperStore) Lookup(section, key string) (any, error) {
	addr := SectionKey(section, key)
	sub := s.v.Sub(section)
	if sub == nil {
		return nil, &LookupError{Source: "viper", Key: addr, Err: ErrSectionNotFound}
	}
	if !sub.IsSet(key) {
		return nil, NotFound("viper", addr)
	}
	return sub.Get(key), nil
}
