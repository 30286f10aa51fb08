package source

import (
	"fmt"

	"gopkg.in/ini.v1"
)

var _ ConfigStore = (*INIStore)(nil)

// INIStore adapts a parsed INI file. Section names are case-sensitive and
// key names are not, matching the usual configparser behaviour.
type INIStore struct {
	file *ini.File
}

// INI wraps an already loaded ini.File.
func INI(f *ini.File) *INIStore {
	return &INIStore{file: f}
}

// ParseINI parses INI content with case-insensitive keys.
func ParseINI(data []byte) (*INIStore, error) {
	f, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, data)
	if err != nil {
		return nil, fmt.Errorf("parsing ini: %w", err)
	}
	return INI(f), nil
}

// Lookup implements ConfigStore.
func (s *INIStore) Lookup(section, key string) (any, error) {
	addr := SectionKey(section, key)
	sec, err := s.file.GetSection(section)
	if err != nil {
		return nil, &LookupError{Source: "ini", Key: addr, Err: ErrSectionNotFound}
	}
	if !sec.HasKey(key) {
		return nil, NotFound("ini", addr)
	}
	return sec.Key(key).String(), nil
}
