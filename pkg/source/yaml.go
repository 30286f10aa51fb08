package source

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

var _ ConfigStore = (*YAMLStore)(nil)

// YAMLStore is a config store decoded from a YAML document whose top level
// maps section names to mappings of keys.
//
//	System:
//	  HomeDir: /home/me
//	  Workers: 8
type YAMLStore struct {
	sections map[string]map[string]any
}

// ParseYAML decodes data. Top-level entries that are not mappings are
// rejected so that a malformed file fails loudly instead of silently
// losing values.
func ParseYAML(data []byte) (*YAMLStore, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	sections := make(map[string]map[string]any, len(doc))
	for name, raw := range doc {
		switch sec := raw.(type) {
		case map[string]any:
			sections[name] = sec
		case nil:
			sections[name] = map[string]any{}
		default:
			return nil, fmt.Errorf("parsing yaml: section %q is a %T, not a mapping", name, raw)
		}
	}
	return &YAMLStore{sections: sections}, nil
}

// Lookup implements ConfigStore.
func (s *YAMLStore) Lookup(section, key string) (any, error) {
	addr := SectionKey(section, key)
	sec, ok := s.sections[section]
	if !ok {
		return nil, &LookupError{Source: "yaml", Key: addr, Err: ErrSectionNotFound}
	}
	v, ok := sec[key]
	if !ok {
		return nil, NotFound("yaml", addr)
	}
	return v, nil
}
