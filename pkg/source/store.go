package source

var (
	_ ConfigStore = Sections(nil)
	_ ConfigStore = emptyStore{}
)

// Sections is an in-memory two-level config store.
type Sections map[string]map[string]any

// Lookup implements ConfigStore.
func (s Sections) Lookup(section, key string) (any, error) {
	sec, ok := s[section]
	if !ok {
		return nil, &LookupError{Source: "config", Key: SectionKey(section, key), Err: ErrSectionNotFound}
	}
	v, ok := sec[key]
	if !ok {
		return nil, NotFound("config", SectionKey(section, key))
	}
	return v, nil
}

type emptyStore struct{}

func (emptyStore) Lookup(section, key string) (any, error) {
	return nil, &LookupError{Source: "config", Key: SectionKey(section, key), Err: ErrSectionNotFound}
}

// Empty returns a store without any sections. Every lookup fails.
func Empty() ConfigStore { return emptyStore{} }
