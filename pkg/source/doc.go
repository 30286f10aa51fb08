// Package source defines the lookup contract between preferred variables and
// the places configuration values actually live.
//
// Three kinds of source are understood:
//
//   - Environment: a flat mapping from name to string, normally the process
//     environment.
//   - ConfigStore: a two-level mapping, section then key, such as a parsed
//     INI, YAML, TOML or JSON file.
//   - Namespace: parsed command-line arguments, looked up by name.
//
// Adapters are provided for the process environment, plain maps,
// gopkg.in/ini.v1, gopkg.in/yaml.v3, github.com/spf13/viper and
// github.com/spf13/pflag flag sets.
//
// # Error Handling
//
// ConfigStore lookups fail with a *LookupError that wraps one of:
//   - ErrSectionNotFound: the section does not exist
//   - ErrNotFound: the section exists but the key does not
//
// Environment and Namespace lookups report absence with a boolean, the way
// os.LookupEnv does. The variable package turns those into *LookupError.
//
// # Thread Safety
//
// Adapters never mutate their backing data and perform no locking. Sources
// are expected to be read-only while values are being resolved.
package source
