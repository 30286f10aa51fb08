package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/ini.v1"

	"github.com/lc/prefer/internal/filesys"
	"github.com/lc/prefer/internal/log"
	"github.com/lc/prefer/pkg/source"
	"github.com/lc/prefer/pkg/variable"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnknownFormat is returned for config files with an unsupported extension.
	ErrUnknownFormat = errors.New("unknown config file format")
)

const (
	// DefaultConfigPath is the config file location relative to the home directory.
	DefaultConfigPath = ".prefer/config.ini"
	// ConfigEnv names the environment variable holding the config file path.
	ConfigEnv = "PREFER_CONFIG"
	// ConfigFlag names the flag holding the config file path.
	ConfigFlag = "config"

	DefaultHomeDir  = "/DefaultHomeDir"
	DefaultWorkDir  = "/DefaultWorkDir"
	DefaultAppDir   = "/DefaultAppDir"
	DefaultTmpDir   = "/DefaultTmpDir"
	DefaultTimeout  = 30 * time.Second
	DefaultWorkers  = 4
	DefaultLogLevel = "info"
)

// LogLevels lists the accepted Log.Level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Config holds the resolved application configuration.
type Config struct {
	System  SystemConfig
	Runtime RuntimeConfig
	Log     LogConfig

	// Path is the config file that was consulted, whether or not it existed.
	Path string
	// Sources maps each setting name to the candidate it was resolved from.
	Sources map[string]string
}

// SystemConfig holds directory settings.
type SystemConfig struct {
	HomeDir string
	WorkDir string
	AppDir  string
	TmpDir  string
}

// RuntimeConfig holds execution settings.
type RuntimeConfig struct {
	Timeout time.Duration
	Workers int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Setting is one resolved value, for display.
type Setting struct {
	Name   string
	Value  any
	Source string
}

// Provider defines the interface for loading configuration.
type Provider interface {
	Load() (*Config, error)
}

// FSProvider resolves configuration from flags, the environment and a
// config file read through a filesys.ReadFS.
type FSProvider struct {
	fs   filesys.ReadFS
	env  source.Environment
	args source.Namespace
	home func() (string, error)
}

// Verify FSProvider implements Provider interface.
var _ Provider = (*FSProvider)(nil)

// Opt configures an FSProvider.
type Opt func(*FSProvider)

// WithFS sets the filesystem the config file is read from.
func WithFS(fs filesys.ReadFS) Opt {
	return func(p *FSProvider) { p.fs = fs }
}

// WithEnv sets the environment. The default is the process environment.
func WithEnv(env source.Environment) Opt {
	return func(p *FSProvider) { p.env = env }
}

// WithArgs sets the parsed command-line arguments.
func WithArgs(args source.Namespace) Opt {
	return func(p *FSProvider) { p.args = args }
}

// WithHomeDir overrides how the home directory for the default config
// path is found.
func WithHomeDir(home func() (string, error)) Opt {
	return func(p *FSProvider) { p.home = home }
}

// New creates a provider backed by the OS filesystem and environment.
func New(opts ...Opt) *FSProvider {
	p := &FSProvider{
		fs:   filesys.OS(),
		env:  source.OS(),
		args: source.Args(nil),
		home: os.UserHomeDir,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Default returns the configuration used when no candidate yields a value.
func Default() *Config {
	return &Config{
		System: SystemConfig{
			HomeDir: DefaultHomeDir,
			WorkDir: DefaultWorkDir,
			AppDir:  DefaultAppDir,
			TmpDir:  DefaultTmpDir,
		},
		Runtime: RuntimeConfig{
			Timeout: DefaultTimeout,
			Workers: DefaultWorkers,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Sources: make(map[string]string),
	}
}

// ConfigPath resolves the config file location.
func (p *FSProvider) ConfigPath() (string, error) {
	home, err := p.home()
	if err != nil {
		log.Warn("config: could not determine home directory", "error", err)
		home = ""
	}
	policy := variable.Policy[string]{Convert: variable.Path, Strict: true}
	return variable.NewPreferred[string](
		variable.Argument(p.args, ConfigFlag, policy),
		variable.EnvFrom(p.env, ConfigEnv, policy),
		variable.Static(filepath.Join(home, DefaultConfigPath)),
	).Value()
}

// Load resolves every setting and validates the result.
func (p *FSProvider) Load() (*Config, error) {
	path, err := p.ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	store, err := p.loadStore(path)
	if err != nil {
		return nil, err
	}

	cfg, err := p.resolve(store)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

func (p *FSProvider) loadStore(path string) (source.ConfigStore, error) {
	data, err := p.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("config: no config file", "path", path)
			return source.Empty(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	store, err := ParseStore(path, data)
	if err != nil {
		return nil, fmt.Errorf("decoding config file: %w", err)
	}
	log.Debug("config: loaded config file", "path", path)
	return store, nil
}

// ParseStore parses data in the format implied by the extension of path.
func ParseStore(path string, data []byte) (source.ConfigStore, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ini", ".cfg", ".conf":
		return source.ParseINI(data)
	case ".yaml", ".yml":
		return source.ParseYAML(data)
	case ".toml", ".json", ".hcl", ".properties":
		return source.ParseViper(data, strings.TrimPrefix(ext, "."))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	dirs := []struct{ name, value string }{
		{"home", c.System.HomeDir},
		{"work", c.System.WorkDir},
		{"app", c.System.AppDir},
		{"tmp", c.System.TmpDir},
	}
	for _, d := range dirs {
		if strings.TrimSpace(d.value) == "" {
			return fmt.Errorf("%s directory cannot be empty", d.name)
		}
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.Runtime.Workers <= 0 {
		return errors.New("workers must be positive")
	}
	for _, l := range LogLevels {
		if c.Log.Level == l {
			return nil
		}
	}
	return fmt.Errorf("unknown log level %q", c.Log.Level)
}

// Settings lists the resolved values in a stable order.
func (c *Config) Settings() []Setting {
	values := []struct {
		name  string
		value any
	}{
		{"System.HomeDir", c.System.HomeDir},
		{"System.WorkDir", c.System.WorkDir},
		{"System.AppDir", c.System.AppDir},
		{"System.TmpDir", c.System.TmpDir},
		{"Runtime.Timeout", c.Runtime.Timeout},
		{"Runtime.Workers", c.Runtime.Workers},
		{"Log.Level", c.Log.Level},
	}
	out := make([]Setting, 0, len(values))
	for _, v := range values {
		src := c.Sources[v.name]
		if src == "" {
			src = "default"
		}
		out = append(out, Setting{Name: v.name, Value: v.value, Source: src})
	}
	return out
}

// Lookup returns the setting with the given name, ignoring case.
func (c *Config) Lookup(name string) (Setting, bool) {
	for _, s := range c.Settings() {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Setting{}, false
}

// SampleINI renders c as an INI config file.
func (c *Config) SampleINI() ([]byte, error) {
	f := ini.Empty()
	for _, s := range c.Settings() {
		section, key, _ := strings.Cut(s.Name, ".")
		sec, err := f.NewSection(section)
		if err != nil {
			return nil, err
		}
		if _, err := sec.NewKey(key, fmt.Sprint(s.Value)); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// logLevel normalises level names the way log.SetLevel does. An empty value
// means the default level.
func logLevel(raw any) (string, error) {
	s, err := variable.Lower(raw)
	if err != nil || s != "" {
		return s, err
	}
	return DefaultLogLevel, nil
}

// setting describes where one value may come from.
type setting[T any] struct {
	section string
	key     string
	flag    string
	env     []string
	policy  variable.Policy[T]
}

func (s setting[T]) name() string { return s.section + "." + s.key }

func (s setting[T]) preferred(p *FSProvider, store source.ConfigStore) *variable.Preferred[T] {
	candidates := []variable.Candidate[T]{variable.Argument(p.args, s.flag, s.policy)}
	for _, e := range s.env {
		candidates = append(candidates, variable.EnvFrom(p.env, e, s.policy))
	}
	candidates = append(candidates,
		variable.ConfigFile(store, s.section, s.key, s.policy),
		variable.Static(s.policy.Default),
	)
	return variable.NewPreferred(candidates...)
}

// resolveInto stores the resolved value in dst and records its source.
// Errors are appended to errs so every setting is reported.
func resolveInto[T any](p *FSProvider, store source.ConfigStore, cfg *Config, errs *error, s setting[T], dst *T) {
	res, err := s.preferred(p, store).Resolve()
	if err != nil {
		*errs = multierr.Append(*errs, fmt.Errorf("%s: %w", s.name(), err))
		return
	}
	*dst = res.Value
	src := res.Source
	if res.Degraded {
		if _, kept := res.Raw.(T); kept {
			src += " (unconverted)"
		} else {
			src = "default (" + src + " unconverted)"
		}
	}
	cfg.Sources[s.name()] = src
}

func (p *FSProvider) resolve(store source.ConfigStore) (*Config, error) {
	cfg := Default()
	var errs error

	dir := func(key, flag, def string, env ...string) setting[string] {
		return setting[string]{
			section: "System",
			key:     key,
			flag:    flag,
			env:     env,
			policy:  variable.Policy[string]{Default: def, Convert: variable.Path},
		}
	}
	resolveInto(p, store, cfg, &errs, dir("HomeDir", "home-dir", DefaultHomeDir, "USERPROFILE", "HOME"), &cfg.System.HomeDir)
	resolveInto(p, store, cfg, &errs, dir("WorkDir", "work-dir", DefaultWorkDir, "CWD"), &cfg.System.WorkDir)
	resolveInto(p, store, cfg, &errs, dir("AppDir", "app-dir", DefaultAppDir, "APPDIR"), &cfg.System.AppDir)
	resolveInto(p, store, cfg, &errs, dir("TmpDir", "tmp-dir", DefaultTmpDir, "FAKETMPDIR"), &cfg.System.TmpDir)

	resolveInto(p, store, cfg, &errs, setting[time.Duration]{
		section: "Runtime",
		key:     "Timeout",
		flag:    "timeout",
		env:     []string{"PREFER_TIMEOUT"},
		policy:  variable.Policy[time.Duration]{Default: DefaultTimeout, Convert: variable.Duration, Strict: true},
	}, &cfg.Runtime.Timeout)

	resolveInto(p, store, cfg, &errs, setting[int]{
		section: "Runtime",
		key:     "Workers",
		flag:    "workers",
		env:     []string{"PREFER_WORKERS"},
		policy:  variable.Policy[int]{Default: DefaultWorkers, Convert: variable.Int},
	}, &cfg.Runtime.Workers)

	resolveInto(p, store, cfg, &errs, setting[string]{
		section: "Log",
		key:     "Level",
		flag:    "log-level",
		env:     []string{"LOG_LEVEL"},
		policy: variable.Policy[string]{
			Default: DefaultLogLevel,
			Convert: variable.OneOf[string](logLevel, LogLevels...),
			Strict:  true,
		},
	}, &cfg.Log.Level)

	if errs != nil {
		return nil, errs
	}
	return cfg, nil
}
