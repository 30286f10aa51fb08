package config_test

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/suite"

	"github.com/lc/prefer/internal/config"
	"github.com/lc/prefer/internal/mocks"
	"github.com/lc/prefer/pkg/source"
	"github.com/lc/prefer/pkg/variable"
)

const testHome = "/home/tester"

type memFS struct {
	files map[string]string
}

func (m memFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; !ok {
		return nil, os.ErrNotExist
	}
	return nil, nil
}

func (m memFS) ReadFile(path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return []byte(content), nil
}

type ConfigTestSuite struct {
	suite.Suite
	fs    memFS
	env   source.Env
	flags *pflag.FlagSet
}

func (s *ConfigTestSuite) SetupTest() {
	s.fs = memFS{files: make(map[string]string)}
	s.env = source.Env{}
	s.flags = pflag.NewFlagSet("test", pflag.ContinueOnError)
	for _, name := range []string{"config", "home-dir", "work-dir", "app-dir", "tmp-dir", "timeout", "workers", "log-level"} {
		s.flags.String(name, "", "")
	}
}

func (s *ConfigTestSuite) provider() *config.FSProvider {
	return config.New(
		config.WithFS(s.fs),
		config.WithEnv(s.env),
		config.WithArgs(source.Flags(s.flags)),
		config.WithHomeDir(func() (string, error) { return testHome, nil }),
	)
}

func (s *ConfigTestSuite) defaultPath() string {
	return testHome + "/" + config.DefaultConfigPath
}

func (s *ConfigTestSuite) TestLoadDefaultsWhenNothingSet() {
	// When loading with no file, no env and no flags
	cfg, err := s.provider().Load()

	// Then every setting comes from its static default
	s.Require().NoError(err)
	s.Equal(config.DefaultHomeDir, cfg.System.HomeDir)
	s.Equal(config.DefaultWorkDir, cfg.System.WorkDir)
	s.Equal(config.DefaultAppDir, cfg.System.AppDir)
	s.Equal(config.DefaultTmpDir, cfg.System.TmpDir)
	s.Equal(config.DefaultTimeout, cfg.Runtime.Timeout)
	s.Equal(config.DefaultWorkers, cfg.Runtime.Workers)
	s.Equal(config.DefaultLogLevel, cfg.Log.Level)
	s.Equal(s.defaultPath(), cfg.Path)
	for _, st := range cfg.Settings() {
		s.Equal("default", st.Source, st.Name)
	}
}

func (s *ConfigTestSuite) TestPrecedence() {
	// Given the same settings in every layer
	s.fs.files[s.defaultPath()] = `
[System]
HomeDir = /ConfigFileHomeDir
AppDir = /ConfigFileAppDir
WorkDir = /ConfigFileWorkDir
`
	s.env["HOME"] = "/EnvHome"
	s.env["APPDIR"] = "/EnvAppDir"
	s.Require().NoError(s.flags.Set("work-dir", "/CmdArgWorkdir"))

	// When loading
	cfg, err := s.provider().Load()

	// Then flags beat env, env beats the file, the file beats defaults
	s.Require().NoError(err)
	s.Equal("/CmdArgWorkdir", cfg.System.WorkDir)
	s.Equal("arg:work-dir", cfg.Sources["System.WorkDir"])
	s.Equal("/EnvHome", cfg.System.HomeDir)
	s.Equal("env:HOME", cfg.Sources["System.HomeDir"])
	s.Equal("/EnvAppDir", cfg.System.AppDir)
	s.Equal(config.DefaultTmpDir, cfg.System.TmpDir)
	s.Equal("default", cfg.Sources["System.TmpDir"])
}

func (s *ConfigTestSuite) TestUserProfileBeatsHome() {
	s.env["USERPROFILE"] = "/Users/profile"
	s.env["HOME"] = "/EnvHome"

	cfg, err := s.provider().Load()

	s.Require().NoError(err)
	s.Equal("/Users/profile", cfg.System.HomeDir)
	s.Equal("env:USERPROFILE", cfg.Sources["System.HomeDir"])
}

func (s *ConfigTestSuite) TestConfigFileOnly() {
	s.fs.files[s.defaultPath()] = `
[System]
TmpDir = /cfg/tmp/../tmp

[Runtime]
timeout = 2m
workers = 16

[Log]
level = debug
`
	cfg, err := s.provider().Load()

	s.Require().NoError(err)
	s.Equal("/cfg/tmp", cfg.System.TmpDir)
	s.Equal(2*time.Minute, cfg.Runtime.Timeout)
	s.Equal(16, cfg.Runtime.Workers)
	s.Equal("debug", cfg.Log.Level)
	s.Equal("config:Runtime.Timeout", cfg.Sources["Runtime.Timeout"])
}

func (s *ConfigTestSuite) TestConfigPathFromEnvAndFlag() {
	s.fs.files["/etc/prefer.yaml"] = `
System:
  AppDir: /yaml/app
Runtime:
  Workers: 3
`
	s.fs.files["/etc/prefer.toml"] = `
[System]
AppDir = "/toml/app"
`
	s.env[config.ConfigEnv] = "/etc/prefer.yaml"

	cfg, err := s.provider().Load()
	s.Require().NoError(err)
	s.Equal("/etc/prefer.yaml", cfg.Path)
	s.Equal("/yaml/app", cfg.System.AppDir)
	s.Equal(3, cfg.Runtime.Workers)

	s.Require().NoError(s.flags.Set(config.ConfigFlag, "/etc/prefer.toml"))
	cfg, err = s.provider().Load()
	s.Require().NoError(err)
	s.Equal("/etc/prefer.toml", cfg.Path)
	s.Equal("/toml/app", cfg.System.AppDir)
}

func (s *ConfigTestSuite) TestLenientWorkersKeepsDefault() {
	// Given a workers value that is not a number
	s.env["PREFER_WORKERS"] = "many"

	cfg, err := s.provider().Load()

	// Then the default is kept and credited as the source
	s.Require().NoError(err)
	s.Equal(config.DefaultWorkers, cfg.Runtime.Workers)
	s.Equal("default (env:PREFER_WORKERS unconverted)", cfg.Sources["Runtime.Workers"])
}

func (s *ConfigTestSuite) TestNumericEnvValues() {
	// Given numbers written without units or with a leading zero
	s.env["PREFER_WORKERS"] = "08"
	s.env["PREFER_TIMEOUT"] = "30"

	cfg, err := s.provider().Load()

	// Then workers are decimal and a bare timeout is in seconds
	s.Require().NoError(err)
	s.Equal(8, cfg.Runtime.Workers)
	s.Equal("env:PREFER_WORKERS", cfg.Sources["Runtime.Workers"])
	s.Equal(30*time.Second, cfg.Runtime.Timeout)
}

func (s *ConfigTestSuite) TestLogLevelIsNormalised() {
	testCases := []struct {
		name  string
		value string
		want  string
	}{
		{name: "upper case", value: "WARN", want: "warn"},
		{name: "padded", value: " Debug ", want: "debug"},
		{name: "exported but empty", value: "", want: config.DefaultLogLevel},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.env["LOG_LEVEL"] = tc.value

			cfg, err := s.provider().Load()

			s.Require().NoError(err)
			s.Equal(tc.want, cfg.Log.Level)
			s.Equal("env:LOG_LEVEL", cfg.Sources["Log.Level"])
		})
	}
}

func (s *ConfigTestSuite) TestEmptyConfigPathKeepsErrorChain() {
	// Given an exported but empty config path
	s.env[config.ConfigEnv] = ""

	_, err := s.provider().Load()

	// Then the typed conversion error is still reachable
	s.Require().Error(err)
	s.ErrorIs(err, config.ErrInvalidConfig)
	var coerceErr *variable.CoercionError
	s.ErrorAs(err, &coerceErr)
	s.Equal("env:"+config.ConfigEnv, coerceErr.Variable)
}

func (s *ConfigTestSuite) TestStrictErrorsAreAggregated() {
	// Given two strict settings with unusable values
	s.env["PREFER_TIMEOUT"] = "soon"
	s.env["LOG_LEVEL"] = "loud"

	// When loading
	_, err := s.provider().Load()

	// Then both failures are reported
	s.Require().Error(err)
	s.ErrorIs(err, config.ErrInvalidConfig)
	s.Contains(err.Error(), "Runtime.Timeout")
	s.Contains(err.Error(), "Log.Level")

	var coerceErr *variable.CoercionError
	s.ErrorAs(err, &coerceErr)
}

func (s *ConfigTestSuite) TestUnknownExtension() {
	s.fs.files["/etc/prefer.xml"] = "<x/>"
	s.env[config.ConfigEnv] = "/etc/prefer.xml"

	_, err := s.provider().Load()

	s.Require().Error(err)
	s.ErrorIs(err, config.ErrUnknownFormat)
	s.Contains(err.Error(), "decoding config file")
}

func (s *ConfigTestSuite) TestInvalidYAML() {
	s.fs.files["/etc/prefer.yaml"] = "System: [invalid"
	s.env[config.ConfigEnv] = "/etc/prefer.yaml"

	_, err := s.provider().Load()

	s.Require().Error(err)
	s.Contains(err.Error(), "decoding config file")
}

func (s *ConfigTestSuite) TestReadError() {
	fsys := new(mocks.MockOsFS)
	fsys.On("ReadFile", s.defaultPath()).Return(nil, errors.New("permission denied"))

	_, err := config.New(
		config.WithFS(fsys),
		config.WithEnv(s.env),
		config.WithHomeDir(func() (string, error) { return testHome, nil }),
	).Load()

	s.Require().Error(err)
	s.Contains(err.Error(), "reading config file")
	fsys.AssertExpectations(s.T())
}

func (s *ConfigTestSuite) TestValidation() {
	valid := func() config.Config {
		return *config.Default()
	}

	testCases := []struct {
		name        string
		mutate      func(*config.Config)
		expectedErr string
	}{
		{name: "defaults are valid", mutate: func(*config.Config) {}},
		{
			name:        "empty home dir",
			mutate:      func(c *config.Config) { c.System.HomeDir = "" },
			expectedErr: "home directory cannot be empty",
		},
		{
			name:        "whitespace tmp dir",
			mutate:      func(c *config.Config) { c.System.TmpDir = " \t" },
			expectedErr: "tmp directory cannot be empty",
		},
		{
			name:        "zero timeout",
			mutate:      func(c *config.Config) { c.Runtime.Timeout = 0 },
			expectedErr: "timeout must be positive",
		},
		{
			name:        "negative workers",
			mutate:      func(c *config.Config) { c.Runtime.Workers = -1 },
			expectedErr: "workers must be positive",
		},
		{
			name:        "unknown level",
			mutate:      func(c *config.Config) { c.Log.Level = "trace" },
			expectedErr: `unknown log level "trace"`,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.expectedErr == "" {
				s.NoError(err)
			} else {
				s.Error(err)
				s.Contains(err.Error(), tc.expectedErr)
			}
		})
	}
}

func (s *ConfigTestSuite) TestEmptyDirFromFlagFailsValidation() {
	// An empty flag value cannot be converted to a path and is kept as is.
	s.Require().NoError(s.flags.Set("app-dir", ""))

	_, err := s.provider().Load()

	s.Require().Error(err)
	s.Contains(err.Error(), "app directory cannot be empty")
}

func (s *ConfigTestSuite) TestSampleINIRoundTrip() {
	// Given a rendered sample of a non-default config
	cfg := config.Default()
	cfg.System.WorkDir = "/srv/work"
	cfg.Runtime.Timeout = 90 * time.Second
	data, err := cfg.SampleINI()
	s.Require().NoError(err)
	s.True(strings.Contains(string(data), "[System]"))

	// When it is loaded back as the config file
	s.fs.files[s.defaultPath()] = string(data)
	loaded, err := s.provider().Load()

	// Then the values survive
	s.Require().NoError(err)
	s.Equal("/srv/work", loaded.System.WorkDir)
	s.Equal(90*time.Second, loaded.Runtime.Timeout)
	s.Equal("config:System.WorkDir", loaded.Sources["System.WorkDir"])
}

func (s *ConfigTestSuite) TestLookup() {
	cfg := config.Default()

	st, ok := cfg.Lookup("runtime.workers")
	s.True(ok)
	s.Equal(config.DefaultWorkers, st.Value)

	_, ok = cfg.Lookup("nope")
	s.False(ok)
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
