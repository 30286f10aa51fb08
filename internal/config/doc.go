// Package config resolves prefer's runtime configuration.
//
// Every setting is a preferred variable over four candidates, highest
// preference first:
//
//  1. a command-line flag
//  2. one or more environment variables
//  3. a key in the config file
//  4. a static default
//
// # Settings
//
//	Setting          Flag         Environment        Config file
//	System.HomeDir   --home-dir   USERPROFILE, HOME  [System] HomeDir
//	System.WorkDir   --work-dir   CWD                [System] WorkDir
//	System.AppDir    --app-dir    APPDIR             [System] AppDir
//	System.TmpDir    --tmp-dir    FAKETMPDIR         [System] TmpDir
//	Runtime.Timeout  --timeout    PREFER_TIMEOUT     [Runtime] Timeout
//	Runtime.Workers  --workers    PREFER_WORKERS     [Runtime] Workers
//	Log.Level        --log-level  LOG_LEVEL          [Log] Level
//
// Timeout and Level are strict: a value that cannot be converted is an
// error. Directories and Workers are lenient and keep the unconverted value
// (or the default, when the raw value is not usable), which Validate then
// checks.
//
// # Config File
//
// The file path is resolved the same way: --config, then PREFER_CONFIG,
// then ~/.prefer/config.ini. The format follows the extension:
//   - .ini, .cfg, .conf: INI (gopkg.in/ini.v1)
//   - .yaml, .yml: YAML (gopkg.in/yaml.v3)
//   - .toml, .json, .hcl, .properties: viper
//
// A missing file is not an error; the remaining candidates still apply.
//
// # Basic Usage
//
//	cfg, err := config.New(config.WithArgs(source.Flags(cmd.Flags()))).Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, s := range cfg.Settings() {
//		fmt.Println(s.Name, s.Value, s.Source)
//	}
//
// # Error Handling
//
// All settings are resolved even when some fail, and every failure is
// reported together (go.uber.org/multierr), wrapped in ErrInvalidConfig.
package config
