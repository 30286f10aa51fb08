package variable

import (
	"github.com/lc/prefer/pkg/source"
)

var (
	_ Candidate[string] = (*EnvironmentVariable[string])(nil)
	_ Candidate[string] = (*ConfigFileVariable[string])(nil)
	_ Candidate[string] = (*CommandArgument[string])(nil)
	_ Candidate[string] = (*StaticDefault[string])(nil)
)

// EnvironmentVariable reads a value from an environment by name.
type EnvironmentVariable[T any] struct {
	base[T]
	env  source.Environment
	name string
}

// Env creates a variable backed by the process environment.
func Env[T any](name string, p Policy[T]) *EnvironmentVariable[T] {
	return EnvFrom(source.OS(), name, p)
}

// EnvFrom creates a variable backed by env. A nil env means the process
// environment.
func EnvFrom[T any](env source.Environment, name string, p Policy[T]) *EnvironmentVariable[T] {
	if env == nil {
		env = source.OS()
	}
	v := &EnvironmentVariable[T]{env: env, name: name}
	v.policy = p
	v.desc = "env:" + name
	v.lookup = func() (any, error) {
		s, ok := v.env.LookupEnv(v.name)
		if !ok {
			return nil, source.NotFound("env", v.name)
		}
		return s, nil
	}
	return v
}

// Name returns the environment variable name.
func (v *EnvironmentVariable[T]) Name() string { return v.name }

// ConfigFileVariable reads a value from a config store by section and key.
type ConfigFileVariable[T any] struct {
	base[T]
	store   source.ConfigStore
	section string
	name    string
}

// ConfigFile creates a variable backed by store. A nil store behaves like
// source.Empty().
func ConfigFile[T any](store source.ConfigStore, section, name string, p Policy[T]) *ConfigFileVariable[T] {
	if store == nil {
		store = source.Empty()
	}
	v := &ConfigFileVariable[T]{store: store, section: section, name: name}
	v.policy = p
	v.desc = "config:" + source.SectionKey(section, name)
	v.lookup = func() (any, error) {
		return v.store.Lookup(v.section, v.name)
	}
	return v
}

// Section returns the config section.
func (v *ConfigFileVariable[T]) Section() string { return v.section }

// Name returns the key within the section.
func (v *ConfigFileVariable[T]) Name() string { return v.name }

// CommandArgument reads a value from parsed command-line arguments.
type CommandArgument[T any] struct {
	base[T]
	args source.Namespace
	name string
}

// Argument creates a variable backed by args.
func Argument[T any](args source.Namespace, name string, p Policy[T]) *CommandArgument[T] {
	v := &CommandArgument[T]{args: args, name: name}
	v.policy = p
	v.desc = "arg:" + name
	v.lookup = func() (any, error) {
		if v.args == nil {
			return nil, source.NotFound("args", v.name)
		}
		raw, ok := v.args.Lookup(v.name)
		if !ok {
			return nil, source.NotFound("args", v.name)
		}
		return raw, nil
	}
	return v
}

// Name returns the argument name.
func (v *CommandArgument[T]) Name() string { return v.name }

// StaticDefault is a terminal fallback. It has no lookup and always counts
// as retrieved.
type StaticDefault[T any] struct {
	value T
}

// Static creates a StaticDefault holding value.
func Static[T any](value T) *StaticDefault[T] {
	return &StaticDefault[T]{value: value}
}

func (d *StaticDefault[T]) String() string { return "default" }

// Evaluate implements Candidate.
func (d *StaticDefault[T]) Evaluate() (Result[T], error) {
	return Result[T]{Value: d.value, Raw: d.value, Retrieved: true, Source: d.String()}, nil
}

// Retrieved implements Candidate. It is always true.
func (d *StaticDefault[T]) Retrieved() bool { return true }

// State implements Candidate.
func (d *StaticDefault[T]) State() State { return StateRetrieved }

// Value returns the held value.
func (d *StaticDefault[T]) Value() T { return d.value }
