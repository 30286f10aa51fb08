package source

import "os"

var (
	_ Environment = osEnv{}
	_ Environment = Env(nil)
	_ Environment = prefixed{}
)

type osEnv struct{}

func (osEnv) LookupEnv(name string) (string, bool) { return os.LookupEnv(name) }

// OS returns the process environment.
func OS() Environment { return osEnv{} }

// Env is an in-memory environment, mostly useful in tests.
type Env map[string]string

// LookupEnv implements Environment.
func (e Env) LookupEnv(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

type prefixed struct {
	env    Environment
	prefix string
}

func (p prefixed) LookupEnv(name string) (string, bool) {
	return p.env.LookupEnv(p.prefix + name)
}

// Prefixed namespaces every lookup under prefix, so that
// Prefixed(OS(), "APP_").LookupEnv("PORT") reads APP_PORT.
func Prefixed(env Environment, prefix string) Environment {
	if env == nil {
		env = OS()
	}
	return prefixed{env: env, prefix: prefix}
}
