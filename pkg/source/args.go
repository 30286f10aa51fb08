package source

import "github.com/spf13/pflag"

var (
	_ Namespace = Args(nil)
	_ Namespace = (*FlagNamespace)(nil)
)

// Args is an in-memory argument namespace.
type Args map[string]any

// Lookup implements Namespace.
func (a Args) Lookup(name string) (any, bool) {
	v, ok := a[name]
	return v, ok
}

// FlagNamespace exposes a pflag flag set as a Namespace.
type FlagNamespace struct {
	fs *pflag.FlagSet
}

// Flags wraps fs. A flag is present only when it is defined and was set on
// the command line; its default value never counts as supplied.
func Flags(fs *pflag.FlagSet) *FlagNamespace {
	return &FlagNamespace{fs: fs}
}

// Lookup implements Namespace. Slice flags yield []string, all others the
// flag value's string form.
func (n *FlagNamespace) Lookup(name string) (any, bool) {
	if n.fs == nil {
		return nil, false
	}
	f := n.fs.Lookup(name)
	if f == nil || !f.Changed {
		return nil, false
	}
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		return sv.GetSlice(), true
	}
	return f.Value.String(), true
}
