package variable

import (
	"fmt"

	"go.uber.org/atomic"

	"github.com/lc/prefer/internal/log"
)

// State records the outcome of a variable's last evaluation.
type State int32

const (
	// StateUnset means the variable has never been evaluated.
	StateUnset State = iota
	// StateRetrieved means the last lookup found a value.
	StateRetrieved
	// StateFallback means the last lookup failed.
	StateFallback
)

func (s State) String() string {
	switch s {
	case StateRetrieved:
		return "retrieved"
	case StateFallback:
		return "fallback"
	default:
		return "unset"
	}
}

// Converter turns a raw source value into T.
type Converter[T any] func(raw any) (T, error)

// Policy controls how a variable treats missing and malformed values.
type Policy[T any] struct {
	Default   T            // returned when a non-mandatory lookup fails
	Convert   Converter[T] // nil passes raw values of type T through
	Mandatory bool         // missing value is fatal
	Strict    bool         // conversion failure is fatal
}

// Result is the outcome of evaluating a candidate.
type Result[T any] struct {
	Value     T      // converted value, or the default on fallback
	Raw       any    // value as found in the source, nil on fallback
	Retrieved bool   // the lookup succeeded
	Degraded  bool   // conversion failed and Raw was kept
	Source    string // candidate that produced this result
}

// Interface returns the resolved value: Raw when conversion failed
// non-strictly, Value otherwise.
func (r Result[T]) Interface() any {
	if r.Degraded {
		return r.Raw
	}
	return r.Value
}

// Candidate is anything a Preferred resolver can evaluate.
type Candidate[T any] interface {
	fmt.Stringer
	// Evaluate looks the value up and applies the candidate's policy.
	Evaluate() (Result[T], error)
	// Retrieved reports whether the last evaluation found a value.
	Retrieved() bool
	// State returns the outcome of the last evaluation.
	State() State
}

// base implements the evaluation shared by all variables. Each variant
// supplies the lookup and a description.
type base[T any] struct {
	policy Policy[T]
	desc   string
	lookup func() (any, error)
	state  atomic.Int32
}

func (b *base[T]) String() string { return b.desc }

// State implements Candidate.
func (b *base[T]) State() State { return State(b.state.Load()) }

// Retrieved implements Candidate.
func (b *base[T]) Retrieved() bool { return b.State() == StateRetrieved }

// Evaluate implements Candidate.
func (b *base[T]) Evaluate() (Result[T], error) {
	res := Result[T]{Source: b.desc}

	raw, err := b.lookup()
	if err != nil {
		b.state.Store(int32(StateFallback))
		if b.policy.Mandatory {
			return res, &MandatoryMissingError{Variable: b.desc, Err: err}
		}
		res.Value = b.policy.Default
		return res, nil
	}

	b.state.Store(int32(StateRetrieved))
	res.Raw = raw
	res.Retrieved = true

	val, err := b.convert(raw)
	if err == nil {
		res.Value = val
		return res, nil
	}
	if b.policy.Strict {
		return res, &CoercionError{Variable: b.desc, Raw: raw, Target: typeName[T](), Err: err}
	}

	log.Debug("variable: keeping unconverted value", "variable", b.desc, "target", typeName[T](), "error", err)
	res.Degraded = true
	if same, ok := raw.(T); ok {
		res.Value = same
	} else {
		res.Value = b.policy.Default
	}
	return res, nil
}

func (b *base[T]) convert(raw any) (T, error) {
	if b.policy.Convert != nil {
		return b.policy.Convert(raw)
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("value is %T", raw)
}

func typeName[T any]() string {
	var zero T
	if s := fmt.Sprintf("%T", zero); s != "<nil>" {
		return s
	}
	return fmt.Sprintf("%T", (*T)(nil))[1:]
}
