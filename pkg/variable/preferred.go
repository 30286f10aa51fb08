package variable

import (
	"fmt"

	"github.com/lc/prefer/internal/log"
)

// Preferred resolves a value from an ordered list of candidates.
type Preferred[T any] struct {
	candidates []Candidate[T]
}

// NewPreferred creates a resolver over candidates, highest preference
// first. The list is usually terminated by a StaticDefault.
func NewPreferred[T any](candidates ...Candidate[T]) *Preferred[T] {
	return &Preferred[T]{candidates: append([]Candidate[T](nil), candidates...)}
}

// Candidates returns a copy of the candidate list.
func (p *Preferred[T]) Candidates() []Candidate[T] {
	return append([]Candidate[T](nil), p.candidates...)
}

// Resolve returns the result of the first retrieved candidate.
//
// A fatal error from any candidate stops resolution and is returned
// wrapped; errors.As still reaches the *MandatoryMissingError or
// *CoercionError. If no candidate is retrieved the first candidate is
// evaluated again and its result returned.
func (p *Preferred[T]) Resolve() (Result[T], error) {
	if len(p.candidates) == 0 {
		return Result[T]{}, ErrNoCandidates
	}

	for _, c := range p.candidates {
		res, err := c.Evaluate()
		if err != nil {
			return Result[T]{}, fmt.Errorf("resolving %s: %w", c, err)
		}
		if c.Retrieved() {
			log.Debug("variable: resolved", "source", c.String(), "value", res.Interface())
			return res, nil
		}
	}

	first := p.candidates[0]
	log.Debug("variable: nothing retrieved, using first candidate default", "source", first.String())
	res, err := first.Evaluate()
	if err != nil {
		return Result[T]{}, fmt.Errorf("resolving %s: %w", first, err)
	}
	return res, nil
}

// Value resolves and returns only the value.
func (p *Preferred[T]) Value() (T, error) {
	res, err := p.Resolve()
	return res.Value, err
}

// MustValue is like Value but panics on error.
func (p *Preferred[T]) MustValue() T {
	v, err := p.Value()
	if err != nil {
		panic(err)
	}
	return v
}
