package cacheaside

import (
	"errors"
	"fmt"
)

// Precondition sentinels. They reach callers wrapped in a *PreconditionError.
var (
	ErrNoArgs        = errors.New("call has no arguments")
	ErrTooManyArgs   = errors.New("more than two arguments")
	ErrAmbiguousArg  = errors.New("secondary argument must not be a list or map")
	ErrShapeMismatch = errors.New("arguments do not match the declared shape")
	ErrNegativeTTL   = errors.New("negative ttl")
)

// PreconditionError reports a call or policy the engine refuses to run.
// It is returned synchronously and never retried.
type PreconditionError struct {
	Op  string
	Err error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cacheaside: %s: %v", e.Op, e.Err)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

// FormatError reports a key template whose verb count does not match the
// number of arguments it is rendered with.
type FormatError struct {
	Template string
	Verbs    int
	Args     int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cacheaside: key template %q has %d verb(s), got %d argument(s)",
		e.Template, e.Verbs, e.Args)
}

// StoreError describes a failed tier operation. It is never returned from a
// wrapped call; it is logged, passed to Hooks and carried by Lookup.Err.
type StoreError struct {
	Tier string // "local" or "remote"
	Op   string // "get", "set", "del"
	Keys int
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cacheaside: %s %s (%d keys): %v", e.Tier, e.Op, e.Keys, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
