package cacheaside

import "reflect"

// Shape is the declared result shape of a loader.
type Shape uint8

const (
	// Scalar is one value per key.
	Scalar Shape = iota
	// List is one slice of values per key.
	List
	// KeyedScalarMap maps each requested id to one value.
	KeyedScalarMap
	// KeyedListMap maps each requested id to a slice of values.
	KeyedListMap
)

func (s Shape) String() string {
	switch s {
	case Scalar:
		return "scalar"
	case List:
		return "list"
	case KeyedScalarMap:
		return "keyed_scalar_map"
	case KeyedListMap:
		return "keyed_list_map"
	default:
		return "unknown"
	}
}

func (s Shape) keyed() bool { return s == KeyedScalarMap || s == KeyedListMap }

type route uint8

const (
	routeSkip route = iota // nil primary argument: zero result, no cache, no loader
	routeScalar
	routeList
	routeBatch
)

// dispatch picks the resolver for one call. Precedence: argument count,
// nil primary, sequence primary (batch), declared list, scalar.
func dispatch(args []any, declared Shape) (route, error) {
	if len(args) == 0 {
		return routeSkip, &PreconditionError{Op: "dispatch", Err: ErrNoArgs}
	}
	if len(args) > 2 {
		return routeSkip, &PreconditionError{Op: "dispatch", Err: ErrTooManyArgs}
	}
	primary := args[0]
	if isNil(primary) {
		return routeSkip, nil
	}

	if isSequence(reflect.TypeOf(primary)) {
		if len(args) == 2 && isCollection(reflect.TypeOf(args[1])) {
			return routeSkip, &PreconditionError{Op: "dispatch", Err: ErrAmbiguousArg}
		}
		if !declared.keyed() {
			return routeSkip, &PreconditionError{Op: "dispatch", Err: ErrShapeMismatch}
		}
		return routeBatch, nil
	}

	switch {
	case declared.keyed():
		return routeSkip, &PreconditionError{Op: "dispatch", Err: ErrShapeMismatch}
	case declared == List:
		return routeList, nil
	default:
		return routeScalar, nil
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func isSequence(t reflect.Type) bool {
	if t == nil {
		return false
	}
	k := t.Kind()
	return k == reflect.Slice || k == reflect.Array
}

func isCollection(t reflect.Type) bool {
	return isSequence(t) || (t != nil && t.Kind() == reflect.Map)
}
