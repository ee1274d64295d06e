package memsize

import (
	"reflect"

	"github.com/sirupsen/logrus"
)

// Handler extracts the elements of a custom container type so the estimator
// can recurse into them. The shallow size of the container itself is always
// counted; the handler only supplies what lies behind it.
type Handler func(v reflect.Value) []reflect.Value

// Estimator approximates the transitive memory footprint of a value graph.
// The result is a heuristic for cache eviction, not an accounting of real
// allocator behavior: headers are counted at their type size, shared memory
// is counted once, and unknown composites contribute only their shallow size.
type Estimator struct {
	handlers map[reflect.Type]Handler
	verbose  bool
}

// New returns an estimator with no custom handlers registered.
func New() *Estimator {
	return &Estimator{handlers: make(map[reflect.Type]Handler)}
}

// RegisterHandler installs an element extractor for a concrete container
// type, overriding the default traversal for values of that type.
func (e *Estimator) RegisterHandler(t reflect.Type, h Handler) {
	e.handlers[t] = h
}

// SetVerbose enables per-value debug output while estimating.
func (e *Estimator) SetVerbose(verbose bool) {
	e.verbose = verbose
}

// Estimate returns the approximate byte footprint of v and everything
// reachable from it. It never fails; unestimable branches contribute their
// shallow size only.
func (e *Estimator) Estimate(v any) int64 {
	if v == nil {
		return 0
	}
	seen := make(map[visit]struct{})
	return e.sizeof(reflect.ValueOf(v), seen)
}

// visit identifies an already-counted object by address and type. The type
// disambiguates a struct from its first field, which share an address.
type visit struct {
	addr uintptr
	typ  reflect.Type
}

func (e *Estimator) sizeof(v reflect.Value, seen map[visit]struct{}) int64 {
	if !v.IsValid() {
		return 0
	}

	// Count shared and cyclic references once.
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if !v.IsNil() {
			id := visit{addr: v.Pointer(), typ: v.Type()}
			if _, ok := seen[id]; ok {
				return 0
			}
			seen[id] = struct{}{}
		}
	}

	shallow := int64(v.Type().Size())
	if e.verbose {
		logrus.WithFields(logrus.Fields{
			"type": v.Type().String(),
			"size": shallow,
		}).Debug("memsize: visiting")
	}

	if h, ok := e.handlers[v.Type()]; ok {
		return shallow + e.applyHandler(h, v, seen)
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return shallow
		}
		return shallow + e.sizeof(v.Elem(), seen)

	case reflect.String:
		return shallow + int64(v.Len())

	case reflect.Slice:
		if v.IsNil() {
			return shallow
		}
		elem := v.Type().Elem()
		if isShallowType(elem) {
			// The whole backing array, including unused capacity.
			return shallow + int64(v.Cap())*int64(elem.Size())
		}
		total := shallow + int64(v.Cap()-v.Len())*int64(elem.Size())
		for i := 0; i < v.Len(); i++ {
			total += e.sizeof(v.Index(i), seen)
		}
		return total

	case reflect.Array:
		if isShallowType(v.Type()) {
			return shallow
		}
		// Element storage is part of the shallow size; only add what the
		// elements point at.
		total := shallow
		for i := 0; i < v.Len(); i++ {
			total += e.indirect(v.Index(i), seen)
		}
		return total

	case reflect.Map:
		if v.IsNil() {
			return shallow
		}
		total := shallow
		iter := v.MapRange()
		for iter.Next() {
			total += e.sizeof(iter.Key(), seen)
			total += e.sizeof(iter.Value(), seen)
		}
		return total

	case reflect.Struct:
		// Field storage is part of the shallow size; only reference-bearing
		// fields contribute anything further.
		total := shallow
		for i := 0; i < v.NumField(); i++ {
			total += e.indirect(v.Field(i), seen)
		}
		return total

	default:
		return shallow
	}
}

// indirect counts only the memory a value points at, not its own inline
// storage, which the caller has already counted.
func (e *Estimator) indirect(v reflect.Value, seen map[visit]struct{}) int64 {
	if !v.IsValid() || isShallowType(v.Type()) {
		return 0
	}
	return e.sizeof(v, seen) - int64(v.Type().Size())
}

// applyHandler runs a registered extractor and sums its elements. A handler
// that panics on a particular instance costs that branch its deep estimate
// only; estimation itself never fails.
func (e *Estimator) applyHandler(h Handler, v reflect.Value, seen map[visit]struct{}) (total int64) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"type":  v.Type().String(),
				"panic": r,
			}).Warn("memsize: handler failed, counting shallow size only")
			total = 0
		}
	}()
	for _, elem := range h(v) {
		total += e.sizeof(elem, seen)
	}
	return total
}

// isShallowType reports whether a type holds no references, so a block of
// such values can be sized by multiplication instead of element recursion.
func isShallowType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return isShallowType(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isShallowType(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
