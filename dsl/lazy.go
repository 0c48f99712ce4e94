package dsl

import (
	"bytes"
	"reflect"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/value"
)

// LazySchema defers obtaining a schema until first use, which lets a field refer
// to the schema that owns it, or to one declared later.
//
// The resolver runs exactly once, on first use; concurrent first users wait for
// it. It must return a schema that is already built at that moment (typically a
// package or closure variable assigned from MustBuild). A resolver that forces
// its own LazySchema sees it unresolved, and a resolver returning nil or the
// LazySchema itself leaves the reference permanently unresolved: every use then
// fails with CodeUnresolvedRef.
type LazySchema[T any] struct {
	mu    sync.Mutex
	done  atomic.Bool
	owner atomic.Uint64 // goroutine running the resolver
	fn    func() bsonskema.Schema[T]
	s     bsonskema.Schema[T]
}

// Lazy wraps fn into a lazily resolved schema reference.
func Lazy[T any](fn func() bsonskema.Schema[T]) *LazySchema[T] { return &LazySchema[T]{fn: fn} }

// Get forces the reference and returns the schema, or nil when unresolved.
func (l *LazySchema[T]) Get() bsonskema.Schema[T] {
	if l.done.Load() {
		return l.s
	}
	gid := goroutineID()
	if gid != 0 && l.owner.Load() == gid {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done.Load() {
		return l.s
	}
	l.owner.Store(gid)
	defer func() {
		l.fn = nil
		l.owner.Store(0)
		l.done.Store(true)
	}()
	if l.fn != nil {
		if s := l.fn(); !isNilSchema(s) && any(s) != any(l) {
			l.s = s
		}
	}
	return l.s
}

// goroutineID reads the current goroutine's id from its stack header
// ("goroutine 18 [running]:"), or 0 if it cannot be parsed.
func goroutineID() uint64 {
	var buf [64]byte
	f := bytes.Fields(buf[:runtime.Stack(buf[:], false)])
	if len(f) < 2 {
		return 0
	}
	id, _ := strconv.ParseUint(string(f[1]), 10, 64)
	return id
}

func (l *LazySchema[T]) CanDecode(v value.Value) bool { return indirectCanDecode(l.Get(), v) }
func (l *LazySchema[T]) Decode(v value.Value) (T, error) { return indirectDecode(l.Get(), v) }
func (l *LazySchema[T]) Encode(v T) (value.Value, error) { return indirectEncode(l.Get(), v) }

func (l *LazySchema[T]) ObtainOptions(m bsonskema.AnyModel, root any, pathname string, instance T) []bsonskema.OptionData {
	if s := l.Get(); s != nil {
		return elementOptions(s, m, root, pathname, instance)
	}
	return nil
}

func (l *LazySchema[T]) ObtainStaticOptions(m bsonskema.AnyModel, pathname string, visited *bsonskema.Visited) []bsonskema.OptionData {
	if s := l.Get(); s != nil {
		return elementStaticOptions(s, m, pathname, visited)
	}
	return nil
}

// RefSchema is a schema cell assigned once with Set, typically by a registry
// that builds mutually recursive schemas by name.
type RefSchema[T any] struct {
	name string
	s    atomic.Pointer[bsonskema.Schema[T]]
}

// Ref returns an empty cell. name appears in unresolved-reference issues.
func Ref[T any](name string) *RefSchema[T] { return &RefSchema[T]{name: name} }

// Set assigns the target schema. Assigning a second, different schema panics
// with a *bsonskema.ConfigError.
func (r *RefSchema[T]) Set(s bsonskema.Schema[T]) {
	if isNilSchema(s) {
		panic(&bsonskema.ConfigError{Builder: "ref " + quote(r.name), Field: "target", Reason: "must not be nil"})
	}
	if !r.s.CompareAndSwap(nil, &s) {
		if cur := r.s.Load(); cur != nil && *cur == s {
			return
		}
		panic(&bsonskema.ConfigError{Builder: "ref " + quote(r.name), Field: "target", Reason: "is already set"})
	}
}

// Get returns the target schema, or nil before Set.
func (r *RefSchema[T]) Get() bsonskema.Schema[T] {
	if p := r.s.Load(); p != nil {
		return *p
	}
	return nil
}

// Name returns the reference name.
func (r *RefSchema[T]) Name() string { return r.name }

func (r *RefSchema[T]) CanDecode(v value.Value) bool { return indirectCanDecode(r.Get(), v) }
func (r *RefSchema[T]) Decode(v value.Value) (T, error) { return indirectDecode(r.Get(), v) }
func (r *RefSchema[T]) Encode(v T) (value.Value, error) { return indirectEncode(r.Get(), v) }

func (r *RefSchema[T]) ObtainOptions(m bsonskema.AnyModel, root any, pathname string, instance T) []bsonskema.OptionData {
	if s := r.Get(); s != nil {
		return elementOptions(s, m, root, pathname, instance)
	}
	return nil
}

func (r *RefSchema[T]) ObtainStaticOptions(m bsonskema.AnyModel, pathname string, visited *bsonskema.Visited) []bsonskema.OptionData {
	if s := r.Get(); s != nil {
		return elementStaticOptions(s, m, pathname, visited)
	}
	return nil
}

var (
	_ bsonskema.ElementSchema[string] = (*LazySchema[string])(nil)
	_ bsonskema.ElementSchema[string] = (*RefSchema[string])(nil)
)

func unresolved() bsonskema.Issues {
	return bsonskema.NewIssue(bsonskema.CodeUnresolvedRef, "", bsonskema.ErrUnresolvedRef)
}

func indirectCanDecode[T any](s bsonskema.Schema[T], v value.Value) bool {
	return s != nil && s.CanDecode(v)
}

func indirectDecode[T any](s bsonskema.Schema[T], v value.Value) (T, error) {
	if s == nil {
		var zero T
		return zero, unresolved()
	}
	return s.Decode(v)
}

func indirectEncode[T any](s bsonskema.Schema[T], v T) (value.Value, error) {
	if s == nil {
		return nil, unresolved()
	}
	return s.Encode(v)
}

// isNilSchema also catches typed nil pointers stored in the interface.
func isNilSchema[T any](s bsonskema.Schema[T]) bool {
	if s == nil {
		return true
	}
	rv := reflect.ValueOf(s)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}
