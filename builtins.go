package sendable

import (
	"math"
	"math/big"
)

// builtinTable maps method names to prototype functions of one
// container kind.
type builtinTable map[string]Function

var (
	arrayBuiltins builtinTable
	mapBuiltins   builtinTable
	setBuiltins   builtinTable
	typedBuiltins builtinTable
	arrayStatics  builtinTable
)

func init() {
	arrayBuiltins = newArrayBuiltins()
	mapBuiltins = newMapBuiltins()
	setBuiltins = newSetBuiltins()
	typedBuiltins = newTypedArrayBuiltins()
	arrayStatics = newArrayStatics()
}

// Builtin returns the prototype method of a container kind. The
// returned Function checks its receiver and fails with ErrBind when
// called on anything but a container of that kind.
func Builtin(kind ContainerKind, method string) (Function, bool) {
	var t builtinTable
	switch kind {
	case KindArray:
		t = arrayBuiltins
	case KindMap:
		t = mapBuiltins
	case KindSet:
		t = setBuiltins
	case KindTypedArray:
		t = typedBuiltins
	}
	fn, ok := t[method]
	return fn, ok
}

// Invoke calls method on this with script calling conventions: missing
// arguments are undefined, numeric arguments are truncated to
// integers, and callbacks are Function values.
func Invoke(this Value, method string, args ...Value) (Value, error) {
	var kind ContainerKind
	switch this.(type) {
	case *Array:
		kind = KindArray
	case *Map:
		kind = KindMap
	case *Set:
		kind = KindSet
	case *TypedArray:
		kind = KindTypedArray
	default:
		return nil, newTypeErrorf("%s is not a sendable container", typeName(this))
	}
	fn, ok := Builtin(kind, method)
	if !ok {
		return nil, newTypeErrorf("%s.%s is not a function", kind, method)
	}
	return fn(this, args)
}

// Construct creates a new container of the given kind from script
// arguments.
func Construct(kind ContainerKind, args ...Value) (Value, error) {
	switch kind {
	case KindArray:
		return result(NewArray(args))
	case KindMap:
		return result(NewMap(arg(args, 0)))
	case KindSet:
		return result(NewSet(arg(args, 0)))
	}
	return nil, newTypeErrorf("unknown container kind %d", kind)
}

// InvokeStatic calls a static Array function: create, from, isArray or
// of.
func InvokeStatic(method string, args ...Value) (Value, error) {
	fn, ok := arrayStatics[method]
	if !ok {
		return nil, newTypeErrorf("%s.%s is not a function", KindArray, method)
	}
	return fn(nil, args)
}

func result[T any](v T, err error) (Value, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func intArg(args []Value, i int) int {
	return clampInt(toIntegerOrInfinity(arg(args, i)))
}

// rangeArgs reads optional start and end arguments at i and i+1.
func rangeArgs(args []Value, i int) []int {
	bounds := []int{intArg(args, i)}
	if end := arg(args, i+1); end != nil {
		bounds = append(bounds, intArg(args, i+1))
	}
	return bounds
}

// optionalIntArg returns the integer at i if it was passed.
func optionalIntArg(args []Value, i int) []int {
	if i < len(args) {
		return []int{intArg(args, i)}
	}
	return nil
}

// lengthArg validates an array length argument.
func lengthArg(v Value) (int, error) {
	f, ok := toNumber(v)
	if !ok || f != math.Trunc(f) || f < 0 || f > maxArrayLength {
		return 0, newParamError(msgInvalidLength)
	}
	return int(f), nil
}

func callableArg(args []Value, i int, what string) (Function, error) {
	switch fn := arg(args, i).(type) {
	case Function:
		if fn != nil {
			return fn, nil
		}
	case func(this Value, args []Value) (Value, error):
		if fn != nil {
			return fn, nil
		}
	}
	return nil, notCallable(what)
}

// toBoolean converts a callback result to a truth value.
func toBoolean(v Value) bool {
	if f, ok := toNumber(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	switch x := v.(type) {
	case nil, NullType:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case *big.Int:
		return x != nil && x.Sign() != 0
	}
	return true
}

func thisArray(this Value, method string) (*Array, error) {
	a, ok := this.(*Array)
	if !ok || a == nil {
		return nil, newBindError(method)
	}
	return a, nil
}

func thisMap(this Value, method string) (*Map, error) {
	m, ok := this.(*Map)
	if !ok || m == nil {
		return nil, newBindError(method)
	}
	return m, nil
}

func thisSet(this Value, method string) (*Set, error) {
	s, ok := this.(*Set)
	if !ok || s == nil {
		return nil, newBindError(method)
	}
	return s, nil
}

// predicate adapts a script callback to a typed predicate over
// receivers of type A.
func predicate[A any](fn Function, thisArg Value) func(Value, int, A) (bool, error) {
	return func(v Value, i int, a A) (bool, error) {
		r, err := fn(thisArg, []Value{v, i, a})
		if err != nil {
			return false, err
		}
		return toBoolean(r), nil
	}
}

// comparatorFrom adapts a script compare function; only the sign of
// its result counts.
func comparatorFrom(cb Function) Comparator {
	return func(x, y Value) (int, error) {
		r, err := cb(nil, []Value{x, y})
		if err != nil {
			return 0, err
		}
		f, _ := toNumber(r)
		switch {
		case f < 0:
			return -1, nil
		case f > 0:
			return 1, nil
		}
		return 0, nil
	}
}

// arrayMethod adapts a receiver-checked Array method.
func arrayMethod(name string, fn func(a *Array, args []Value) (Value, error)) Function {
	return func(this Value, args []Value) (Value, error) {
		a, err := thisArray(this, name)
		if err != nil {
			return nil, err
		}
		return fn(a, args)
	}
}

// arrayPredicateMethod adapts an Array method taking (callback, thisArg).
func arrayPredicateMethod(name, what string, fn func(a *Array, p Predicate) (Value, error)) Function {
	return arrayMethod(name, func(a *Array, args []Value) (Value, error) {
		cb, err := callableArg(args, 0, what)
		if err != nil {
			return nil, err
		}
		return fn(a, predicate[*Array](cb, arg(args, 1)))
	})
}

func newArrayBuiltins() builtinTable {
	reducer := func(cb Function) Reducer {
		return func(acc, v Value, i int, a *Array) (Value, error) {
			return cb(nil, []Value{acc, v, i, a})
		}
	}
	return builtinTable{
		"at": arrayMethod("at", func(a *Array, args []Value) (Value, error) {
			return a.At(intArg(args, 0))
		}),
		"concat": arrayMethod("concat", func(a *Array, args []Value) (Value, error) {
			return result(a.Concat(args...))
		}),
		"copyWithin": arrayMethod("copyWithin", func(a *Array, args []Value) (Value, error) {
			if arg(args, 0) == nil {
				return nil, newBindErrorf("Target index cannot be undefined.")
			}
			return result(a.CopyWithin(intArg(args, 0), rangeArgs(args, 1)...))
		}),
		"entries": arrayMethod("entries", func(a *Array, _ []Value) (Value, error) {
			return result(a.Entries())
		}),
		"every": arrayPredicateMethod("every", "callbackfun", func(a *Array, p Predicate) (Value, error) {
			return result(a.Every(p))
		}),
		"extendTo": arrayMethod("extendTo", func(a *Array, args []Value) (Value, error) {
			if len(args) < 2 {
				return nil, newParamError(msgNotEnoughParam)
			}
			n, err := lengthArg(args[0])
			if err != nil {
				return nil, err
			}
			return nil, a.ExtendTo(n, args[1])
		}),
		"fill": arrayMethod("fill", func(a *Array, args []Value) (Value, error) {
			return result(a.Fill(arg(args, 0), rangeArgs(args, 1)...))
		}),
		"filter": arrayPredicateMethod("filter", "callbackfun", func(a *Array, p Predicate) (Value, error) {
			return result(a.Filter(p))
		}),
		"find": arrayPredicateMethod("find", "predicate", func(a *Array, p Predicate) (Value, error) {
			return a.Find(p)
		}),
		"findIndex": arrayPredicateMethod("findIndex", "predicate", func(a *Array, p Predicate) (Value, error) {
			return result(a.FindIndex(p))
		}),
		"findLast": arrayPredicateMethod("findLast", "predicate", func(a *Array, p Predicate) (Value, error) {
			return a.FindLast(p)
		}),
		"findLastIndex": arrayPredicateMethod("findLastIndex", "predicate", func(a *Array, p Predicate) (Value, error) {
			return result(a.FindLastIndex(p))
		}),
		"forEach": arrayMethod("forEach", func(a *Array, args []Value) (Value, error) {
			cb, err := callableArg(args, 0, "callbackfun")
			if err != nil {
				return nil, err
			}
			thisArg := arg(args, 1)
			return nil, a.ForEach(func(v Value, i int, a *Array) error {
				_, err := cb(thisArg, []Value{v, i, a})
				return err
			})
		}),
		"includes": arrayMethod("includes", func(a *Array, args []Value) (Value, error) {
			return result(a.Includes(arg(args, 0), optionalIntArg(args, 1)...))
		}),
		"indexOf": arrayMethod("indexOf", func(a *Array, args []Value) (Value, error) {
			return result(a.IndexOf(arg(args, 0), optionalIntArg(args, 1)...))
		}),
		"join": arrayMethod("join", func(a *Array, args []Value) (Value, error) {
			if sep := arg(args, 0); sep != nil {
				return result(a.Join(toString(sep)))
			}
			return result(a.Join())
		}),
		"keys": arrayMethod("keys", func(a *Array, _ []Value) (Value, error) {
			return result(a.Keys())
		}),
		"lastIndexOf": arrayMethod("lastIndexOf", func(a *Array, args []Value) (Value, error) {
			return result(a.LastIndexOf(arg(args, 0), optionalIntArg(args, 1)...))
		}),
		"map": arrayMethod("map", func(a *Array, args []Value) (Value, error) {
			cb, err := callableArg(args, 0, "callbackfun")
			if err != nil {
				return nil, err
			}
			thisArg := arg(args, 1)
			return result(a.Map(func(v Value, i int, a *Array) (Value, error) {
				return cb(thisArg, []Value{v, i, a})
			}))
		}),
		"pop": arrayMethod("pop", func(a *Array, _ []Value) (Value, error) {
			return a.Pop()
		}),
		"push": arrayMethod("push", func(a *Array, args []Value) (Value, error) {
			return result(a.Push(args...))
		}),
		"reduce": arrayMethod("reduce", func(a *Array, args []Value) (Value, error) {
			cb, err := callableArg(args, 0, "callbackfun")
			if err != nil {
				return nil, err
			}
			return a.Reduce(reducer(cb), args[1:]...)
		}),
		"reduceRight": arrayMethod("reduceRight", func(a *Array, args []Value) (Value, error) {
			cb, err := callableArg(args, 0, "callbackfun")
			if err != nil {
				return nil, err
			}
			return a.ReduceRight(reducer(cb), args[1:]...)
		}),
		"reverse": arrayMethod("reverse", func(a *Array, _ []Value) (Value, error) {
			return result(a.Reverse())
		}),
		"shift": arrayMethod("shift", func(a *Array, _ []Value) (Value, error) {
			return a.Shift()
		}),
		"shrinkTo": arrayMethod("shrinkTo", func(a *Array, args []Value) (Value, error) {
			if len(args) != 1 {
				return nil, newParamError("Parameter error.Not enough parameter.")
			}
			n, err := lengthArg(args[0])
			if err != nil {
				return nil, err
			}
			return nil, a.ShrinkTo(n)
		}),
		"slice": arrayMethod("slice", func(a *Array, args []Value) (Value, error) {
			return result(a.Slice(rangeArgs(args, 0)...))
		}),
		"some": arrayPredicateMethod("some", "callbackfun", func(a *Array, p Predicate) (Value, error) {
			return result(a.Some(p))
		}),
		"sort": arrayMethod("sort", func(a *Array, args []Value) (Value, error) {
			var cmp Comparator
			if c := arg(args, 0); c != nil {
				cb, err := callableArg(args, 0, "comparefn")
				if err != nil {
					return nil, newTypeError("Callable is false")
				}
				cmp = comparatorFrom(cb)
			}
			return result(a.Sort(cmp))
		}),
		"splice": arrayMethod("splice", func(a *Array, args []Value) (Value, error) {
			switch len(args) {
			case 0:
				return result(a.Splice(0, 0))
			case 1:
				return result(a.Splice(intArg(args, 0), math.MaxInt))
			}
			return result(a.Splice(intArg(args, 0), intArg(args, 1), args[2:]...))
		}),
		"toLocaleString": arrayMethod("toLocaleString", func(a *Array, args []Value) (Value, error) {
			if locale, ok := arg(args, 0).(string); ok {
				return result(a.ToLocaleString(locale))
			}
			return result(a.ToLocaleString())
		}),
		"toString": arrayMethod("toString", func(a *Array, _ []Value) (Value, error) {
			return result(a.ToString())
		}),
		"unshift": arrayMethod("unshift", func(a *Array, args []Value) (Value, error) {
			return result(a.Unshift(args...))
		}),
		"values": arrayMethod("values", func(a *Array, _ []Value) (Value, error) {
			return result(a.Values())
		}),
	}
}

func newArrayStatics() builtinTable {
	return builtinTable{
		"create": func(_ Value, args []Value) (Value, error) {
			if len(args) < 2 {
				return nil, newParamError(msgNotEnoughParam)
			}
			n, err := lengthArg(args[0])
			if err != nil {
				return nil, err
			}
			return result(ArrayCreate(n, args[1]))
		},
		"from": func(_ Value, args []Value) (Value, error) {
			var mapFn MapFunc
			if len(args) > 1 && args[1] != nil {
				cb, err := callableArg(args, 1, "mapfn")
				if err != nil {
					return nil, err
				}
				thisArg := arg(args, 2)
				mapFn = func(v Value, i int) (Value, error) {
					return cb(thisArg, []Value{v, i})
				}
			}
			return result(ArrayFrom(arg(args, 0), mapFn))
		},
		"isArray": func(_ Value, args []Value) (Value, error) {
			return IsArray(arg(args, 0)), nil
		},
		"of": func(_ Value, args []Value) (Value, error) {
			return result(ArrayOf(args...))
		},
	}
}

func newMapBuiltins() builtinTable {
	method := func(name string, fn func(m *Map, args []Value) (Value, error)) Function {
		return func(this Value, args []Value) (Value, error) {
			m, err := thisMap(this, name)
			if err != nil {
				return nil, err
			}
			return fn(m, args)
		}
	}
	return builtinTable{
		"clear": method("clear", func(m *Map, _ []Value) (Value, error) {
			return nil, m.Clear()
		}),
		"delete": method("delete", func(m *Map, args []Value) (Value, error) {
			return result(m.Delete(arg(args, 0)))
		}),
		"entries": method("entries", func(m *Map, _ []Value) (Value, error) {
			return result(m.Entries())
		}),
		"forEach": method("forEach", func(m *Map, args []Value) (Value, error) {
			cb, err := callableArg(args, 0, "callbackfn")
			if err != nil {
				return nil, err
			}
			thisArg := arg(args, 1)
			return nil, m.ForEach(func(value, key Value, m *Map) error {
				_, err := cb(thisArg, []Value{value, key, m})
				return err
			})
		}),
		"get": method("get", func(m *Map, args []Value) (Value, error) {
			return m.Get(arg(args, 0))
		}),
		"has": method("has", func(m *Map, args []Value) (Value, error) {
			return result(m.Has(arg(args, 0)))
		}),
		"keys": method("keys", func(m *Map, _ []Value) (Value, error) {
			return result(m.Keys())
		}),
		"set": method("set", func(m *Map, args []Value) (Value, error) {
			return result(m.Set(arg(args, 0), arg(args, 1)))
		}),
		"size": method("size", func(m *Map, _ []Value) (Value, error) {
			return result(m.Size())
		}),
		"values": method("values", func(m *Map, _ []Value) (Value, error) {
			return result(m.Values())
		}),
	}
}

func newSetBuiltins() builtinTable {
	method := func(name string, fn func(s *Set, args []Value) (Value, error)) Function {
		return func(this Value, args []Value) (Value, error) {
			s, err := thisSet(this, name)
			if err != nil {
				return nil, err
			}
			return fn(s, args)
		}
	}
	return builtinTable{
		"add": method("add", func(s *Set, args []Value) (Value, error) {
			return result(s.Add(arg(args, 0)))
		}),
		"clear": method("clear", func(s *Set, _ []Value) (Value, error) {
			return nil, s.Clear()
		}),
		"delete": method("delete", func(s *Set, args []Value) (Value, error) {
			return result(s.Delete(arg(args, 0)))
		}),
		"entries": method("entries", func(s *Set, _ []Value) (Value, error) {
			return result(s.Entries())
		}),
		"forEach": method("forEach", func(s *Set, args []Value) (Value, error) {
			cb, err := callableArg(args, 0, "callbackfn")
			if err != nil {
				return nil, err
			}
			thisArg := arg(args, 1)
			return nil, s.ForEach(func(value, value2 Value, s *Set) error {
				_, err := cb(thisArg, []Value{value, value2, s})
				return err
			})
		}),
		"has": method("has", func(s *Set, args []Value) (Value, error) {
			return result(s.Has(arg(args, 0)))
		}),
		"keys": method("keys", func(s *Set, _ []Value) (Value, error) {
			return result(s.Keys())
		}),
		"size": method("size", func(s *Set, _ []Value) (Value, error) {
			return result(s.Size())
		}),
		"values": method("values", func(s *Set, _ []Value) (Value, error) {
			return result(s.Values())
		}),
	}
}
