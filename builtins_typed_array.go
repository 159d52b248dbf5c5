package sendable

// ConstructTypedArray creates a typed array from script arguments. No
// argument gives an empty array. A number is truncated and gives a
// zero-filled array of that length. Anything else is copied as by
// TypedArrayFrom.
func ConstructTypedArray(typ ElementType, args ...Value) (Value, error) {
	src := arg(args, 0)
	if src == nil {
		return result(NewTypedArray(typ, 0))
	}
	if _, ok := toNumber(src); ok {
		return result(NewTypedArray(typ, clampInt(toIntegerOrInfinity(src))))
	}
	return result(TypedArrayFrom(typ, src, nil))
}

// InvokeTypedStatic calls a static function of the typed array
// constructor for typ: from or of.
func InvokeTypedStatic(typ ElementType, method string, args ...Value) (Value, error) {
	switch method {
	case "from":
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
		return result(TypedArrayFrom(typ, arg(args, 0), mapFn))
	case "of":
		return result(TypedArrayOf(typ, args...))
	}
	return nil, newTypeErrorf("%s.%s is not a function", typ, method)
}

func thisTypedArray(this Value, method string) (*TypedArray, error) {
	ta, ok := this.(*TypedArray)
	if !ok || ta == nil {
		return nil, newBindError(method)
	}
	return ta, nil
}

func typedMethod(name string, fn func(ta *TypedArray, args []Value) (Value, error)) Function {
	return func(this Value, args []Value) (Value, error) {
		ta, err := thisTypedArray(this, name)
		if err != nil {
			return nil, err
		}
		return fn(ta, args)
	}
}

func typedPredicateMethod(name, what string, fn func(ta *TypedArray, p TypedPredicate) (Value, error)) Function {
	return typedMethod(name, func(ta *TypedArray, args []Value) (Value, error) {
		cb, err := callableArg(args, 0, what)
		if err != nil {
			return nil, err
		}
		return fn(ta, predicate[*TypedArray](cb, arg(args, 1)))
	})
}

func newTypedArrayBuiltins() builtinTable {
	reducer := func(cb Function) TypedReducer {
		return func(acc, v Value, i int, ta *TypedArray) (Value, error) {
			return cb(nil, []Value{acc, v, i, ta})
		}
	}
	return builtinTable{
		"at": typedMethod("at", func(ta *TypedArray, args []Value) (Value, error) {
			return ta.At(intArg(args, 0))
		}),
		"byteLength": typedMethod("byteLength", func(ta *TypedArray, _ []Value) (Value, error) {
			return result(ta.ByteLength())
		}),
		"byteOffset": typedMethod("byteOffset", func(ta *TypedArray, _ []Value) (Value, error) {
			return result(ta.ByteOffset())
		}),
		"copyWithin": typedMethod("copyWithin", func(ta *TypedArray, args []Value) (Value, error) {
			return result(ta.CopyWithin(intArg(args, 0), rangeArgs(args, 1)...))
		}),
		"entries": typedMethod("entries", func(ta *TypedArray, _ []Value) (Value, error) {
			return result(ta.Entries())
		}),
		"every": typedPredicateMethod("every", "callbackfun", func(ta *TypedArray, p TypedPredicate) (Value, error) {
			return result(ta.Every(p))
		}),
		"fill": typedMethod("fill", func(ta *TypedArray, args []Value) (Value, error) {
			return result(ta.Fill(arg(args, 0), rangeArgs(args, 1)...))
		}),
		"filter": typedPredicateMethod("filter", "callbackfun", func(ta *TypedArray, p TypedPredicate) (Value, error) {
			return result(ta.Filter(p))
		}),
		"find": typedPredicateMethod("find", "predicate", func(ta *TypedArray, p TypedPredicate) (Value, error) {
			return ta.Find(p)
		}),
		"findIndex": typedPredicateMethod("findIndex", "predicate", func(ta *TypedArray, p TypedPredicate) (Value, error) {
			return result(ta.FindIndex(p))
		}),
		"forEach": typedMethod("forEach", func(ta *TypedArray, args []Value) (Value, error) {
			cb, err := callableArg(args, 0, "callbackfun")
			if err != nil {
				return nil, err
			}
			thisArg := arg(args, 1)
			return nil, ta.ForEach(func(v Value, i int, ta *TypedArray) error {
				_, err := cb(thisArg, []Value{v, i, ta})
				return err
			})
		}),
		"includes": typedMethod("includes", func(ta *TypedArray, args []Value) (Value, error) {
			return result(ta.Includes(arg(args, 0), optionalIntArg(args, 1)...))
		}),
		"indexOf": typedMethod("indexOf", func(ta *TypedArray, args []Value) (Value, error) {
			return result(ta.IndexOf(arg(args, 0), optionalIntArg(args, 1)...))
		}),
		"join": typedMethod("join", func(ta *TypedArray, args []Value) (Value, error) {
			if sep := arg(args, 0); sep != nil {
				return result(ta.Join(toString(sep)))
			}
			return result(ta.Join())
		}),
		"keys": typedMethod("keys", func(ta *TypedArray, _ []Value) (Value, error) {
			return result(ta.Keys())
		}),
		"lastIndexOf": typedMethod("lastIndexOf", func(ta *TypedArray, args []Value) (Value, error) {
			return result(ta.LastIndexOf(arg(args, 0), optionalIntArg(args, 1)...))
		}),
		"length": typedMethod("length", func(ta *TypedArray, _ []Value) (Value, error) {
			return result(ta.Length())
		}),
		"map": typedMethod("map", func(ta *TypedArray, args []Value) (Value, error) {
			cb, err := callableArg(args, 0, "callbackfun")
			if err != nil {
				return nil, err
			}
			thisArg := arg(args, 1)
			return result(ta.Map(func(v Value, i int, ta *TypedArray) (Value, error) {
				return cb(thisArg, []Value{v, i, ta})
			}))
		}),
		"reduce": typedMethod("reduce", func(ta *TypedArray, args []Value) (Value, error) {
			cb, err := callableArg(args, 0, "callbackfun")
			if err != nil {
				return nil, err
			}
			return ta.Reduce(reducer(cb), args[1:]...)
		}),
		"reduceRight": typedMethod("reduceRight", func(ta *TypedArray, args []Value) (Value, error) {
			cb, err := callableArg(args, 0, "callbackfun")
			if err != nil {
				return nil, err
			}
			return ta.ReduceRight(reducer(cb), args[1:]...)
		}),
		"reverse": typedMethod("reverse", func(ta *TypedArray, _ []Value) (Value, error) {
			return result(ta.Reverse())
		}),
		"set": typedMethod("set", func(ta *TypedArray, args []Value) (Value, error) {
			return nil, ta.Set(arg(args, 0), optionalIntArg(args, 1)...)
		}),
		"slice": typedMethod("slice", func(ta *TypedArray, args []Value) (Value, error) {
			return result(ta.Slice(rangeArgs(args, 0)...))
		}),
		"some": typedPredicateMethod("some", "callbackfun", func(ta *TypedArray, p TypedPredicate) (Value, error) {
			return result(ta.Some(p))
		}),
		"sort": typedMethod("sort", func(ta *TypedArray, args []Value) (Value, error) {
			var cmp Comparator
			if arg(args, 0) != nil {
				cb, err := callableArg(args, 0, "comparefn")
				if err != nil {
					return nil, newTypeError("Callable is false")
				}
				cmp = comparatorFrom(cb)
			}
			return result(ta.Sort(cmp))
		}),
		"subarray": typedMethod("subarray", func(ta *TypedArray, args []Value) (Value, error) {
			return result(ta.Subarray(rangeArgs(args, 0)...))
		}),
		"toLocaleString": typedMethod("toLocaleString", func(ta *TypedArray, args []Value) (Value, error) {
			if locale, ok := arg(args, 0).(string); ok {
				return result(ta.ToLocaleString(locale))
			}
			return result(ta.ToLocaleString())
		}),
		"toString": typedMethod("toString", func(ta *TypedArray, _ []Value) (Value, error) {
			return result(ta.ToString())
		}),
		"values": typedMethod("values", func(ta *TypedArray, _ []Value) (Value, error) {
			return result(ta.Values())
		}),
	}
}
