package sendable

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"
)

// ElementType is the element type of a TypedArray.
type ElementType uint8

const (
	Int8 ElementType = iota
	Uint8
	Uint8Clamped
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
	BigInt64
	BigUint64
	numElementTypes
)

var elementTypeNames = [numElementTypes]string{
	Int8:         "Int8Array",
	Uint8:        "Uint8Array",
	Uint8Clamped: "Uint8ClampedArray",
	Int16:        "Int16Array",
	Uint16:       "Uint16Array",
	Int32:        "Int32Array",
	Uint32:       "Uint32Array",
	Float32:      "Float32Array",
	Float64:      "Float64Array",
	BigInt64:     "BigInt64Array",
	BigUint64:    "BigUint64Array",
}

func (t ElementType) String() string {
	if t.valid() {
		return elementTypeNames[t]
	}
	return "unknown"
}

func (t ElementType) valid() bool {
	return t < numElementTypes
}

// Size returns the size of one element in bytes.
func (t ElementType) Size() int {
	switch t {
	case Int8, Uint8, Uint8Clamped:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	}
	return 8
}

func (t ElementType) isBigInt() bool {
	return t == BigInt64 || t == BigUint64
}

var uint64Mask = new(big.Int).SetUint64(math.MaxUint64)

// encode converts v to the raw little-endian bits of one element.
// Integer types wrap modulo 2^bits, Uint8Clamped rounds half to even
// and saturates.
func (t ElementType) encode(v Value) (uint64, error) {
	if t.isBigInt() {
		b, err := toBigInt(v)
		if err != nil {
			return 0, err
		}
		return new(big.Int).And(b, uint64Mask).Uint64(), nil
	}
	f, err := toNumeric(v)
	if err != nil {
		return 0, err
	}
	switch t {
	case Float32:
		return uint64(math.Float32bits(float32(f))), nil
	case Float64:
		return math.Float64bits(f), nil
	case Uint8Clamped:
		switch {
		case f != f || f <= 0:
			return 0, nil
		case f >= 255:
			return 255, nil
		}
		return uint64(math.RoundToEven(f)), nil
	}
	return wrapInteger(f, t.Size()*8), nil
}

func wrapInteger(f float64, bits int) uint64 {
	if f != f || math.IsInf(f, 0) {
		return 0
	}
	m := math.Ldexp(1, bits)
	f = math.Mod(math.Trunc(f), m)
	if f < 0 {
		f += m
	}
	return uint64(f)
}

// decode turns raw element bits into a float64, or a *big.Int for the
// BigInt types.
func (t ElementType) decode(raw uint64) Value {
	switch t {
	case Int8:
		return float64(int8(raw))
	case Uint8, Uint8Clamped:
		return float64(uint8(raw))
	case Int16:
		return float64(int16(raw))
	case Uint16:
		return float64(uint16(raw))
	case Int32:
		return float64(int32(raw))
	case Uint32:
		return float64(uint32(raw))
	case Float32:
		return float64(math.Float32frombits(uint32(raw)))
	case BigInt64:
		return big.NewInt(int64(raw))
	case BigUint64:
		return new(big.Int).SetUint64(raw)
	}
	return math.Float64frombits(raw)
}

func (t ElementType) load(data []byte, i int) uint64 {
	p := data[i*t.Size():]
	switch t.Size() {
	case 1:
		return uint64(p[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(p))
	case 4:
		return uint64(binary.LittleEndian.Uint32(p))
	}
	return binary.LittleEndian.Uint64(p)
}

func (t ElementType) store(data []byte, i int, raw uint64) {
	p := data[i*t.Size():]
	switch t.Size() {
	case 1:
		p[0] = byte(raw)
	case 2:
		binary.LittleEndian.PutUint16(p, uint16(raw))
	case 4:
		binary.LittleEndian.PutUint32(p, uint32(raw))
	default:
		binary.LittleEndian.PutUint64(p, raw)
	}
}

// toNumeric converts v to a number the way numeric typed arrays do.
func toNumeric(v Value) (float64, error) {
	if f, ok := toNumber(v); ok {
		return f, nil
	}
	switch x := v.(type) {
	case nil:
		return math.NaN(), nil
	case NullType:
		return 0, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return math.NaN(), nil
		}
		return f, nil
	case *big.Int:
		return 0, newTypeError("Cannot convert a BigInt value to a number")
	}
	return math.NaN(), nil
}

// toBigInt converts v for the BigInt typed arrays. Numbers are
// rejected.
func toBigInt(v Value) (*big.Int, error) {
	switch x := v.(type) {
	case *big.Int:
		if x != nil {
			return x, nil
		}
	case bool:
		if x {
			return big.NewInt(1), nil
		}
		return new(big.Int), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return new(big.Int), nil
		}
		base := 10
		if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
			base = 0
		}
		if b, ok := new(big.Int).SetString(s, base); ok {
			return b, nil
		}
	}
	return nil, newTypeErrorf("Cannot convert %s to a BigInt", typeName(v))
}

// Callback signatures of TypedArray methods. They run while the typed
// array is registered for reading.
type (
	TypedElementFunc func(value Value, index int, arr *TypedArray) error
	TypedPredicate   func(value Value, index int, arr *TypedArray) (bool, error)
	TypedMapper      func(value Value, index int, arr *TypedArray) (Value, error)
	TypedReducer     func(acc, value Value, index int, arr *TypedArray) (Value, error)
)

// TypedArray is a fixed-length array of numbers of one ElementType that
// may be shared between goroutines. It follows the access rules of
// Array.
//
// Subarray returns a view over the same bytes. Every view has its own
// modification record, so accesses are only checked against other
// accesses through the same view.
//
// A TypedArray must not be copied after first use.
type TypedArray struct {
	_          noCopy
	rec        modRecord
	typ        ElementType
	data       []byte
	byteOffset int
	logger     *slog.Logger
}

func newTypedFromRaws(typ ElementType, raws []uint64, logger *slog.Logger) *TypedArray {
	ta := &TypedArray{typ: typ, data: make([]byte, len(raws)*typ.Size()), logger: logger}
	for i, raw := range raws {
		typ.store(ta.data, i, raw)
	}
	return ta
}

func typedLengthError(length int) error {
	return newBoundsError(fmt.Sprintf("Invalid typed array length: %d", length))
}

// NewTypedArray creates a zero-filled typed array of the given length.
func NewTypedArray(typ ElementType, length int, options ...func(*Config)) (*TypedArray, error) {
	if !typ.valid() {
		return nil, newTypeErrorf("unknown element type %d", uint8(typ))
	}
	if length < 0 || int64(length) > maxArrayLength {
		return nil, typedLengthError(length)
	}
	cfg := newConfig(options)
	return &TypedArray{typ: typ, data: make([]byte, length*typ.Size()), logger: cfg.logger}, nil
}

// TypedArrayFrom creates a typed array from the same sources as
// ArrayFrom. Every element, after mapFn if it is not nil, is converted
// to typ.
func TypedArrayFrom(typ ElementType, items Value, mapFn MapFunc, options ...func(*Config)) (*TypedArray, error) {
	if !typ.valid() {
		return nil, newTypeErrorf("unknown element type %d", uint8(typ))
	}
	elems, err := collectItems(items)
	if err != nil {
		return nil, err
	}
	if int64(len(elems)) > maxArrayLength {
		return nil, typedLengthError(len(elems))
	}
	raws := make([]uint64, len(elems))
	for i, v := range elems {
		if mapFn != nil {
			if v, err = mapFn(v, i); err != nil {
				return nil, err
			}
		}
		if raws[i], err = typ.encode(v); err != nil {
			return nil, err
		}
	}
	return newTypedFromRaws(typ, raws, newConfig(options).logger), nil
}

// TypedArrayOf creates a typed array holding its arguments.
func TypedArrayOf(typ ElementType, items ...Value) (*TypedArray, error) {
	return TypedArrayFrom(typ, items, nil)
}

func (*TypedArray) isSendable() {}

func (ta *TypedArray) String() string {
	s, err := ta.ToString()
	if err != nil {
		return "[object SendableTypedArray]"
	}
	return s
}

func (ta *TypedArray) guard(mode ModMode) (modGuard, error) {
	return ta.rec.acquire(KindTypedArray, mode, ta.logger)
}

func (ta *TypedArray) length() int {
	return len(ta.data) / ta.typ.Size()
}

func (ta *TypedArray) at(i int) Value {
	return ta.typ.decode(ta.typ.load(ta.data, i))
}

func (ta *TypedArray) encodeAll(vals []Value) ([]uint64, error) {
	raws := make([]uint64, len(vals))
	for i, v := range vals {
		raw, err := ta.typ.encode(v)
		if err != nil {
			return nil, err
		}
		raws[i] = raw
	}
	return raws, nil
}

// snapshot decodes the elements under a read guard.
func (ta *TypedArray) snapshot() (s []Value, err error) {
	g, err := ta.guard(ModRead)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	s = make([]Value, ta.length())
	for i := range s {
		s[i] = ta.at(i)
	}
	return s, nil
}

// Type returns the element type.
func (ta *TypedArray) Type() ElementType {
	return ta.typ
}

// Length returns the number of elements. It never changes.
func (ta *TypedArray) Length() (int, error) {
	if ta == nil {
		return 0, newBindError("length")
	}
	return ta.length(), nil
}

// ByteLength returns the size of the array in bytes.
func (ta *TypedArray) ByteLength() (int, error) {
	if ta == nil {
		return 0, newBindError("byteLength")
	}
	return len(ta.data), nil
}

// ByteOffset returns the offset of the first element within the
// buffer shared with the array this one was cut from.
func (ta *TypedArray) ByteOffset() (int, error) {
	if ta == nil {
		return 0, newBindError("byteOffset")
	}
	return ta.byteOffset, nil
}

// Get returns the element at index, or nil when index is out of range.
func (ta *TypedArray) Get(index int) (v Value, err error) {
	if ta == nil {
		return nil, newBindError("get")
	}
	g, err := ta.guard(ModRead)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	if index < 0 || index >= ta.length() {
		return nil, nil
	}
	return ta.at(index), nil
}

// At returns the element at a relative index; negative indices count
// from the end.
func (ta *TypedArray) At(index int) (v Value, err error) {
	if ta == nil {
		return nil, newBindError("at")
	}
	g, err := ta.guard(ModRead)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	n := ta.length()
	if index < 0 {
		index += n
	}
	if index < 0 || index >= n {
		return nil, nil
	}
	return ta.at(index), nil
}

// SetAt converts v and stores it at index.
func (ta *TypedArray) SetAt(index int, v Value) (err error) {
	if ta == nil {
		return newBindError("set")
	}
	raw, err := ta.typ.encode(v)
	if err != nil {
		return err
	}
	if index < 0 || index >= ta.length() {
		return newBoundsError(fmt.Sprintf("The index %d is out of range.", index))
	}
	g, err := ta.guard(ModWrite)
	if err != nil {
		return err
	}
	defer g.release(&err)
	ta.typ.store(ta.data, index, raw)
	return nil
}

// Set copies the elements of source into ta starting at the optional
// offset. Source may be a typed array of the same content kind, an
// Array or a []Value. The source is read before ta is registered for
// writing, so it may overlap ta.
func (ta *TypedArray) Set(source Value, offset ...int) (err error) {
	if ta == nil {
		return newBindError("set")
	}
	off := 0
	if len(offset) > 0 {
		off = offset[0]
	}
	if off < 0 {
		return newBoundsError("The targetOffset of This value is less than 0.")
	}
	if src, ok := source.(*TypedArray); ok && src != nil && src.typ.isBigInt() != ta.typ.isBigInt() {
		return newTypeError("argArrayContentType is not equal objContentType.")
	}
	vals, ok, err := arrayLike(source)
	if err != nil {
		return err
	}
	if !ok {
		return newTypeErrorf("%s is not array-like", typeName(source))
	}
	raws, err := ta.encodeAll(vals)
	if err != nil {
		return err
	}
	if len(raws) > ta.length()-off {
		return newBoundsError("The sum of srcLength and targetOffset is greater than targetLength.")
	}
	g, err := ta.guard(ModWrite)
	if err != nil {
		return err
	}
	defer g.release(&err)
	for i, raw := range raws {
		ta.typ.store(ta.data, off+i, raw)
	}
	return nil
}

// Fill converts v and stores it in the optional relative [start, end)
// bounds.
func (ta *TypedArray) Fill(v Value, bounds ...int) (_ *TypedArray, err error) {
	if ta == nil {
		return nil, newBindError("fill")
	}
	raw, err := ta.typ.encode(v)
	if err != nil {
		return nil, err
	}
	g, err := ta.guard(ModWrite)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	start, end := relativeRange(bounds, ta.length())
	for i := start; i < end; i++ {
		ta.typ.store(ta.data, i, raw)
	}
	return ta, nil
}

// CopyWithin copies the elements in the optional relative [start, end)
// bounds to the relative index target.
func (ta *TypedArray) CopyWithin(target int, bounds ...int) (_ *TypedArray, err error) {
	if ta == nil {
		return nil, newBindError("copyWithin")
	}
	g, err := ta.guard(ModWrite)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	n, size := ta.length(), ta.typ.Size()
	to := relativeIndex(target, n)
	from, end := relativeRange(bounds, n)
	if count := min(end-from, n-to); count > 0 {
		copy(ta.data[to*size:(to+count)*size], ta.data[from*size:(from+count)*size])
	}
	return ta, nil
}

// Reverse reverses ta in place.
func (ta *TypedArray) Reverse() (_ *TypedArray, err error) {
	if ta == nil {
		return nil, newBindError("reverse")
	}
	g, err := ta.guard(ModWrite)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	for i, j := 0, ta.length()-1; i < j; i, j = i+1, j-1 {
		x, y := ta.typ.load(ta.data, i), ta.typ.load(ta.data, j)
		ta.typ.store(ta.data, i, y)
		ta.typ.store(ta.data, j, x)
	}
	return ta, nil
}

// compareTypedElements orders numbers ascending with -0 before +0 and
// NaN last, and BigInts by value.
func compareTypedElements(x, y Value) int {
	if bx, ok := x.(*big.Int); ok {
		return bx.Cmp(y.(*big.Int))
	}
	fx, fy := x.(float64), y.(float64)
	switch {
	case fx != fx && fy != fy:
		return 0
	case fx != fx:
		return 1
	case fy != fy:
		return -1
	case fx < fy:
		return -1
	case fx > fy:
		return 1
	}
	switch sx, sy := math.Signbit(fx), math.Signbit(fy); {
	case sx && !sy:
		return -1
	case !sx && sy:
		return 1
	}
	return 0
}

// Sort sorts ta stably in place. A nil cmp orders numerically. If cmp
// fails ta is left unchanged.
func (ta *TypedArray) Sort(cmp Comparator) (_ *TypedArray, err error) {
	if ta == nil {
		return nil, newBindError("sort")
	}
	g, err := ta.guard(ModWrite)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	type element struct {
		value Value
		raw   uint64
	}
	elems := make([]element, ta.length())
	for i := range elems {
		raw := ta.typ.load(ta.data, i)
		elems[i] = element{ta.typ.decode(raw), raw}
	}
	var cmpErr error
	slices.SortStableFunc(elems, func(x, y element) int {
		if cmpErr != nil {
			return 0
		}
		if cmp == nil {
			return compareTypedElements(x.value, y.value)
		}
		r, err := cmp(x.value, y.value)
		if err != nil {
			cmpErr = err
			return 0
		}
		return r
	})
	if cmpErr != nil {
		return nil, cmpErr
	}
	for i, e := range elems {
		ta.typ.store(ta.data, i, e.raw)
	}
	return ta, nil
}

// Slice returns a copy of the elements in the optional relative
// [start, end) bounds.
func (ta *TypedArray) Slice(bounds ...int) (_ *TypedArray, err error) {
	if ta == nil {
		return nil, newBindError("slice")
	}
	g, err := ta.guard(ModRead)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	start, end := relativeRange(bounds, ta.length())
	end = max(start, end)
	size := ta.typ.Size()
	return &TypedArray{
		typ:    ta.typ,
		data:   slices.Clone(ta.data[start*size : end*size]),
		logger: ta.logger,
	}, nil
}

// Subarray returns a view of the elements in the optional relative
// [start, end) bounds. The view shares ta's bytes.
func (ta *TypedArray) Subarray(bounds ...int) (_ *TypedArray, err error) {
	if ta == nil {
		return nil, newBindError("subarray")
	}
	g, err := ta.guard(ModRead)
	if err != nil {
		return nil, err
	}
	defer g.release(&err)
	start, end := relativeRange(bounds, ta.length())
	end = max(start, end)
	size := ta.typ.Size()
	return &TypedArray{
		typ:        ta.typ,
		data:       ta.data[start*size : end*size : end*size],
		byteOffset: ta.byteOffset + start*size,
		logger:     ta.logger,
	}, nil
}

// Includes reports whether v is an element under SameValueZero.
func (ta *TypedArray) Includes(v Value, fromIndex ...int) (ok bool, err error) {
	if ta == nil {
		return false, newBindError("includes")
	}
	g, err := ta.guard(ModRead)
	if err != nil {
		return false, err
	}
	defer g.release(&err)
	n := ta.length()
	start, _ := relativeRange(fromIndex, n)
	for i := start; i < n; i++ {
		if sameValueZero(ta.at(i), v) {
			return true, nil
		}
	}
	return false, nil
}

// IndexOf returns the first index of v under strict equality, or -1.
func (ta *TypedArray) IndexOf(v Value, fromIndex ...int) (index int, err error) {
	if ta == nil {
		return -1, newBindError("indexOf")
	}
	g, err := ta.guard(ModRead)
	if err != nil {
		return -1, err
	}
	defer g.release(&err)
	n := ta.length()
	start, _ := relativeRange(fromIndex, n)
	for i := start; i < n; i++ {
		if strictEquals(ta.at(i), v) {
			return i, nil
		}
	}
	return -1, nil
}

// LastIndexOf returns the last index of v under strict equality at or
// before the optional relative fromIndex, or -1.
func (ta *TypedArray) LastIndexOf(v Value, fromIndex ...int) (index int, err error) {
	if ta == nil {
		return -1, newBindError("lastIndexOf")
	}
	g, err := ta.guard(ModRead)
	if err != nil {
		return -1, err
	}
	defer g.release(&err)
	n := ta.length()
	from := n - 1
	if len(fromIndex) > 0 {
		if k := fromIndex[0]; k >= 0 {
			from = min(k, n-1)
		} else {
			from = n + k
		}
	}
	for i := from; i >= 0; i-- {
		if strictEquals(ta.at(i), v) {
			return i, nil
		}
	}
	return -1, nil
}

// Join concatenates the string forms of the elements separated by
// separator, "," by default.
func (ta *TypedArray) Join(separator ...string) (s string, err error) {
	if ta == nil {
		return "", newBindError("join")
	}
	sep := ","
	if len(separator) > 0 {
		sep = separator[0]
	}
	return ta.join(sep, toString)
}

// ToString is Join with the default separator.
func (ta *TypedArray) ToString() (string, error) {
	if ta == nil {
		return "", newBindError("toString")
	}
	return ta.join(",", toString)
}

// ToLocaleString renders the elements for the given BCP 47 locale,
// "en" by default.
func (ta *TypedArray) ToLocaleString(locales ...string) (string, error) {
	if ta == nil {
		return "", newBindError("toLocaleString")
	}
	p := localePrinter(locales)
	return ta.join(",", func(v Value) string {
		if f, ok := v.(float64); ok {
			return localeNumber(p, f)
		}
		return toString(v)
	})
}

func (ta *TypedArray) join(sep string, format func(Value) string) (s string, err error) {
	g, err := ta.guard(ModRead)
	if err != nil {
		return "", err
	}
	defer g.release(&err)
	var sb strings.Builder
	for i := range ta.length() {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(format(ta.at(i)))
	}
	return sb.String(), nil
}

// scan calls fn for each element under one read guard until fn
// reports stop.
func (ta *TypedArray) scan(reverse bool, fn func(v Value, i int) (stop bool, err error)) (err error) {
	g, err := ta.guard(ModRead)
	if err != nil {
		return err
	}
	defer g.release(&err)
	n := ta.length()
	for k := range n {
		i := k
		if reverse {
			i = n - 1 - k
		}
		stop, err := fn(ta.at(i), i)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}

// Every reports whether fn holds for every element.
func (ta *TypedArray) Every(fn TypedPredicate) (bool, error) {
	if ta == nil {
		return false, newBindError("every")
	}
	if fn == nil {
		return false, notCallable("callbackfun")
	}
	all := true
	err := ta.scan(false, func(v Value, i int) (bool, error) {
		ok, err := fn(v, i, ta)
		all = ok
		return !ok, err
	})
	return all && err == nil, err
}

// Some reports whether fn holds for any element.
func (ta *TypedArray) Some(fn TypedPredicate) (bool, error) {
	if ta == nil {
		return false, newBindError("some")
	}
	if fn == nil {
		return false, notCallable("callbackfun")
	}
	found := false
	err := ta.scan(false, func(v Value, i int) (bool, error) {
		ok, err := fn(v, i, ta)
		found = ok
		return ok, err
	})
	return found && err == nil, err
}

// Filter returns a new typed array of the elements fn holds for.
func (ta *TypedArray) Filter(fn TypedPredicate) (*TypedArray, error) {
	if ta == nil {
		return nil, newBindError("filter")
	}
	if fn == nil {
		return nil, notCallable("callbackfun")
	}
	var kept []uint64
	err := ta.scan(false, func(v Value, i int) (bool, error) {
		ok, err := fn(v, i, ta)
		if ok {
			kept = append(kept, ta.typ.load(ta.data, i))
		}
		return false, err
	})
	if err != nil {
		return nil, err
	}
	return newTypedFromRaws(ta.typ, kept, ta.logger), nil
}

func (ta *TypedArray) find(method string, fn TypedPredicate) (Value, int, error) {
	if ta == nil {
		return nil, -1, newBindError(method)
	}
	if fn == nil {
		return nil, -1, notCallable("predicate")
	}
	var found Value
	index := -1
	err := ta.scan(false, func(v Value, i int) (bool, error) {
		ok, err := fn(v, i, ta)
		if ok && err == nil {
			found, index = v, i
		}
		return ok, err
	})
	if err != nil {
		return nil, -1, err
	}
	return found, index, nil
}

// Find returns the first element fn holds for, or nil.
func (ta *TypedArray) Find(fn TypedPredicate) (Value, error) {
	v, _, err := ta.find("find", fn)
	return v, err
}

// FindIndex returns the index of the first element fn holds for, or -1.
func (ta *TypedArray) FindIndex(fn TypedPredicate) (int, error) {
	_, i, err := ta.find("findIndex", fn)
	return i, err
}

// ForEach calls fn for every element.
func (ta *TypedArray) ForEach(fn TypedElementFunc) error {
	if ta == nil {
		return newBindError("forEach")
	}
	if fn == nil {
		return notCallable("callbackfun")
	}
	return ta.scan(false, func(v Value, i int) (bool, error) {
		return false, fn(v, i, ta)
	})
}

// Map returns a typed array of the same type holding fn applied to
// every element.
func (ta *TypedArray) Map(fn TypedMapper) (*TypedArray, error) {
	if ta == nil {
		return nil, newBindError("map")
	}
	if fn == nil {
		return nil, notCallable("callbackfun")
	}
	var raws []uint64
	err := ta.scan(false, func(v Value, i int) (bool, error) {
		mv, err := fn(v, i, ta)
		if err != nil {
			return true, err
		}
		raw, err := ta.typ.encode(mv)
		if err != nil {
			return true, err
		}
		raws = append(raws, raw)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return newTypedFromRaws(ta.typ, raws, ta.logger), nil
}

func (ta *TypedArray) reduce(method string, reverse bool, fn TypedReducer, initial []Value) (Value, error) {
	if ta == nil {
		return nil, newBindError(method)
	}
	if fn == nil {
		return nil, notCallable("callbackfun")
	}
	var acc Value
	seeded := len(initial) > 0
	if seeded {
		acc = initial[0]
	}
	err := ta.scan(reverse, func(v Value, i int) (bool, error) {
		if !seeded {
			acc, seeded = v, true
			return false, nil
		}
		next, err := fn(acc, v, i, ta)
		acc = next
		return false, err
	})
	if err != nil {
		return nil, err
	}
	if !seeded {
		return nil, newTypeError("out of range.")
	}
	return acc, nil
}

// Reduce folds the elements from left to right.
func (ta *TypedArray) Reduce(fn TypedReducer, initial ...Value) (Value, error) {
	return ta.reduce("reduce", false, fn, initial)
}

// ReduceRight folds the elements from right to left.
func (ta *TypedArray) ReduceRight(fn TypedReducer, initial ...Value) (Value, error) {
	return ta.reduce("reduceRight", true, fn, initial)
}

// Entries returns an iterator over [index, value] pairs.
func (ta *TypedArray) Entries() (*TypedArrayIterator, error) {
	if ta == nil {
		return nil, newBindError("entries")
	}
	return &TypedArrayIterator{arr: ta, kind: IterKeyAndValue}, nil
}

// Keys returns an iterator over indices.
func (ta *TypedArray) Keys() (*TypedArrayIterator, error) {
	if ta == nil {
		return nil, newBindError("keys")
	}
	return &TypedArrayIterator{arr: ta, kind: IterKey}, nil
}

// Values returns an iterator over elements.
func (ta *TypedArray) Values() (*TypedArrayIterator, error) {
	if ta == nil {
		return nil, newBindError("values")
	}
	return &TypedArrayIterator{arr: ta, kind: IterValue}, nil
}

// Iterator returns the values iterator.
func (ta *TypedArray) Iterator() (Iterator, error) {
	if ta == nil {
		return nil, newBindError("Symbol.iterator")
	}
	return ta.Values()
}
