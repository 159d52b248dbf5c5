package sendable

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
)

// Value is any value that can flow through a shared collection.
// The Go nil stands for undefined.
type Value = any

// NullType is the type of Null.
type NullType struct{}

func (NullType) String() string { return "null" }

// Null is the null value, distinct from undefined (nil).
var Null = NullType{}

// Sendable is implemented by objects that may be shared between
// goroutines and stored inside shared collections. *Array, *Map and
// *Set implement it; user types opt in by embedding SendableBase.
type Sendable interface {
	isSendable()
}

// SendableBase marks the embedding type as Sendable.
type SendableBase struct{}

func (SendableBase) isSendable() {}

// Function is a callable value used by Invoke for callback arguments.
type Function func(this Value, args []Value) (Value, error)

// IsSendable reports whether v may be stored in a shared collection.
func IsSendable(v Value) bool {
	switch v.(type) {
	case nil, NullType, bool, string, *big.Int,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64:
		return true
	case Sendable:
		return true
	}
	return false
}

func allSendable(vs []Value) bool {
	for _, v := range vs {
		if !IsSendable(v) {
			return false
		}
	}
	return true
}

// toNumber converts a Go numeric value to float64.
func toNumber(v Value) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case uintptr:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

type keyKind uint8

const (
	keyUndefined keyKind = iota
	keyNull
	keyBool
	keyNumber
	keyNaN
	keyString
	keyBigInt
	keyRef
)

// hashKey is the comparable identity of a value under SameValueZero.
type hashKey struct {
	kind keyKind
	num  float64
	str  string
	ref  any
}

// keyOf returns the SameValueZero identity of v. It fails for objects
// whose dynamic type is not comparable.
func keyOf(v Value) (hashKey, bool) {
	if f, ok := toNumber(v); ok {
		if f != f {
			return hashKey{kind: keyNaN}, true
		}
		if f == 0 {
			f = 0 // -0
		}
		return hashKey{kind: keyNumber, num: f}, true
	}
	switch x := v.(type) {
	case nil:
		return hashKey{kind: keyUndefined}, true
	case NullType:
		return hashKey{kind: keyNull}, true
	case bool:
		if x {
			return hashKey{kind: keyBool, num: 1}, true
		}
		return hashKey{kind: keyBool}, true
	case string:
		return hashKey{kind: keyString, str: x}, true
	case *big.Int:
		if x == nil {
			return hashKey{kind: keyRef, ref: x}, true
		}
		return hashKey{kind: keyBigInt, str: x.String()}, true
	}
	if !reflect.ValueOf(v).Comparable() {
		return hashKey{}, false
	}
	return hashKey{kind: keyRef, ref: v}, true
}

func sameValueZero(a, b Value) bool {
	ka, ok := keyOf(a)
	if !ok {
		return false
	}
	kb, ok := keyOf(b)
	return ok && ka == kb
}

// strictEquals is sameValueZero except that NaN equals nothing.
func strictEquals(a, b Value) bool {
	ka, ok := keyOf(a)
	if !ok || ka.kind == keyNaN {
		return false
	}
	kb, ok := keyOf(b)
	return ok && ka == kb
}

// toIntegerOrInfinity truncates v towards zero. NaN and non-numbers
// yield 0; infinities are kept.
func toIntegerOrInfinity(v Value) float64 {
	var f float64
	switch x := v.(type) {
	case bool:
		if x {
			f = 1
		}
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil && strings.TrimSpace(x) != "" {
			return 0
		}
		f = p
	default:
		n, ok := toNumber(v)
		if !ok {
			return 0
		}
		f = n
	}
	if f != f {
		return 0
	}
	return math.Trunc(f)
}

// clampInt converts an integer-or-infinity to int.
func clampInt(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// formatNumber renders f the way script number-to-string does:
// fixed notation in [1e-6, 1e21), exponent notation outside it.
func formatNumber(f float64) string {
	switch {
	case f != f:
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// toString converts v to its string form.
func toString(v Value) string {
	if f, ok := toNumber(v); ok {
		return formatNumber(f)
	}
	switch x := v.(type) {
	case nil:
		return "undefined"
	case NullType:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	case *big.Int:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
