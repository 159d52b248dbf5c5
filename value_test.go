package sendable

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{-1.5, "-1.5"},
		{math.Copysign(0, -1), "0"},
		{123456789012, "123456789012"},
		{0.000001, "0.000001"},
		{1.5e-7, "1.5e-7"},
		{1e21, "1e+21"},
		{-2.5e22, "-2.5e+22"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsSendable(t *testing.T) {
	arr, _ := NewArray(nil)
	m, _ := NewMap(nil)
	s, _ := NewSet(nil)
	for _, v := range []Value{nil, Null, true, 1, uint8(2), 3.5, "s", big.NewInt(9), arr, m, s, &sharedRecord{}} {
		if !IsSendable(v) {
			t.Errorf("IsSendable(%T) = false", v)
		}
	}
	for _, v := range []Value{[]Value{}, map[string]Value{}, struct{}{}, Function(nil), make(chan int)} {
		if IsSendable(v) {
			t.Errorf("IsSendable(%T) = true", v)
		}
	}
}

func TestSameValueZero(t *testing.T) {
	if !sameValueZero(math.NaN(), math.NaN()) {
		t.Error("NaN != NaN under SameValueZero")
	}
	if strictEquals(math.NaN(), math.NaN()) {
		t.Error("NaN == NaN under strict equality")
	}
	if !sameValueZero(0, math.Copysign(0, -1)) {
		t.Error("0 != -0")
	}
	if !sameValueZero(int32(5), 5.0) {
		t.Error("int32(5) != 5.0")
	}
	if sameValueZero(nil, Null) {
		t.Error("undefined == null")
	}
	if !sameValueZero(big.NewInt(10), big.NewInt(10)) {
		t.Error("equal BigInts differ")
	}
	if sameValueZero("1", 1) {
		t.Error(`"1" == 1`)
	}
}

func TestToIntegerOrInfinity(t *testing.T) {
	tests := []struct {
		in   Value
		want float64
	}{
		{nil, 0},
		{2.9, 2},
		{-2.9, -2},
		{math.NaN(), 0},
		{"12", 12},
		{"x", 0},
		{true, 1},
		{math.Inf(-1), math.Inf(-1)},
	}
	for _, tt := range tests {
		if got := toIntegerOrInfinity(tt.in); got != tt.want {
			t.Errorf("toIntegerOrInfinity(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if clampInt(math.Inf(1)) != math.MaxInt || clampInt(math.Inf(-1)) != math.MinInt {
		t.Error("infinities not clamped")
	}
}

func TestError_Is(t *testing.T) {
	err := newBindError("push")
	if !errors.Is(err, ErrBind) || errors.Is(err, ErrParam) {
		t.Fatalf("errors.Is mismatch for %v", err)
	}
	if got := err.Error(); got != "BusinessError(10200011): The push method cannot be bound." {
		t.Fatalf("Error() = %q", got)
	}
	if got := notCallable("predicate").Error(); got != "TypeError: the predicate is not callable." {
		t.Fatalf("Error() = %q", got)
	}
}
