package sendable

import (
	"strconv"
	"testing"
)

func benchmarkKeys(n int) []Value {
	keys := make([]Value, n)
	for i := range keys {
		keys[i] = "key-" + strconv.Itoa(i)
	}
	return keys
}

func BenchmarkMapGetParallel(b *testing.B) {
	b.ReportAllocs()
	keys := benchmarkKeys(1024)
	m, _ := NewMap(nil, WithPresize(len(keys)))
	for i, k := range keys {
		_, _ = m.Set(k, i)
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = m.Get(keys[i])
			i++
			if i >= len(keys) {
				i = 0
			}
		}
	})
}

func BenchmarkMapSet(b *testing.B) {
	b.ReportAllocs()
	keys := benchmarkKeys(1024)
	m, _ := NewMap(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Set(keys[i%len(keys)], i)
	}
}

func BenchmarkArrayAtParallel(b *testing.B) {
	b.ReportAllocs()
	a, _ := ArrayCreate(1024, 1)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = a.At(i)
			i = (i + 1) & 1023
		}
	})
}

func BenchmarkArrayPushPop(b *testing.B) {
	b.ReportAllocs()
	a, _ := NewArray(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = a.Push(i)
		_, _ = a.Pop()
	}
}
