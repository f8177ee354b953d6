package kind

import "testing"

// sink prevents the compiler from eliding predicate calls.
var sink bool

func benchPredicate(b *testing.B, pred func(any) bool) {
	for _, d := range Data {
		b.Run(d.Label, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				sink = pred(d.Value)
			}
		})
	}
}

func BenchmarkTypeSwitchIsString(b *testing.B) { benchPredicate(b, TypeSwitchIsString) }
func BenchmarkTypeSwitchIsList(b *testing.B)   { benchPredicate(b, TypeSwitchIsList) }
func BenchmarkTypeSwitchIsDict(b *testing.B)   { benchPredicate(b, TypeSwitchIsDict) }

func BenchmarkAssertIsString(b *testing.B) { benchPredicate(b, AssertIsString) }
func BenchmarkAssertIsList(b *testing.B)   { benchPredicate(b, AssertIsList) }
func BenchmarkAssertIsDict(b *testing.B)   { benchPredicate(b, AssertIsDict) }

func BenchmarkReflectIsString(b *testing.B) { benchPredicate(b, ReflectIsString) }
func BenchmarkReflectIsList(b *testing.B)   { benchPredicate(b, ReflectIsList) }
func BenchmarkReflectIsDict(b *testing.B)   { benchPredicate(b, ReflectIsDict) }

func BenchmarkKindMapIsString(b *testing.B) { benchPredicate(b, KindMapIsString) }
func BenchmarkKindMapIsList(b *testing.B)   { benchPredicate(b, KindMapIsList) }
func BenchmarkKindMapIsDict(b *testing.B)   { benchPredicate(b, KindMapIsDict) }
