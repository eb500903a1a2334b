//go:build bench
// +build bench

package codec

import (
	"bytes"
	"testing"
)

func BenchmarkPack(b *testing.B) {
	i8 := MustParseFormat(">q")
	benchmarks := []struct {
		name   string
		value  Value
		format *Format
	}{
		{"int64", Int(2048), &i8},
		{"float64", Float(0.000128), &Float64Format},
		{"text", Text("ds8_crab_20240101_000000.fil"), nil},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Pack(bm.value, bm.format, OrderKeep); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	i8 := MustParseFormat(">q")
	intBytes, _ := Pack(Int(2048), &i8, OrderKeep)
	textBytes, _ := PackText("ds8_crab_20240101_000000.fil", OrderKeep)

	b.Run("int64", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := Decode(bytes.NewReader(intBytes), &i8, OrderKeep); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("text", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := DecodeText(bytes.NewReader(textBytes), OrderKeep); err != nil {
				b.Fatal(err)
			}
		}
	})
}
