package multigram_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/multigram/multigram"
	"github.com/katalvlaran/multigram/source"
)

// BenchmarkEngine_Run measures learning over a repetitive 50-word vocabulary.
func BenchmarkEngine_Run(b *testing.B) {
	words := make([]string, 0, 5500)
	for i := 0; i < 500; i++ {
		for j := 0; j < 10; j++ {
			words = append(words, fmt.Sprintf("w%d", (i+j)%50))
		}
		words = append(words, "<eol>")
	}
	src := source.Words(words...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = src.Reset()
		e, err := multigram.New(src)
		if err != nil {
			b.Fatal(err)
		}
		if err = e.Run(); err != nil {
			b.Fatal(err)
		}
		e.Normalize()
	}
}
