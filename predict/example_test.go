package predict_test

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/multigram/multigram"
	"github.com/katalvlaran/multigram/predict"
	"github.com/katalvlaran/multigram/source"
	"github.com/katalvlaran/multigram/token"
)

// ExampleGenerateLikely continues "the" with the best-supported sentence.
func ExampleGenerateLikely() {
	src := source.Words(
		"the", "cat", "sat", "<eol>",
		"the", "cat", "sat", "<eol>",
		"the", "dog", "ran", "<eol>",
	)
	e, _ := multigram.New(src)
	_ = e.Run()

	seq, err := predict.GenerateLikely(e, e.Find(token.NewSymbol("the")))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	words := make([]string, len(seq))
	for i, n := range seq {
		words[i] = n.String()
	}
	fmt.Println(strings.Join(words, " "))
	// Output:
	// the cat sat <eol>
}
