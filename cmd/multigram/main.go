// Command multigram learns temporal token associations from text files,
// stores them as SQLite snapshots and generates continuations from them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
