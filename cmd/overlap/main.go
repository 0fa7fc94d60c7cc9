// overlap checks plain-text submissions for shared word sequences,
// between each other and against trusted source texts.
package main

import (
	"os"

	"github.com/RishiKendai/overlap/cmd/overlap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
