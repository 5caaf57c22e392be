// repalette - remap game sources between colour palettes
//
// repalette rewrites palette indices and colour literals in game source files
// written against a 64-colour legacy palette so they use a 16-colour target
// palette.
package main

import (
	"os"

	"github.com/jmylchreest/repalette/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
