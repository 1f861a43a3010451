package display

import (
	"fmt"
	"os"

	"github.com/backmassage/clipstitch/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Magenta != "" {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, `  ____ _ _       ____  _   _ _       _
 / ___| (_)_ __ / ___|| |_(_) |_ ___| |__
| |   | | | '_ \\___ \| __| | __/ __| '_ \
| |___| | | |_) |___) | |_| | || (__| | | |
 \____|_|_| .__/|____/ \__|_|\__\___|_| |_|
          |_|
`)
	if term.Magenta != "" {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
