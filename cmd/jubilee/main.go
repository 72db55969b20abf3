// Command jubilee serves an HTTP application configured by a Jubilee
// configuration script.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/jubilee-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
