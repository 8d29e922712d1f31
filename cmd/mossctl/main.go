// Command mossctl is the command-line entry point: fit spectra locally or
// run the API server.
package main

import (
	"fmt"
	"os"

	"github.com/jgraziolaVU/Yeonni1MB/internal/interfaces/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
