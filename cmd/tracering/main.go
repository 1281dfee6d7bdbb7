// Command tracering decodes breadcrumb logs recorded by the traceback
// subsystem and browses archived crash reports.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/tracering/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
