// Command medalctl runs the dashboard computations offline: aggregate rows,
// filtered tables, figures and PNG snapshots straight from the data files,
// and probes a running server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
