// Command monitorsoak stress-tests the monitor primitives.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
