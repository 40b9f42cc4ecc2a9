// main.go
package main

import (
	"os"

	"framelift/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
