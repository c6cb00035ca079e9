package main

import (
	"fmt"
	"os"

	"ganadero/internal/cli"
)

func main() {
	if err := cli.NewRoot(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
