package main

import (
	"fmt"
	"os"

	"github.com/HexmosTech/formie"
)

func main() {
	if err := formie.Main(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
