package main

import (
	"context"
	"fmt"
	"os"

	"bookyear/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "bookyear:", err)
		os.Exit(1)
	}
}
