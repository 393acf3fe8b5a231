package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tatianab/bufo-clicker/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
