package main

import (
	"os"

	"github.com/cbruun/campus-events/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
