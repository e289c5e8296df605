package main

import (
	"os"

	"github.com/noah-isme/sma-compliance-report/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
