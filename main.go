package main

import (
	"fmt"
	"os"

	"github.com/okta-tools/okta-aws/cli"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

func main() {
	cli.App.Version = Version

	if err := cli.App.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
