package main

import (
	"fmt"
	"os"

	"github.com/babarot/kuzukago/internal/cli"
)

const appName = "kuzukago"

// set by ldflags
var (
	Version   = "unset"
	Revision  = "unset"
	BuildDate = "unset"
)

func main() {
	if err := cli.Run(cli.Version{
		AppName:   appName,
		Version:   Version,
		Revision:  Revision,
		BuildDate: BuildDate,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %s: %v\n", appName, err)
		os.Exit(1)
	}
}
