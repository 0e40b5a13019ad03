package main

import (
	"fmt"
	"os"

	"github.com/biyonik/go-sqlquery/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sqlquery:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
