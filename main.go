// Package main is the entry point for the fedigrab application.
package main

import (
	"github.com/samber/lo"

	"github.com/fedigrab-cli/fedigrab/cmd"
	"github.com/fedigrab-cli/fedigrab/config"
	"github.com/fedigrab-cli/fedigrab/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
