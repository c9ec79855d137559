package main

import (
	"fmt"

	"github.com/kbukum/cryptlib/version"
)

type versionCommand struct{}

func (cmd *versionCommand) Execute(args []string) error {
	_, err := fmt.Fprintf(stdout, "%s %s\n", serviceName, version.GetVersionInfo())
	return err
}
