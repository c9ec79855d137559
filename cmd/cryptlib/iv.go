package main

import (
	"fmt"

	"github.com/kbukum/cryptlib/keymaterial"
)

type ivCommand struct{}

func (cmd *ivCommand) Execute(args []string) error {
	iv, err := keymaterial.GenerateRandomIV()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, iv)
	return err
}
