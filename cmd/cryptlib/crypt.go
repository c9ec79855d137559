package main

import (
	"fmt"
	"io"
	"strings"
)

type textArgs struct {
	Text string `positional-arg-name:"text" description:"Input text; read from stdin when omitted or \"-\""`
}

type encryptCommand struct {
	Passphrase string         `short:"p" long:"passphrase" env:"CRYPTLIB_PASSPHRASE" description:"Passphrase the key is derived from"`
	IV         optionalString `long:"iv" description:"IV string; omit for a random IV"`
	Args       textArgs       `positional-args:"true"`
}

func (cmd *encryptCommand) Execute(args []string) error {
	svc, err := setup()
	if err != nil {
		return err
	}
	plaintext, err := readInput(cmd.Args.Text)
	if err != nil {
		return err
	}

	var out string
	if cmd.IV.IsSet() {
		out, err = svc.EncryptWithIV(plaintext, cmd.Passphrase, cmd.IV.Value())
	} else {
		out, err = svc.EncryptWithRandomIV(plaintext, cmd.Passphrase)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, out)
	return err
}

type decryptCommand struct {
	Passphrase string         `short:"p" long:"passphrase" env:"CRYPTLIB_PASSPHRASE" description:"Passphrase the key is derived from"`
	IV         optionalString `long:"iv" description:"IV string used to encrypt; omit for random-IV ciphertext"`
	Args       textArgs       `positional-args:"true"`
}

func (cmd *decryptCommand) Execute(args []string) error {
	svc, err := setup()
	if err != nil {
		return err
	}
	ciphertext, err := readInput(cmd.Args.Text)
	if err != nil {
		return err
	}

	var out string
	if cmd.IV.IsSet() {
		out, err = svc.DecryptWithIV(ciphertext, cmd.Passphrase, cmd.IV.Value())
	} else {
		out, err = svc.DecryptWithRandomIV(ciphertext, cmd.Passphrase)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, out)
	return err
}

// readInput returns arg, or all of stdin without its trailing newline when
// arg is empty or "-".
func readInput(arg string) (string, error) {
	if arg != "" && arg != "-" {
		return arg, nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	s := strings.TrimSuffix(string(b), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}
