// Command cryptlib encrypts and decrypts text with AES-256-CBC and can serve
// the same operations over HTTP.
//
// Usage:
//
//	cryptlib encrypt -p <passphrase> [--iv <iv>] [text]   Encrypt text (stdin if omitted)
//	cryptlib decrypt -p <passphrase> [--iv <iv>] [text]   Decrypt Base64 ciphertext
//	cryptlib iv                                            Print a random 32-char hex IV
//	cryptlib serve                                         Run the HTTP API
//	cryptlib version                                       Print build information
//
// Without --iv, encrypt and decrypt use random-IV mode with the configured
// envelope.
package main

import (
	"io"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/kbukum/cryptlib/config"
	"github.com/kbukum/cryptlib/encryption"
	"github.com/kbukum/cryptlib/logger"
)

const serviceName = "cryptlib"

type globalOpts struct {
	Config  string `short:"c" long:"config" description:"Path to config.yml"`
	EnvFile string `long:"env-file" description:"Path to a .env file"`
	Verbose bool   `short:"v" long:"verbose" description:"Enable debug logging"`

	Encrypt encryptCommand `command:"encrypt" description:"Encrypt text and print Base64 ciphertext"`
	Decrypt decryptCommand `command:"decrypt" description:"Decrypt Base64 ciphertext and print the text"`
	IV      ivCommand      `command:"iv" description:"Print a random IV as 32 hex characters"`
	Serve   serveCommand   `command:"serve" description:"Serve the encryption API over HTTP"`
	Version versionCommand `command:"version" description:"Print build information"`
}

var (
	opts globalOpts

	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = false

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// loadConfig reads, defaults and validates the application config.
func loadConfig() (*config.AppConfig, error) {
	var loaderOpts []config.LoaderOption
	if opts.Config != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.Config))
	}
	if opts.EnvFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.EnvFile))
	}

	var cfg config.AppConfig
	if err := config.LoadConfig(serviceName, &cfg, loaderOpts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if opts.Verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setup loads config, installs the global logger and builds the service.
func setup() (*encryption.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Logging)

	svcOpts, err := cfg.ServiceOptions()
	if err != nil {
		return nil, err
	}
	svcOpts = append(svcOpts, encryption.WithLogger(logger.GetGlobalLogger()))
	return encryption.NewService(svcOpts...), nil
}
