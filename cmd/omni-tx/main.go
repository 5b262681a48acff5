// omni-tx builds, inspects and signs Bitcoin transactions.
//
// Example usage:
//
//	# Describe a raw transaction
//	omni-tx decode 0200000001...
//
//	# Compute the digest an input must sign
//	omni-tx sighash --tx 0200... --input 0:p2wpkh:0014...:0.001
//
//	# Sign inputs with a local WIF key
//	omni-tx sign --tx 0200... --wif cV... --input 0:p2wpkh:0014...:0.001
//
//	# Parse a BIP-21 payment request
//	omni-tx uri "bitcoin:bc1q...?amount=0.0015"
package main

import (
	"errors"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

var version = "dev"

type options struct {
	Network string `long:"network" env:"OMNI_TX_NETWORK" description:"bitcoin network (mainnet, testnet, regtest, signet)" default:"mainnet"`
	Verbose bool   `short:"v" long:"verbose" env:"OMNI_TX_VERBOSE" description:"enable debug logging"`
}

// app carries what every command needs.
type app struct {
	opts   *options
	logger *zap.Logger
	out    io.Writer
}

func newParser(a *app) *flags.Parser {
	parser := flags.NewParser(a.opts, flags.Default)

	commands := []struct {
		name, short, long string
		data              interface{}
	}{
		{"decode", "Describe a raw transaction", "Decodes a hex transaction and prints it as JSON.", &decodeCommand{app: a}},
		{"txid", "Print txid and wtxid", "Decodes a hex transaction and prints its txid and wtxid.", &txidCommand{app: a}},
		{"sighash", "Compute input digests", "Prints the sighash preimage and digest of each --input.", &sighashCommand{app: a}},
		{"sign", "Sign inputs with a local key", "Signs each --input with the WIF key and prints the finalized transaction.", &signCommand{app: a}},
		{"uri", "Parse a BIP-21 URI", "Parses a bitcoin: payment URI and prints the resolved output.", &uriCommand{app: a}},
		{"version", "Show version information", "Prints the omni-tx version.", &versionCommand{app: a}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			panic("can't register command " + c.name + ": " + err.Error())
		}
	}
	return parser
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func main() {
	opts := &options{}
	a := &app{opts: opts, logger: zap.NewNop(), out: os.Stdout}
	parser := newParser(a)

	// Commands run inside Parse, so the logger is built once options are
	// known and before the command executes.
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		logger, err := newLogger(opts.Verbose)
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()
		a.logger = logger
		return cmd.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}
