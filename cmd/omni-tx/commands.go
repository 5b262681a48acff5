package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/suffix-labs/omni-transaction/pkg/api"
	"github.com/suffix-labs/omni-transaction/pkg/bip21"
	"github.com/suffix-labs/omni-transaction/pkg/btc"
	"github.com/suffix-labs/omni-transaction/pkg/metrics"
	"github.com/suffix-labs/omni-transaction/pkg/roles"
	"github.com/suffix-labs/omni-transaction/pkg/sighash"
	"github.com/suffix-labs/omni-transaction/pkg/signer"
)

const localKeyPath = "local"

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func singleArg(args []string, what string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected exactly one %s argument, got %d", what, len(args))
	}
	return args[0], nil
}

type decodeCommand struct {
	app *app
}

func (c *decodeCommand) Execute(args []string) error {
	raw, err := singleArg(args, "transaction hex")
	if err != nil {
		return err
	}
	tx, err := btc.ParseTransactionHex(raw)
	if err != nil {
		return fmt.Errorf("decode transaction: %w", err)
	}
	return c.app.printJSON(tx.Describe())
}

type txidCommand struct {
	app *app
}

func (c *txidCommand) Execute(args []string) error {
	raw, err := singleArg(args, "transaction hex")
	if err != nil {
		return err
	}
	tx, err := btc.ParseTransactionHex(raw)
	if err != nil {
		return fmt.Errorf("decode transaction: %w", err)
	}
	_, err = fmt.Fprintf(c.app.out, "txid  %s\nwtxid %s\n", tx.Txid(), tx.Wtxid())
	return err
}

// inputSpec is the --input flag: index:type:script_pubkey_hex[:amount_btc].
type inputSpec struct {
	index        int
	txType       btc.TransactionType
	scriptPubKey btc.ScriptBuf
	value        btc.Amount
}

func parseInputSpec(s string) (inputSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return inputSpec{}, fmt.Errorf("input %q: expected index:type:script_pubkey[:amount]", s)
	}

	index, err := strconv.Atoi(parts[0])
	if err != nil {
		return inputSpec{}, fmt.Errorf("input %q: bad index: %w", s, err)
	}
	txType, err := btc.ParseTransactionType(parts[1])
	if err != nil {
		return inputSpec{}, fmt.Errorf("input %q: %w", s, err)
	}
	script, err := btc.ParseScriptHex(parts[2])
	if err != nil {
		return inputSpec{}, fmt.Errorf("input %q: %w", s, err)
	}

	spec := inputSpec{index: index, txType: txType, scriptPubKey: script}
	if len(parts) == 4 {
		if spec.value, err = btc.ParseBTC(parts[3]); err != nil {
			return inputSpec{}, fmt.Errorf("input %q: %w", s, err)
		}
	} else if txType.UsesWitness() {
		return inputSpec{}, fmt.Errorf("input %q: %s inputs need the spent amount", s, txType)
	}
	return spec, nil
}

func parseInputSpecs(specs []string) ([]inputSpec, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one --input is required")
	}
	out := make([]inputSpec, 0, len(specs))
	for _, s := range specs {
		spec, err := parseInputSpec(s)
		if err != nil {
			return nil, err
		}
		out = append(out, spec)
	}
	return out, nil
}

func (s inputSpec) signing(hashType sighash.Type) api.InputSigning {
	return api.InputSigning{
		Index:            s.index,
		Type:             s.txType,
		PrevScriptPubKey: s.scriptPubKey,
		Value:            s.value,
		HashType:         hashType,
		Path:             localKeyPath,
	}
}

type sighashCommand struct {
	app      *app
	Tx       string   `long:"tx" env:"OMNI_TX_TX" description:"unsigned transaction hex" required:"true"`
	Inputs   []string `long:"input" description:"index:type:script_pubkey_hex[:amount_btc], repeatable" required:"true"`
	HashType string   `long:"hash-type" description:"sighash type" default:"ALL"`
}

type sighashResult struct {
	Input    int    `json:"input"`
	Type     string `json:"type"`
	HashType string `json:"hash_type"`
	Preimage string `json:"preimage"`
	Sighash  string `json:"sighash"`
}

func (c *sighashCommand) Execute(_ []string) error {
	tx, err := btc.ParseTransactionHex(c.Tx)
	if err != nil {
		return fmt.Errorf("decode transaction: %w", err)
	}
	hashType, err := sighash.ParseType(c.HashType)
	if err != nil {
		return err
	}
	specs, err := parseInputSpecs(c.Inputs)
	if err != nil {
		return err
	}

	unsigned := roles.NewUnsigned(tx)
	results := make([]sighashResult, 0, len(specs))
	for _, spec := range specs {
		preimage, err := preimageFor(unsigned, spec, hashType)
		if err != nil {
			return fmt.Errorf("input %d: %w", spec.index, err)
		}
		results = append(results, sighashResult{
			Input:    spec.index,
			Type:     spec.txType.String(),
			HashType: hashType.String(),
			Preimage: hex.EncodeToString(preimage),
			Sighash:  btc.DoubleSHA256(preimage).Hex(),
		})
	}
	return c.app.printJSON(results)
}

func preimageFor(u *roles.Unsigned, spec inputSpec, hashType sighash.Type) ([]byte, error) {
	if spec.txType.UsesWitness() {
		scriptCode, err := spec.scriptPubKey.P2WPKHScriptCode()
		if err != nil {
			return nil, err
		}
		return u.SegwitPreimage(spec.index, hashType, scriptCode, spec.value)
	}
	if err := u.SetScriptSig(spec.index, spec.scriptPubKey); err != nil {
		return nil, err
	}
	return u.LegacyPreimage(spec.index, hashType)
}

type signCommand struct {
	app         *app
	Tx          string   `long:"tx" env:"OMNI_TX_TX" description:"unsigned transaction hex" required:"true"`
	WIF         string   `long:"wif" env:"OMNI_TX_WIF" description:"WIF private key for every input" required:"true"`
	Inputs      []string `long:"input" description:"index:type:script_pubkey_hex[:amount_btc], repeatable" required:"true"`
	HashType    string   `long:"hash-type" description:"sighash type" default:"ALL"`
	Concurrency int      `long:"concurrency" env:"OMNI_TX_CONCURRENCY" description:"max concurrent signer calls" default:"4"`
	RPS         int      `long:"rps" env:"OMNI_TX_SIGNER_RPS" description:"signer requests per second, 0 disables limiting" default:"100"`
}

func (c *signCommand) Execute(_ []string) error {
	tx, err := btc.ParseTransactionHex(c.Tx)
	if err != nil {
		return fmt.Errorf("decode transaction: %w", err)
	}
	hashType, err := sighash.ParseType(c.HashType)
	if err != nil {
		return err
	}
	specs, err := parseInputSpecs(c.Inputs)
	if err != nil {
		return err
	}

	local := signer.NewLocalSigner()
	if err := local.AddWIF(localKeyPath, c.WIF); err != nil {
		return fmt.Errorf("load key: %w", err)
	}
	pub, err := local.PublicKey(localKeyPath)
	if err != nil {
		return err
	}

	var remote signer.Signer = local
	remote = signer.NewRateLimited(remote, c.RPS)
	remote = signer.NewCircuitBreaker(remote, "local", 0, 0)
	remote = signer.NewObserved(remote, metrics.NewSigner("local"))

	svc, err := api.NewService(remote, metrics.NewService(c.app.opts.Network), c.app.logger, api.WithConcurrency(c.Concurrency))
	if err != nil {
		return err
	}

	inputs := make([]api.InputSigning, 0, len(specs))
	for _, spec := range specs {
		in := spec.signing(hashType)
		in.PublicKey = pub
		inputs = append(inputs, in)
	}

	finalized, err := svc.SignTransaction(context.Background(), roles.NewUnsigned(tx), inputs)
	if err != nil {
		return err
	}
	c.app.logger.Debug("signed", zap.Stringer("txid", finalized.Txid()))

	_, err = fmt.Fprintln(c.app.out, finalized.Hex())
	return err
}

type uriCommand struct {
	app *app
}

type uriResult struct {
	Address      string            `json:"address"`
	Amount       string            `json:"amount,omitempty"`
	Label        string            `json:"label,omitempty"`
	Message      string            `json:"message,omitempty"`
	Extras       map[string]string `json:"extras,omitempty"`
	ScriptPubKey string            `json:"script_pubkey,omitempty"`
}

func (c *uriCommand) Execute(args []string) error {
	uri, err := singleArg(args, "URI")
	if err != nil {
		return err
	}
	req, err := bip21.Parse(uri)
	if err != nil {
		return err
	}
	params, err := btc.NetParams(c.app.opts.Network)
	if err != nil {
		return err
	}

	result := uriResult{Address: req.Address, Extras: req.Extras}
	if req.Label != nil {
		result.Label = *req.Label
	}
	if req.Message != nil {
		result.Message = *req.Message
	}
	if req.Amount != nil {
		result.Amount = req.Amount.BTCString()
		out, err := req.TxOut(params)
		if err != nil {
			return err
		}
		result.ScriptPubKey = out.ScriptPubKey.String()
	}
	return c.app.printJSON(result)
}

type versionCommand struct {
	app *app
}

func (c *versionCommand) Execute(_ []string) error {
	_, err := fmt.Fprintf(c.app.out, "omni-tx %s\n", version)
	return err
}
