// Package api provides the high-level entry points for building and signing
// Bitcoin transactions.
//
// The workflow is:
//
//  1. ProposeTransaction - builds the Unsigned transaction from a proposal
//  2. GetSighash - computes the digest an input's signature must cover
//  3. AppendSignature - splices a signature into an input
//  4. Combine - merges transactions finalized by different parties
//
// Service.SignTransaction runs steps 2 and 3 for every input against a
// remote signer.
package api

import (
	"fmt"

	"github.com/suffix-labs/omni-transaction/pkg/bip21"
	"github.com/suffix-labs/omni-transaction/pkg/btc"
	"github.com/suffix-labs/omni-transaction/pkg/roles"
	"github.com/suffix-labs/omni-transaction/pkg/sighash"
	"github.com/suffix-labs/omni-transaction/pkg/signature"
)

// TransactionInput is a previous output to spend.
type TransactionInput struct {
	Txid     btc.Txid
	Vout     uint32
	Sequence *btc.Sequence // nil = 0xFFFFFFFF
}

// TransactionOutput is a payment. Address takes precedence over
// ScriptPubKey when both are set.
type TransactionOutput struct {
	Value        btc.Amount
	Address      string
	ScriptPubKey btc.ScriptBuf
}

// TransactionProposal contains all inputs and outputs for a transaction.
type TransactionProposal struct {
	Version  btc.Version // zero = 2
	LockTime btc.LockTime
	Network  string // for address decoding; empty = mainnet

	Inputs  []TransactionInput
	Outputs []TransactionOutput

	// PaymentRequests are BIP-21 URIs appended after Outputs.
	PaymentRequests []string
}

// InputSigning describes how one input is signed.
type InputSigning struct {
	Index            int
	Type             btc.TransactionType
	PublicKey        []byte        // compressed
	PrevScriptPubKey btc.ScriptBuf // script of the output being spent
	Value            btc.Amount    // value of the output being spent
	HashType         sighash.Type  // zero = ALL

	// Signer routing.
	Path       string
	KeyVersion uint32
}

func (in InputSigning) hashType() sighash.Type {
	if in.HashType == 0 {
		return sighash.All
	}
	return in.HashType
}

// Finalizable is implemented by roles.Unsigned and roles.Finalized.
type Finalizable interface {
	BuildWithScriptSig(index int, scriptSig btc.ScriptBuf, txType btc.TransactionType) (*roles.Finalized, error)
	BuildWithWitness(index int, witness btc.Witness, txType btc.TransactionType) (*roles.Finalized, error)
}

// ProposeTransaction builds an Unsigned transaction from a proposal.
//
// Returns an error if:
//   - the network is unknown
//   - an output address or payment request cannot be resolved
//   - the transaction has no inputs or outputs
func ProposeTransaction(proposal *TransactionProposal) (*roles.Unsigned, error) {
	params, err := btc.NetParams(proposal.Network)
	if err != nil {
		return nil, err
	}

	b := roles.NewBuilder().LockTime(proposal.LockTime)
	if proposal.Version != 0 {
		b.Version(proposal.Version)
	}

	for _, input := range proposal.Inputs {
		in := btc.NewTxIn(btc.NewOutPoint(input.Txid, input.Vout))
		if input.Sequence != nil {
			in.Sequence = *input.Sequence
		}
		b.AddInput(in)
	}

	for i, output := range proposal.Outputs {
		script := output.ScriptPubKey
		if output.Address != "" {
			script, err = btc.ScriptFromAddress(output.Address, params)
			if err != nil {
				return nil, fmt.Errorf("output %d: %w", i, err)
			}
		}
		b.AddOutput(btc.NewTxOut(output.Value, script))
	}

	for i, uri := range proposal.PaymentRequests {
		req, err := bip21.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("payment request %d: %w", i, err)
		}
		out, err := req.TxOut(params)
		if err != nil {
			return nil, fmt.Errorf("payment request %d: %w", i, err)
		}
		b.AddOutput(out)
	}

	return b.Build()
}

// GetSighash computes the digest the signature for in must cover.
//
// For P2PKH inputs the previous script_pubkey is written into the input's
// script_sig on u first; it is cleared again when u is finalized.
func GetSighash(u *roles.Unsigned, in InputSigning) ([32]byte, error) {
	switch in.Type {
	case btc.P2PKH:
		if err := u.SetScriptSig(in.Index, in.PrevScriptPubKey); err != nil {
			return [32]byte{}, err
		}
		return u.LegacySighash(in.Index, in.hashType())
	case btc.P2WPKH:
		scriptCode, err := in.PrevScriptPubKey.P2WPKHScriptCode()
		if err != nil {
			return [32]byte{}, err
		}
		return u.SegwitSighash(in.Index, in.hashType(), scriptCode, in.Value)
	default:
		return [32]byte{}, btc.NewFieldError("transaction_type", "unsupported transaction type %s", in.Type)
	}
}

// AppendSignature splices sig (DER || sighash type) and the input's public
// key into the input described by in.
func AppendSignature(tx Finalizable, in InputSigning, sig []byte) (*roles.Finalized, error) {
	if in.Type.UsesWitness() {
		return tx.BuildWithWitness(in.Index, signature.BuildP2WPKHWitness(sig, in.PublicKey), in.Type)
	}
	return tx.BuildWithScriptSig(in.Index, signature.BuildScriptSig(sig, in.PublicKey), in.Type)
}

// Combine merges transactions finalized in parallel by different parties.
func Combine(txs ...*roles.Finalized) (*roles.Finalized, error) {
	return roles.NewCombiner(txs...).Combine()
}

// ParsePaymentRequest parses a BIP-21 URI.
func ParsePaymentRequest(uri string) (*bip21.PaymentRequest, error) {
	return bip21.Parse(uri)
}
