package sighash

import (
	"bytes"

	"github.com/suffix-labs/omni-transaction/pkg/btc"
	"github.com/suffix-labs/omni-transaction/pkg/encoding"
)

// TxDigests holds the BIP-143 per-transaction hashes. They depend only on
// the transaction, so signing several inputs can share one TxDigests.
type TxDigests struct {
	HashPrevouts [32]byte // dSHA256 of every input's outpoint
	HashSequence [32]byte // dSHA256 of every input's sequence
	HashOutputs  [32]byte // dSHA256 of every output
}

// ComputeTxDigests computes the digests used by SIGHASH_ALL. The other
// sighash types blank or narrow them per input.
func ComputeTxDigests(tx *btc.Transaction) *TxDigests {
	return &TxDigests{
		HashPrevouts: hashPrevouts(tx),
		HashSequence: hashSequence(tx),
		HashOutputs:  hashOutputs(tx),
	}
}

func hashPrevouts(tx *btc.Transaction) [32]byte {
	var buf bytes.Buffer
	for i := range tx.Inputs {
		_, _ = tx.Inputs[i].PreviousOutput.Encode(&buf)
	}
	return btc.DoubleSHA256(buf.Bytes())
}

func hashSequence(tx *btc.Transaction) [32]byte {
	var buf bytes.Buffer
	for i := range tx.Inputs {
		_, _ = tx.Inputs[i].Sequence.Encode(&buf)
	}
	return btc.DoubleSHA256(buf.Bytes())
}

func hashOutputs(tx *btc.Transaction) [32]byte {
	var buf bytes.Buffer
	for i := range tx.Outputs {
		_, _ = tx.Outputs[i].Encode(&buf)
	}
	return btc.DoubleSHA256(buf.Bytes())
}

// SegwitPreimage returns the BIP-143 preimage for input inputIndex spending
// value with the given script code. For P2WPKH the script code is
// ScriptBuf.P2WPKHScriptCode of the spent script_pubkey.
func SegwitPreimage(tx *btc.Transaction, inputIndex int, scriptCode btc.ScriptBuf, value btc.Amount, hashType Type) ([]byte, error) {
	if err := btc.CheckInputIndex("segwit sighash", inputIndex, len(tx.Inputs)); err != nil {
		return nil, err
	}
	return SegwitPreimageWithDigests(tx, ComputeTxDigests(tx), inputIndex, scriptCode, value, hashType)
}

// SegwitPreimageWithDigests is SegwitPreimage with precomputed digests.
//
// Layout:
//
//  1. version
//  2. hashPrevouts (zero with ANYONECANPAY)
//  3. hashSequence (zero with ANYONECANPAY, SINGLE or NONE)
//  4. outpoint of the signed input
//  5. script code (length prefixed)
//  6. value (8 bytes LE)
//  7. sequence of the signed input
//  8. hashOutputs (all outputs; SINGLE: only the output at inputIndex,
//     zero if there is none; NONE: zero)
//  9. lock_time
//  10. sighash type (4 bytes LE)
//
// A nil digests is computed from tx.
func SegwitPreimageWithDigests(tx *btc.Transaction, digests *TxDigests, inputIndex int, scriptCode btc.ScriptBuf, value btc.Amount, hashType Type) ([]byte, error) {
	if err := btc.CheckInputIndex("segwit sighash", inputIndex, len(tx.Inputs)); err != nil {
		return nil, err
	}
	if err := hashType.Validate(); err != nil {
		return nil, err
	}
	if digests == nil {
		digests = ComputeTxDigests(tx)
	}

	var zero [32]byte
	base := hashType.Base()
	anyoneCanPay := hashType.HasAnyoneCanPay()
	in := &tx.Inputs[inputIndex]

	prevouts := digests.HashPrevouts
	if anyoneCanPay {
		prevouts = zero
	}

	sequences := digests.HashSequence
	if anyoneCanPay || base == Single || base == None {
		sequences = zero
	}

	outputs := digests.HashOutputs
	switch {
	case base == Single && inputIndex < len(tx.Outputs):
		var buf bytes.Buffer
		_, _ = tx.Outputs[inputIndex].Encode(&buf)
		outputs = btc.DoubleSHA256(buf.Bytes())
	case base == Single || base == None:
		outputs = zero
	}

	var buf bytes.Buffer
	ew := encoding.NewWriter(&buf)
	ew.Encode(tx.Version)
	ew.Bytes(prevouts[:])
	ew.Bytes(sequences[:])
	ew.Encode(in.PreviousOutput)
	ew.Encode(scriptCode)
	ew.Encode(value)
	ew.Encode(in.Sequence)
	ew.Bytes(outputs[:])
	ew.Encode(tx.LockTime)
	ew.Uint32(uint32(hashType))

	if _, err := ew.Result(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SegwitHash returns the double SHA-256 of SegwitPreimage.
func SegwitHash(tx *btc.Transaction, inputIndex int, scriptCode btc.ScriptBuf, value btc.Amount, hashType Type) ([32]byte, error) {
	preimage, err := SegwitPreimage(tx, inputIndex, scriptCode, value, hashType)
	if err != nil {
		return [32]byte{}, err
	}
	return btc.DoubleSHA256(preimage), nil
}

// SegwitHashWithDigests is SegwitHash with precomputed digests.
func SegwitHashWithDigests(tx *btc.Transaction, digests *TxDigests, inputIndex int, scriptCode btc.ScriptBuf, value btc.Amount, hashType Type) ([32]byte, error) {
	preimage, err := SegwitPreimageWithDigests(tx, digests, inputIndex, scriptCode, value, hashType)
	if err != nil {
		return [32]byte{}, err
	}
	return btc.DoubleSHA256(preimage), nil
}
