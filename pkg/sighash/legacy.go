package sighash

import (
	"bytes"
	"math"

	"github.com/suffix-labs/omni-transaction/pkg/btc"
	"github.com/suffix-labs/omni-transaction/pkg/encoding"
)

// LegacyPreimage returns the legacy signature hash preimage for input
// inputIndex.
//
// The input's ScriptSig must already hold the script being satisfied,
// normally the previous output's script_pubkey. Other inputs are serialized
// with empty scripts, so their script_sig contents never affect the result.
//
// Layout for ALL:
//
//	version | inputs (others with empty script_sig) | outputs | lock_time | type (4 bytes LE)
//
// NONE drops the outputs and zeroes the other inputs' sequences. SINGLE keeps
// outputs up to inputIndex, blanking all but the last, and also zeroes the
// other sequences. ANYONECANPAY serializes the signed input only.
//
// SINGLE without a matching output is rejected: the resulting digest is the
// constant 1 and a signature over it authorizes any spend.
func LegacyPreimage(tx *btc.Transaction, inputIndex int, hashType Type) ([]byte, error) {
	if err := btc.CheckInputIndex("legacy sighash", inputIndex, len(tx.Inputs)); err != nil {
		return nil, err
	}
	if err := hashType.Validate(); err != nil {
		return nil, err
	}
	base := hashType.Base()
	if base == Single && inputIndex >= len(tx.Outputs) {
		return nil, btc.NewFieldError("sighash_type",
			"SIGHASH_SINGLE for input %d without matching output (have %d outputs)", inputIndex, len(tx.Outputs))
	}

	var buf bytes.Buffer
	ew := encoding.NewWriter(&buf)
	ew.Encode(tx.Version)

	if hashType.HasAnyoneCanPay() {
		in := tx.Inputs[inputIndex]
		ew.CompactSize(1)
		ew.Encode(in.PreviousOutput)
		ew.Encode(in.ScriptSig)
		ew.Encode(in.Sequence)
	} else {
		ew.CompactSize(uint64(len(tx.Inputs)))
		for i := range tx.Inputs {
			in := &tx.Inputs[i]
			ew.Encode(in.PreviousOutput)
			if i == inputIndex {
				ew.Encode(in.ScriptSig)
				ew.Encode(in.Sequence)
				continue
			}
			ew.Encode(btc.ScriptBuf(nil))
			if base == None || base == Single {
				ew.Encode(btc.SequenceZero)
			} else {
				ew.Encode(in.Sequence)
			}
		}
	}

	switch base {
	case None:
		ew.CompactSize(0)
	case Single:
		ew.CompactSize(uint64(inputIndex + 1))
		for i := 0; i < inputIndex; i++ {
			// Blank output: value -1 and an empty script.
			ew.Uint64(math.MaxUint64)
			ew.Encode(btc.ScriptBuf(nil))
		}
		ew.Encode(tx.Outputs[inputIndex])
	default:
		ew.CompactSize(uint64(len(tx.Outputs)))
		for i := range tx.Outputs {
			ew.Encode(tx.Outputs[i])
		}
	}

	ew.Encode(tx.LockTime)
	ew.Uint32(uint32(hashType))

	if _, err := ew.Result(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LegacyHash returns the double SHA-256 of LegacyPreimage.
func LegacyHash(tx *btc.Transaction, inputIndex int, hashType Type) ([32]byte, error) {
	preimage, err := LegacyPreimage(tx, inputIndex, hashType)
	if err != nil {
		return [32]byte{}, err
	}
	return btc.DoubleSHA256(preimage), nil
}
