package btc

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/suffix-labs/omni-transaction/pkg/encoding"
)

// BIP-144 marker and flag bytes.
const (
	witnessMarker = 0x00
	witnessFlag   = 0x01
)

// WitnessScaleFactor is the weight of a non-witness byte.
const WitnessScaleFactor = 4

// Transaction is a Bitcoin transaction. Input and output order is preserved
// everywhere; the input index is what sighash and finalization address.
type Transaction struct {
	Version  Version
	LockTime LockTime
	Inputs   []TxIn
	Outputs  []TxOut
}

// ParseTransaction decodes a transaction in either wire form. Trailing bytes
// are rejected.
func ParseTransaction(b []byte) (*Transaction, error) {
	tx, err := encoding.Deserialize[Transaction](b)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// ParseTransactionHex decodes a hex encoded transaction.
func ParseTransactionHex(s string) (*Transaction, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, &FieldError{Field: "transaction", Message: "invalid hex", Cause: err}
	}
	return ParseTransaction(b)
}

// HasWitness reports whether any input carries a non-empty witness.
func (tx *Transaction) HasWitness() bool {
	for i := range tx.Inputs {
		if !tx.Inputs[i].Witness.IsEmpty() {
			return true
		}
	}
	return false
}

// Encode writes the canonical encoding: the BIP-144 segwit form when any
// input has a witness, the legacy form otherwise.
func (tx *Transaction) Encode(w io.Writer) (int, error) {
	return tx.encode(w, tx.HasWitness())
}

// EncodeNoWitness writes the legacy form regardless of witnesses.
func (tx *Transaction) EncodeNoWitness(w io.Writer) (int, error) {
	return tx.encode(w, false)
}

// encode writes:
//
//	version | [00 01] | inputs | outputs | [witness per input] | lock_time
func (tx *Transaction) encode(w io.Writer, withWitness bool) (int, error) {
	ew := encoding.NewWriter(w)
	ew.Encode(tx.Version)
	if withWitness {
		ew.Uint8(witnessMarker)
		ew.Uint8(witnessFlag)
	}

	ew.CompactSize(uint64(len(tx.Inputs)))
	for i := range tx.Inputs {
		ew.Encode(tx.Inputs[i])
	}

	ew.CompactSize(uint64(len(tx.Outputs)))
	for i := range tx.Outputs {
		ew.Encode(tx.Outputs[i])
	}

	if withWitness {
		for i := range tx.Inputs {
			ew.Encode(tx.Inputs[i].Witness)
		}
	}

	ew.Encode(tx.LockTime)
	return ew.Result()
}

// Serialize returns the canonical, broadcastable encoding.
func (tx *Transaction) Serialize() []byte {
	var buf bytes.Buffer
	_, _ = tx.Encode(&buf)
	return buf.Bytes()
}

// SerializeNoWitness returns the legacy encoding.
func (tx *Transaction) SerializeNoWitness() []byte {
	var buf bytes.Buffer
	_, _ = tx.EncodeNoWitness(&buf)
	return buf.Bytes()
}

// Decode reads either wire form.
//
// A zero input count is taken as the segwit marker and must be followed by
// flag 0x01. A segwit encoding whose witnesses are all empty is rejected,
// since its canonical encoding is the legacy form.
func (tx *Transaction) Decode(r io.Reader) error {
	if err := tx.Version.Decode(r); err != nil {
		return err
	}

	inputCount, err := encoding.ReadCount(r, "input count", minTxInSize)
	if err != nil {
		return err
	}

	segwit := false
	if inputCount == witnessMarker {
		flag, err := encoding.ReadUint8(r, "segwit flag")
		if err != nil {
			return err
		}
		if flag != witnessFlag {
			return encoding.InvalidData("segwit flag", "expected 0x%02x, got 0x%02x", witnessFlag, flag)
		}
		segwit = true

		inputCount, err = encoding.ReadCount(r, "input count", minTxInSize)
		if err != nil {
			return err
		}
	}

	tx.Inputs = nil
	for i := 0; i < inputCount; i++ {
		var in TxIn
		if err := in.Decode(r); err != nil {
			return err
		}
		tx.Inputs = append(tx.Inputs, in)
	}

	outputCount, err := encoding.ReadCount(r, "output count", minTxOutSize)
	if err != nil {
		return err
	}
	tx.Outputs = nil
	for i := 0; i < outputCount; i++ {
		var out TxOut
		if err := out.Decode(r); err != nil {
			return err
		}
		tx.Outputs = append(tx.Outputs, out)
	}

	if segwit {
		for i := range tx.Inputs {
			if err := tx.Inputs[i].Witness.Decode(r); err != nil {
				return err
			}
		}
		if !tx.HasWitness() {
			return encoding.InvalidData("witness", "segwit marker present but all witnesses are empty")
		}
	}

	return tx.LockTime.Decode(r)
}

// Txid returns the double SHA-256 of the legacy encoding.
func (tx *Transaction) Txid() Txid {
	return Txid(DoubleSHA256(tx.SerializeNoWitness()))
}

// Wtxid returns the double SHA-256 of the canonical encoding. It equals the
// txid when no input has a witness.
func (tx *Transaction) Wtxid() Hash {
	return DoubleSHA256(tx.Serialize())
}

// BaseSize is the size of the legacy encoding.
func (tx *Transaction) BaseSize() int {
	return len(tx.SerializeNoWitness())
}

// TotalSize is the size of the canonical encoding.
func (tx *Transaction) TotalSize() int {
	return len(tx.Serialize())
}

// Weight returns base*3 + total as defined by BIP-141.
func (tx *Transaction) Weight() int {
	return tx.BaseSize()*(WitnessScaleFactor-1) + tx.TotalSize()
}

// VSize returns the weight divided by four, rounded up.
func (tx *Transaction) VSize() int {
	return (tx.Weight() + WitnessScaleFactor - 1) / WitnessScaleFactor
}

// Copy returns a deep copy of tx.
func (tx *Transaction) Copy() *Transaction {
	out := &Transaction{Version: tx.Version, LockTime: tx.LockTime}
	if tx.Inputs != nil {
		out.Inputs = make([]TxIn, len(tx.Inputs))
		for i := range tx.Inputs {
			out.Inputs[i] = tx.Inputs[i].clone()
		}
	}
	if tx.Outputs != nil {
		out.Outputs = make([]TxOut, len(tx.Outputs))
		for i := range tx.Outputs {
			out.Outputs[i] = tx.Outputs[i].clone()
		}
	}
	return out
}
