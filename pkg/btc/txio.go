package btc

import (
	"io"

	"github.com/suffix-labs/omni-transaction/pkg/encoding"
)

// Minimum wire sizes, used to bound decoded element counts.
const (
	minTxInSize  = OutPointSize + 1 + SequenceSize
	minTxOutSize = 8 + 1
)

// TxIn is a transaction input.
//
// Witness travels with the input but is not part of its inline encoding; the
// transaction writes all witnesses after the outputs in the segwit form.
type TxIn struct {
	PreviousOutput OutPoint
	ScriptSig      ScriptBuf
	Sequence       Sequence
	Witness        Witness
}

// NewTxIn creates an input spending prev with an empty script_sig and
// SequenceMax.
func NewTxIn(prev OutPoint) TxIn {
	return TxIn{PreviousOutput: prev, Sequence: SequenceMax}
}

func (in TxIn) clone() TxIn {
	return TxIn{
		PreviousOutput: in.PreviousOutput,
		ScriptSig:      ScriptBuf(cloneBytes(in.ScriptSig)),
		Sequence:       in.Sequence,
		Witness:        in.Witness.clone(),
	}
}

// Encode writes outpoint, script_sig and sequence.
func (in TxIn) Encode(w io.Writer) (int, error) {
	ew := encoding.NewWriter(w)
	ew.Encode(in.PreviousOutput)
	ew.Encode(in.ScriptSig)
	ew.Encode(in.Sequence)
	return ew.Result()
}

// Decode reads outpoint, script_sig and sequence. The witness is left
// untouched.
func (in *TxIn) Decode(r io.Reader) error {
	if err := in.PreviousOutput.Decode(r); err != nil {
		return err
	}
	if err := in.ScriptSig.Decode(r); err != nil {
		return err
	}
	return in.Sequence.Decode(r)
}

// TxOut is a transaction output.
type TxOut struct {
	Value        Amount
	ScriptPubKey ScriptBuf
}

// NewTxOut creates an output paying value to scriptPubKey.
func NewTxOut(value Amount, scriptPubKey ScriptBuf) TxOut {
	return TxOut{Value: value, ScriptPubKey: scriptPubKey}
}

func (out TxOut) clone() TxOut {
	return TxOut{Value: out.Value, ScriptPubKey: ScriptBuf(cloneBytes(out.ScriptPubKey))}
}

func (out TxOut) Encode(w io.Writer) (int, error) {
	ew := encoding.NewWriter(w)
	ew.Encode(out.Value)
	ew.Encode(out.ScriptPubKey)
	return ew.Result()
}

func (out *TxOut) Decode(r io.Reader) error {
	if err := out.Value.Decode(r); err != nil {
		return err
	}
	return out.ScriptPubKey.Decode(r)
}
