// Package roles implements the two-phase signing workflow for Bitcoin
// transactions.
//
// Construction is split into distinct states:
//   - Builder: collects version, lock time, inputs and outputs
//   - Unsigned: the built transaction. Script-sigs may be populated here to
//     compute legacy sighashes; segwit sighashes need no mutation.
//   - Finalized: produced only by splicing a signature into an input. Its
//     encoding is what gets broadcast.
//   - Combiner: merges Finalized transactions in which different parties
//     finalized different inputs.
//
// Serializing is only offered on Finalized, so a transaction can never be
// broadcast with a script_sig that was set purely for sighash computation.
package roles

import (
	"fmt"

	"github.com/suffix-labs/omni-transaction/pkg/btc"
)

// Builder assembles an unsigned transaction.
//
// Example:
//
//	unsigned, err := roles.NewBuilder().
//		Version(btc.VersionTwo).
//		LockTime(0).
//		Inputs([]btc.TxIn{btc.NewTxIn(prevout)}).
//		Outputs([]btc.TxOut{btc.NewTxOut(amount, script)}).
//		Build()
type Builder struct {
	version  btc.Version
	lockTime btc.LockTime
	inputs   []btc.TxIn
	outputs  []btc.TxOut
}

// NewBuilder creates a Builder for a version 2 transaction with lock time 0.
func NewBuilder() *Builder {
	return &Builder{version: btc.VersionTwo}
}

// Version sets the transaction version.
func (b *Builder) Version(v btc.Version) *Builder {
	b.version = v
	return b
}

// LockTime sets the transaction lock time.
func (b *Builder) LockTime(lt btc.LockTime) *Builder {
	b.lockTime = lt
	return b
}

// Inputs replaces the input list. Order is preserved and determines input
// indices.
func (b *Builder) Inputs(inputs []btc.TxIn) *Builder {
	b.inputs = append([]btc.TxIn(nil), inputs...)
	return b
}

// AddInput appends one input.
func (b *Builder) AddInput(in btc.TxIn) *Builder {
	b.inputs = append(b.inputs, in)
	return b
}

// Outputs replaces the output list.
func (b *Builder) Outputs(outputs []btc.TxOut) *Builder {
	b.outputs = append([]btc.TxOut(nil), outputs...)
	return b
}

// AddOutput appends one output.
func (b *Builder) AddOutput(out btc.TxOut) *Builder {
	b.outputs = append(b.outputs, out)
	return b
}

// Build returns the Unsigned transaction.
//
// Returns an error if:
//   - there are no inputs or no outputs
//   - the output values overflow when summed
//
// The builder's slices are deep-copied, so later builder calls do not affect
// the result.
func (b *Builder) Build() (*Unsigned, error) {
	if len(b.inputs) == 0 {
		return nil, btc.NewFieldError("inputs", "transaction has no inputs")
	}
	if len(b.outputs) == 0 {
		return nil, btc.NewFieldError("outputs", "transaction has no outputs")
	}
	if _, err := TotalOutput(b.outputs); err != nil {
		return nil, err
	}

	tx := &btc.Transaction{
		Version:  b.version,
		LockTime: b.lockTime,
		Inputs:   b.inputs,
		Outputs:  b.outputs,
	}
	return NewUnsigned(tx), nil
}

// TotalOutput sums output values with overflow checking.
func TotalOutput(outputs []btc.TxOut) (btc.Amount, error) {
	var total btc.Amount
	for i, out := range outputs {
		sum, ok := total.CheckedAdd(out.Value)
		if !ok {
			return 0, btc.NewFieldError("outputs", "value overflow at output %d", i)
		}
		total = sum
	}
	return total, nil
}

// describeInput is used in error messages.
func describeInput(tx *btc.Transaction, index int) string {
	return fmt.Sprintf("input %d (%s)", index, tx.Inputs[index].PreviousOutput)
}
