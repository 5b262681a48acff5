package roles

import (
	"bytes"
	"fmt"

	"github.com/suffix-labs/omni-transaction/pkg/btc"
)

// Combiner merges Finalized transactions built from the same unsigned
// transaction.
//
// This enables parallel signing: each party finalizes the inputs it controls
// on its own copy, and the Combiner gathers every party's unlocking data into
// one transaction.
//
// Copies are compatible when they agree on version, lock time, every input's
// outpoint and sequence, and every output.
type Combiner struct {
	txs []*Finalized
}

// NewCombiner creates a new Combiner.
func NewCombiner(txs ...*Finalized) *Combiner {
	return &Combiner{txs: txs}
}

// Combine merges all transactions into a new Finalized.
//
// Returns an error if:
//   - no transactions were given
//   - two transactions are incompatible
//   - two transactions carry different unlocking data for the same input
func (c *Combiner) Combine() (*Finalized, error) {
	if len(c.txs) == 0 {
		return nil, fmt.Errorf("no transactions to combine")
	}

	result := c.txs[0].tx.Copy()
	for i := 1; i < len(c.txs); i++ {
		if err := c.mergeInto(result, c.txs[i].tx); err != nil {
			return nil, fmt.Errorf("failed to merge transaction %d: %w", i, err)
		}
	}

	return &Finalized{tx: result}, nil
}

func (c *Combiner) mergeInto(dst, src *btc.Transaction) error {
	if err := c.validateCompatible(dst, src); err != nil {
		return err
	}

	for i := range dst.Inputs {
		dstInput := &dst.Inputs[i]
		srcInput := &src.Inputs[i]

		switch {
		case srcInput.ScriptSig.IsEmpty():
		case dstInput.ScriptSig.IsEmpty():
			dstInput.ScriptSig = append(btc.ScriptBuf(nil), srcInput.ScriptSig...)
		case !bytes.Equal(dstInput.ScriptSig, srcInput.ScriptSig):
			return fmt.Errorf("input %d: conflicting script_sig", i)
		}

		switch {
		case srcInput.Witness.IsEmpty():
		case dstInput.Witness.IsEmpty():
			dstInput.Witness = cloneWitness(srcInput.Witness)
		case !witnessEqual(dstInput.Witness, srcInput.Witness):
			return fmt.Errorf("input %d: conflicting witness", i)
		}
	}

	return nil
}

// validateCompatible checks that a and b are the same unsigned transaction.
func (c *Combiner) validateCompatible(a, b *btc.Transaction) error {
	if a.Version != b.Version {
		return fmt.Errorf("incompatible versions: %d != %d", a.Version, b.Version)
	}

	if a.LockTime != b.LockTime {
		return fmt.Errorf("incompatible lock times: %d != %d", a.LockTime, b.LockTime)
	}

	if len(a.Inputs) != len(b.Inputs) {
		return fmt.Errorf("incompatible input counts: %d != %d", len(a.Inputs), len(b.Inputs))
	}

	if len(a.Outputs) != len(b.Outputs) {
		return fmt.Errorf("incompatible output counts: %d != %d", len(a.Outputs), len(b.Outputs))
	}

	for i := range a.Inputs {
		if a.Inputs[i].PreviousOutput != b.Inputs[i].PreviousOutput {
			return fmt.Errorf("input %d has different prevout: %s != %s",
				i, a.Inputs[i].PreviousOutput, b.Inputs[i].PreviousOutput)
		}
		if a.Inputs[i].Sequence != b.Inputs[i].Sequence {
			return fmt.Errorf("input %d has different sequence: %s != %s",
				i, a.Inputs[i].Sequence, b.Inputs[i].Sequence)
		}
	}

	for i := range a.Outputs {
		if a.Outputs[i].Value != b.Outputs[i].Value ||
			!bytes.Equal(a.Outputs[i].ScriptPubKey, b.Outputs[i].ScriptPubKey) {
			return fmt.Errorf("output %d differs", i)
		}
	}

	return nil
}

func witnessEqual(a, b btc.Witness) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func cloneWitness(w btc.Witness) btc.Witness {
	out := make(btc.Witness, len(w))
	for i, item := range w {
		if item != nil {
			out[i] = append([]byte{}, item...)
		}
	}
	return out
}
