package roles

import (
	"encoding/hex"

	"github.com/suffix-labs/omni-transaction/pkg/btc"
)

// Finalized is a transaction with at least one signature spliced in. Further
// inputs can be finalized from it; each call returns a new Finalized.
type Finalized struct {
	tx *btc.Transaction
}

// BuildWithScriptSig returns a copy with scriptSig spliced into input index.
func (f *Finalized) BuildWithScriptSig(index int, scriptSig btc.ScriptBuf, txType btc.TransactionType) (*Finalized, error) {
	tx := f.tx.Copy()
	if err := spliceScriptSig(tx, index, scriptSig, txType); err != nil {
		return nil, err
	}
	return &Finalized{tx: tx}, nil
}

// BuildWithWitness returns a copy with witness spliced into input index.
func (f *Finalized) BuildWithWitness(index int, witness btc.Witness, txType btc.TransactionType) (*Finalized, error) {
	tx := f.tx.Copy()
	if err := spliceWitness(tx, index, witness, txType); err != nil {
		return nil, err
	}
	return &Finalized{tx: tx}, nil
}

// Serialize returns the broadcastable encoding.
func (f *Finalized) Serialize() []byte {
	return f.tx.Serialize()
}

// Hex returns Serialize as hex.
func (f *Finalized) Hex() string {
	return hex.EncodeToString(f.Serialize())
}

// Txid returns the transaction id.
func (f *Finalized) Txid() btc.Txid {
	return f.tx.Txid()
}

// Transaction returns a deep copy of the transaction.
func (f *Finalized) Transaction() *btc.Transaction {
	return f.tx.Copy()
}

// IsComplete reports whether every input has unlocking data.
func (f *Finalized) IsComplete() bool {
	for i := range f.tx.Inputs {
		in := &f.tx.Inputs[i]
		if in.ScriptSig.IsEmpty() && in.Witness.IsEmpty() {
			return false
		}
	}
	return true
}
