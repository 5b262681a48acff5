package roles

import (
	"github.com/suffix-labs/omni-transaction/pkg/btc"
	"github.com/suffix-labs/omni-transaction/pkg/sighash"
)

// Unsigned is a built transaction awaiting signatures.
//
// The only permitted mutation is SetScriptSig, which prepares an input for
// legacy sighash computation. Splicing a signature with BuildWithScriptSig or
// BuildWithWitness yields a Finalized copy and leaves the Unsigned untouched.
//
// Unsigned is not safe for concurrent mutation. Computing sighashes from
// several goroutines is safe as long as none calls SetScriptSig.
type Unsigned struct {
	tx *btc.Transaction

	// sighashScripts tracks inputs whose script_sig was set for sighash
	// computation only. They are cleared when the transaction is finalized.
	sighashScripts map[int]bool

	// digests holds the BIP-143 hashes, computed once at construction.
	// Script-sigs are not part of them, so SetScriptSig keeps them valid.
	digests *sighash.TxDigests
}

// NewUnsigned wraps a deep copy of tx. Existing script-sigs and witnesses
// are kept as pre-finalized unlocking data.
func NewUnsigned(tx *btc.Transaction) *Unsigned {
	cp := tx.Copy()
	return &Unsigned{
		tx:             cp,
		sighashScripts: make(map[int]bool),
		digests:        sighash.ComputeTxDigests(cp),
	}
}

// Transaction returns a deep copy of the transaction for inspection.
func (u *Unsigned) Transaction() *btc.Transaction {
	return u.tx.Copy()
}

// InputCount returns the number of inputs.
func (u *Unsigned) InputCount() int {
	return len(u.tx.Inputs)
}

// SetScriptSig sets the script_sig of input index to the script being
// satisfied, usually the previous output's script_pubkey, before calling
// LegacySighash.
func (u *Unsigned) SetScriptSig(index int, script btc.ScriptBuf) error {
	if err := btc.CheckInputIndex("set script_sig", index, len(u.tx.Inputs)); err != nil {
		return err
	}
	u.tx.Inputs[index].ScriptSig = append(btc.ScriptBuf(nil), script...)
	u.sighashScripts[index] = true
	return nil
}

// LegacyPreimage returns the legacy sighash preimage of input index.
func (u *Unsigned) LegacyPreimage(index int, hashType sighash.Type) ([]byte, error) {
	return sighash.LegacyPreimage(u.tx, index, hashType)
}

// LegacySighash returns the legacy digest to sign for input index.
func (u *Unsigned) LegacySighash(index int, hashType sighash.Type) ([32]byte, error) {
	return sighash.LegacyHash(u.tx, index, hashType)
}

// SegwitPreimage returns the BIP-143 preimage of input index.
func (u *Unsigned) SegwitPreimage(index int, hashType sighash.Type, scriptCode btc.ScriptBuf, value btc.Amount) ([]byte, error) {
	return sighash.SegwitPreimageWithDigests(u.tx, u.digests, index, scriptCode, value, hashType)
}

// SegwitSighash returns the BIP-143 digest to sign for input index.
func (u *Unsigned) SegwitSighash(index int, hashType sighash.Type, scriptCode btc.ScriptBuf, value btc.Amount) ([32]byte, error) {
	return sighash.SegwitHashWithDigests(u.tx, u.digests, index, scriptCode, value, hashType)
}

// BuildWithScriptSig splices scriptSig into input index and returns the
// Finalized transaction. Used for legacy inputs.
func (u *Unsigned) BuildWithScriptSig(index int, scriptSig btc.ScriptBuf, txType btc.TransactionType) (*Finalized, error) {
	tx := u.finalizedCopy()
	if err := spliceScriptSig(tx, index, scriptSig, txType); err != nil {
		return nil, err
	}
	return &Finalized{tx: tx}, nil
}

// BuildWithWitness splices witness into input index and returns the
// Finalized transaction. Used for segwit inputs; the result serializes in
// the segwit form.
func (u *Unsigned) BuildWithWitness(index int, witness btc.Witness, txType btc.TransactionType) (*Finalized, error) {
	tx := u.finalizedCopy()
	if err := spliceWitness(tx, index, witness, txType); err != nil {
		return nil, err
	}
	return &Finalized{tx: tx}, nil
}

// finalizedCopy copies the transaction without the sighash-only scripts.
func (u *Unsigned) finalizedCopy() *btc.Transaction {
	tx := u.tx.Copy()
	for index := range u.sighashScripts {
		tx.Inputs[index].ScriptSig = nil
	}
	return tx
}
