package roles

import (
	"github.com/suffix-labs/omni-transaction/pkg/btc"
)

// p2wpkhWitnessItems is the stack size of a P2WPKH spend: [sig, pubkey].
const p2wpkhWitnessItems = 2

// spliceScriptSig sets the script_sig of one input. No other input or
// output is touched.
func spliceScriptSig(tx *btc.Transaction, index int, scriptSig btc.ScriptBuf, txType btc.TransactionType) error {
	if err := btc.CheckInputIndex("build with script_sig", index, len(tx.Inputs)); err != nil {
		return err
	}
	if err := txType.Validate(); err != nil {
		return err
	}
	if txType.UsesWitness() {
		return btc.NewFieldError("transaction_type",
			"%s: %s inputs are finalized with a witness", describeInput(tx, index), txType)
	}
	if scriptSig.IsEmpty() {
		return btc.NewFieldError("script_sig", "%s: empty script_sig", describeInput(tx, index))
	}

	tx.Inputs[index].ScriptSig = append(btc.ScriptBuf(nil), scriptSig...)
	return nil
}

// spliceWitness sets the witness of one input. No other input or output is
// touched.
func spliceWitness(tx *btc.Transaction, index int, witness btc.Witness, txType btc.TransactionType) error {
	if err := btc.CheckInputIndex("build with witness", index, len(tx.Inputs)); err != nil {
		return err
	}
	if err := txType.Validate(); err != nil {
		return err
	}
	if !txType.UsesWitness() {
		return btc.NewFieldError("transaction_type",
			"%s: %s inputs are finalized with a script_sig", describeInput(tx, index), txType)
	}
	if txType == btc.P2WPKH && len(witness) != p2wpkhWitnessItems {
		return btc.NewFieldError("witness",
			"%s: P2WPKH witness needs %d items, got %d", describeInput(tx, index), p2wpkhWitnessItems, len(witness))
	}

	tx.Inputs[index].Witness = cloneWitness(witness)
	return nil
}
