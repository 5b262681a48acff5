package btc

// TxView is a JSON friendly description of a transaction. It is derived from
// the transaction and plays no part in its wire encoding.
type TxView struct {
	Txid     string      `json:"txid"`
	Wtxid    string      `json:"hash"`
	Version  int32       `json:"version"`
	Size     int         `json:"size"`
	VSize    int         `json:"vsize"`
	Weight   int         `json:"weight"`
	LockTime uint32      `json:"locktime"`
	Inputs   []TxInView  `json:"vin"`
	Outputs  []TxOutView `json:"vout"`
}

// TxInView describes one input.
type TxInView struct {
	Txid      string   `json:"txid"`
	Vout      uint32   `json:"vout"`
	ScriptSig string   `json:"scriptSig"`
	Witness   []string `json:"txinwitness,omitempty"`
	Sequence  uint32   `json:"sequence"`
}

// TxOutView describes one output.
type TxOutView struct {
	Value        string `json:"value"`
	Sats         uint64 `json:"sats"`
	N            int    `json:"n"`
	ScriptPubKey string `json:"scriptPubKey"`
	Type         string `json:"type"`
}

// Describe returns a view of tx in the layout of a node's decoded
// transaction.
func (tx *Transaction) Describe() TxView {
	view := TxView{
		Txid:     tx.Txid().String(),
		Wtxid:    tx.Wtxid().String(),
		Version:  int32(tx.Version),
		Size:     tx.TotalSize(),
		VSize:    tx.VSize(),
		Weight:   tx.Weight(),
		LockTime: uint32(tx.LockTime),
		Inputs:   make([]TxInView, len(tx.Inputs)),
		Outputs:  make([]TxOutView, len(tx.Outputs)),
	}

	for i, in := range tx.Inputs {
		view.Inputs[i] = TxInView{
			Txid:      in.PreviousOutput.Txid.String(),
			Vout:      in.PreviousOutput.Vout,
			ScriptSig: in.ScriptSig.String(),
			Sequence:  uint32(in.Sequence),
		}
		if !in.Witness.IsEmpty() {
			view.Inputs[i].Witness = in.Witness.HexItems()
		}
	}

	for i, out := range tx.Outputs {
		view.Outputs[i] = TxOutView{
			Value:        out.Value.BTCString(),
			Sats:         uint64(out.Value),
			N:            i,
			ScriptPubKey: out.ScriptPubKey.String(),
			Type:         out.ScriptPubKey.Class(),
		}
	}

	return view
}
