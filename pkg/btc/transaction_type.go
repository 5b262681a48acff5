package btc

import "strings"

// TransactionType names the locking script template an input spends, which
// decides how its signature is spliced back in. It does not change the wire
// encoding.
type TransactionType uint8

const (
	// P2PKH inputs carry <sig> <pubkey> in script_sig.
	P2PKH TransactionType = iota + 1
	// P2WPKH inputs carry [sig, pubkey] in the witness and an empty script_sig.
	P2WPKH
)

// UsesWitness reports whether the unlocking data goes into the witness.
func (t TransactionType) UsesWitness() bool {
	return t == P2WPKH
}

// Validate returns an InvalidFieldValue error for unknown types.
func (t TransactionType) Validate() error {
	if t != P2PKH && t != P2WPKH {
		return NewFieldError("transaction_type", "unknown transaction type %d", uint8(t))
	}
	return nil
}

func (t TransactionType) String() string {
	switch t {
	case P2PKH:
		return "p2pkh"
	case P2WPKH:
		return "p2wpkh"
	default:
		return "unknown"
	}
}

// ParseTransactionType parses "p2pkh" or "p2wpkh" (case-insensitive).
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(s) {
	case "p2pkh":
		return P2PKH, nil
	case "p2wpkh":
		return P2WPKH, nil
	default:
		return 0, NewFieldError("transaction_type", "unknown transaction type %q", s)
	}
}
