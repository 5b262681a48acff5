// Package sighash builds the signature hash preimages for Bitcoin inputs.
//
// Two algorithms are provided:
//   - Legacy: the original algorithm, used for P2PKH inputs. The signed input
//     carries the script being satisfied in its script_sig; every other input
//     is serialized with an empty script_sig.
//   - Segwit v0 (BIP-143): used for P2WPKH inputs. Commits to the spent
//     value and hashes prevouts, sequences and outputs once per transaction.
//
// The value to sign is the double SHA-256 of the preimage.
package sighash

import (
	"fmt"
	"strings"

	"github.com/suffix-labs/omni-transaction/pkg/btc"
)

// Type is the sighash type appended to preimages and signatures.
type Type uint32

const (
	All          Type = 0x01
	None         Type = 0x02
	Single       Type = 0x03
	AnyoneCanPay Type = 0x80

	AllAnyoneCanPay    = All | AnyoneCanPay
	NoneAnyoneCanPay   = None | AnyoneCanPay
	SingleAnyoneCanPay = Single | AnyoneCanPay
)

// baseMask selects the output-commitment mode from a sighash type.
const baseMask = 0x1f

// Base returns the type without the ANYONECANPAY bit.
func (t Type) Base() Type {
	return t & baseMask
}

// HasAnyoneCanPay reports whether only the signed input is committed to.
func (t Type) HasAnyoneCanPay() bool {
	return t&AnyoneCanPay != 0
}

// Validate accepts only the six standard sighash types.
func (t Type) Validate() error {
	switch t {
	case All, None, Single, AllAnyoneCanPay, NoneAnyoneCanPay, SingleAnyoneCanPay:
		return nil
	}
	return btc.NewFieldError("sighash_type", "unsupported sighash type 0x%02x", uint32(t))
}

func (t Type) String() string {
	var base string
	switch t.Base() {
	case All:
		base = "ALL"
	case None:
		base = "NONE"
	case Single:
		base = "SINGLE"
	default:
		return fmt.Sprintf("0x%02x", uint32(t))
	}
	if t.HasAnyoneCanPay() {
		return base + "|ANYONECANPAY"
	}
	return base
}

// ParseType parses the names produced by String, e.g. "ALL" or
// "SINGLE|ANYONECANPAY" (case-insensitive).
func ParseType(s string) (Type, error) {
	for _, t := range []Type{All, None, Single, AllAnyoneCanPay, NoneAnyoneCanPay, SingleAnyoneCanPay} {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, btc.NewFieldError("sighash_type", "unknown sighash type %q", s)
}
