// Package btc implements the Bitcoin transaction primitives and their
// consensus wire encoding.
//
// Every type implements encoding.Encoder and encoding.Decoder, and
// decode(encode(v)) reproduces v exactly. Hashes are stored in internal
// (wire) byte order and displayed as reversed hex, matching the textual form
// used by Bitcoin nodes and block explorers.
package btc

import (
	"encoding/hex"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/suffix-labs/omni-transaction/pkg/encoding"
)

// HashSize is the size of a SHA-256 digest.
const HashSize = 32

// Hash is a 32-byte digest in internal byte order. The zero value is the
// all-zeros hash used as the previous txid of coinbase inputs.
type Hash [HashSize]byte

// DoubleSHA256 returns SHA256(SHA256(b)).
func DoubleSHA256(b []byte) Hash {
	return Hash(chainhash.DoubleHashH(b))
}

// NewHash copies a 32-byte slice in internal byte order into a Hash.
func NewHash(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashSize {
		return h, NewFieldError("hash", "expected %d bytes, got %d", HashSize, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// ParseHash parses the reversed-hex display form of a hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != 2*HashSize {
		return h, NewFieldError("hash", "expected %d hex characters, got %d", 2*HashSize, len(s))
	}
	var ch chainhash.Hash
	if err := chainhash.Decode(&ch, s); err != nil {
		return h, &FieldError{Field: "hash", Message: "invalid hex", Cause: err}
	}
	return Hash(ch), nil
}

// String returns the reversed-hex display form.
func (h Hash) String() string {
	return chainhash.Hash(h).String()
}

// IsAllZeros reports whether every byte of h is zero.
func (h Hash) IsAllZeros() bool {
	return h == Hash{}
}

// Hex returns the hex of h in internal byte order.
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

func (h Hash) Encode(w io.Writer) (int, error) {
	return w.Write(h[:])
}

func (h *Hash) Decode(r io.Reader) error {
	return encoding.ReadFull(r, h[:], "hash")
}
