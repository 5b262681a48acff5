package btc

import (
	"io"

	"github.com/suffix-labs/omni-transaction/pkg/encoding"
)

// Txid identifies a transaction: the double SHA-256 of its non-witness
// serialization. The zero value is the all-zeros txid.
type Txid Hash

// ParseTxid parses a txid as displayed by nodes and explorers.
func ParseTxid(s string) (Txid, error) {
	h, err := ParseHash(s)
	if err != nil {
		return Txid{}, &FieldError{Field: "txid", Message: "invalid txid", Cause: err}
	}
	return Txid(h), nil
}

// Hash returns the underlying digest.
func (t Txid) Hash() Hash {
	return Hash(t)
}

func (t Txid) String() string {
	return Hash(t).String()
}

func (t Txid) IsAllZeros() bool {
	return Hash(t).IsAllZeros()
}

func (t Txid) MarshalText() ([]byte, error) {
	return Hash(t).MarshalText()
}

func (t *Txid) UnmarshalText(text []byte) error {
	return (*Hash)(t).UnmarshalText(text)
}

func (t Txid) Encode(w io.Writer) (int, error) {
	return w.Write(t[:])
}

func (t *Txid) Decode(r io.Reader) error {
	return encoding.ReadFull(r, t[:], "txid")
}
