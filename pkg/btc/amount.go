package btc

import (
	"fmt"
	"io"
	"math"

	"github.com/shopspring/decimal"

	"github.com/suffix-labs/omni-transaction/pkg/encoding"
)

// Amount is a value in satoshis.
type Amount uint64

const (
	SatoshiPerBitcoin = 100_000_000
	// MaxMoney is the total supply cap. It bounds parsed amounts only; any
	// uint64 decodes from the wire.
	MaxMoney Amount = 21_000_000 * SatoshiPerBitcoin
)

// CheckedAdd returns a+b, or false if the sum overflows.
func (a Amount) CheckedAdd(b Amount) (Amount, bool) {
	if b > math.MaxUint64-a {
		return 0, false
	}
	return a + b, true
}

// CheckedSub returns a-b, or false if b > a.
func (a Amount) CheckedSub(b Amount) (Amount, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// ParseBTC parses a decimal BTC string such as "0.0015" into satoshis
// without going through floating point.
func ParseBTC(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, &FieldError{Field: "amount", Message: "not a decimal number", Cause: err}
	}
	if d.IsNegative() {
		return 0, NewFieldError("amount", "negative amount %s", s)
	}
	sats := d.Shift(8)
	if !sats.IsInteger() {
		return 0, NewFieldError("amount", "%s has more than 8 decimal places", s)
	}
	if sats.GreaterThan(decimal.NewFromInt(int64(MaxMoney))) {
		return 0, NewFieldError("amount", "%s exceeds the supply cap", s)
	}
	return Amount(sats.IntPart()), nil
}

// BTCString formats a with exactly eight decimal places.
func (a Amount) BTCString() string {
	return fmt.Sprintf("%d.%08d", uint64(a)/SatoshiPerBitcoin, uint64(a)%SatoshiPerBitcoin)
}

func (a Amount) String() string {
	return a.BTCString() + " BTC"
}

func (a Amount) Encode(w io.Writer) (int, error) {
	return encoding.WriteUint64(w, uint64(a))
}

func (a *Amount) Decode(r io.Reader) error {
	v, err := encoding.ReadUint64(r, "amount")
	if err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}
