package btc

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/suffix-labs/omni-transaction/pkg/encoding"
)

// OutPointSize is the wire size of an OutPoint.
const OutPointSize = HashSize + 4

// OutPoint references output Vout of transaction Txid.
type OutPoint struct {
	Txid Txid
	Vout uint32
}

// NewOutPoint creates an OutPoint.
func NewOutPoint(txid Txid, vout uint32) OutPoint {
	return OutPoint{Txid: txid, Vout: vout}
}

// NullOutPoint returns the previous output referenced by coinbase inputs.
func NullOutPoint() OutPoint {
	return OutPoint{Vout: 0xffffffff}
}

// IsNull reports whether o is the coinbase null outpoint.
func (o OutPoint) IsNull() bool {
	return o == NullOutPoint()
}

// ParseOutPoint parses the "txid:vout" form.
func ParseOutPoint(s string) (OutPoint, error) {
	txidStr, voutStr, ok := strings.Cut(s, ":")
	if !ok {
		return OutPoint{}, NewFieldError("outpoint", "expected txid:vout, got %q", s)
	}
	txid, err := ParseTxid(txidStr)
	if err != nil {
		return OutPoint{}, err
	}
	vout, err := strconv.ParseUint(voutStr, 10, 32)
	if err != nil {
		return OutPoint{}, &FieldError{Field: "outpoint", Message: "invalid vout", Cause: err}
	}
	return NewOutPoint(txid, uint32(vout)), nil
}

func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.Txid, o.Vout)
}

func (o OutPoint) Encode(w io.Writer) (int, error) {
	ew := encoding.NewWriter(w)
	ew.Encode(o.Txid)
	ew.Uint32(o.Vout)
	return ew.Result()
}

func (o *OutPoint) Decode(r io.Reader) error {
	if err := o.Txid.Decode(r); err != nil {
		return err
	}
	vout, err := encoding.ReadUint32(r, "vout")
	if err != nil {
		return err
	}
	o.Vout = vout
	return nil
}
