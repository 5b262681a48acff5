package btc

import (
	"encoding/hex"
	"io"

	"github.com/suffix-labs/omni-transaction/pkg/encoding"
)

// Witness is the stack of items attached to a segwit input. An empty witness
// encodes as a single zero count byte.
type Witness [][]byte

func (w Witness) IsEmpty() bool {
	return len(w) == 0
}

// Size returns the encoded size of w.
func (w Witness) Size() int {
	n := encoding.CompactSizeLen(uint64(len(w)))
	for _, item := range w {
		n += encoding.CompactSizeLen(uint64(len(item))) + len(item)
	}
	return n
}

// HexItems returns each item hex-encoded.
func (w Witness) HexItems() []string {
	items := make([]string, len(w))
	for i, item := range w {
		items[i] = hex.EncodeToString(item)
	}
	return items
}

func (w Witness) clone() Witness {
	if w == nil {
		return nil
	}
	out := make(Witness, len(w))
	for i, item := range w {
		out[i] = cloneBytes(item)
	}
	return out
}

func (w Witness) Encode(wr io.Writer) (int, error) {
	ew := encoding.NewWriter(wr)
	ew.CompactSize(uint64(len(w)))
	for _, item := range w {
		ew.VarBytes(item)
	}
	return ew.Result()
}

func (w *Witness) Decode(r io.Reader) error {
	count, err := encoding.ReadCount(r, "witness item count", 1)
	if err != nil {
		return err
	}
	if count == 0 {
		*w = nil
		return nil
	}
	items := make(Witness, 0, min(count, 16))
	for i := 0; i < count; i++ {
		item, err := encoding.ReadVarBytes(r, "witness item")
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	*w = items
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}
