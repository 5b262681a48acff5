package btc

import (
	"io"

	"github.com/suffix-labs/omni-transaction/pkg/encoding"
)

// Version is the transaction version. Version 2 enables BIP-68 relative
// lock times.
type Version int32

const (
	VersionOne Version = 1
	VersionTwo Version = 2
)

func (v Version) Encode(w io.Writer) (int, error) {
	return encoding.WriteUint32(w, uint32(v))
}

func (v *Version) Decode(r io.Reader) error {
	x, err := encoding.ReadUint32(r, "version")
	if err != nil {
		return err
	}
	*v = Version(int32(x))
	return nil
}
