package btc

import (
	"fmt"
	"io"

	"github.com/suffix-labs/omni-transaction/pkg/encoding"
)

// Sequence is the nSequence field of an input.
//
// Note that the zero value is SequenceZero, which signals RBF. Inputs created
// with NewTxIn default to SequenceMax.
type Sequence uint32

const (
	// SequenceMax disables replace-by-fee and absolute lock time.
	SequenceMax Sequence = 0xffffffff
	// SequenceMinNoRBF is the lowest value that does not signal RBF.
	SequenceMinNoRBF Sequence = 0xfffffffe
	// SequenceEnableLockTimeNoRBF enables absolute lock time without RBF.
	SequenceEnableLockTimeNoRBF = SequenceMinNoRBF
	// SequenceEnableRBFNoLockTime signals RBF (BIP-125) with no relative lock.
	SequenceEnableRBFNoLockTime Sequence = 0xfffffffd
	// SequenceZero enables RBF and absolute lock time.
	SequenceZero Sequence = 0
)

// SequenceSize is the wire size of a Sequence.
const SequenceSize = 4

// IsRBF reports whether s opts in to replace-by-fee via explicit signalling.
func (s Sequence) IsRBF() bool {
	return s < SequenceMinNoRBF
}

// EnablesAbsoluteLockTime reports whether the transaction lock time is
// enforced for an input carrying s.
func (s Sequence) EnablesAbsoluteLockTime() bool {
	return s != SequenceMax
}

func (s Sequence) String() string {
	return fmt.Sprintf("0x%08x", uint32(s))
}

func (s Sequence) Encode(w io.Writer) (int, error) {
	return encoding.WriteUint32(w, uint32(s))
}

func (s *Sequence) Decode(r io.Reader) error {
	v, err := encoding.ReadUint32(r, "sequence")
	if err != nil {
		return err
	}
	*s = Sequence(v)
	return nil
}
