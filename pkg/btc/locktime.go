package btc

import (
	"fmt"
	"io"

	"github.com/suffix-labs/omni-transaction/pkg/encoding"
)

// LockTimeThreshold separates block heights (below) from unix timestamps
// (at or above).
const LockTimeThreshold = 500_000_000

// LockTime is the nLockTime field of a transaction.
type LockTime uint32

// LockTimeFromHeight returns a height-based lock time.
func LockTimeFromHeight(height uint32) (LockTime, error) {
	if height >= LockTimeThreshold {
		return 0, NewFieldError("lock_time", "height %d is not below %d", height, LockTimeThreshold)
	}
	return LockTime(height), nil
}

// LockTimeFromTime returns a timestamp-based lock time.
func LockTimeFromTime(unix uint32) (LockTime, error) {
	if unix < LockTimeThreshold {
		return 0, NewFieldError("lock_time", "time %d is below %d", unix, LockTimeThreshold)
	}
	return LockTime(unix), nil
}

func (l LockTime) IsBlockHeight() bool {
	return l < LockTimeThreshold
}

func (l LockTime) IsBlockTime() bool {
	return l >= LockTimeThreshold
}

func (l LockTime) String() string {
	if l.IsBlockHeight() {
		return fmt.Sprintf("height %d", uint32(l))
	}
	return fmt.Sprintf("time %d", uint32(l))
}

func (l LockTime) Encode(w io.Writer) (int, error) {
	return encoding.WriteUint32(w, uint32(l))
}

func (l *LockTime) Decode(r io.Reader) error {
	v, err := encoding.ReadUint32(r, "lock_time")
	if err != nil {
		return err
	}
	*l = LockTime(v)
	return nil
}
