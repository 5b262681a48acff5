package encoding

import (
	"encoding/binary"
	"io"
)

// Compact size markers.
const (
	compactSize16 = 0xfd
	compactSize32 = 0xfe
	compactSize64 = 0xff
)

// CompactSizeLen returns the number of bytes the minimal encoding of n takes.
func CompactSizeLen(n uint64) int {
	switch {
	case n < compactSize16:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// WriteCompactSize writes n using the minimal compact size encoding:
//   - n < 0xfd: 1 byte
//   - n <= 0xffff: 0xfd + 2 bytes
//   - n <= 0xffffffff: 0xfe + 4 bytes
//   - otherwise: 0xff + 8 bytes
func WriteCompactSize(w io.Writer, n uint64) (int, error) {
	var buf [9]byte
	switch {
	case n < compactSize16:
		buf[0] = byte(n)
		return w.Write(buf[:1])
	case n <= 0xffff:
		buf[0] = compactSize16
		binary.LittleEndian.PutUint16(buf[1:], uint16(n))
		return w.Write(buf[:3])
	case n <= 0xffffffff:
		buf[0] = compactSize32
		binary.LittleEndian.PutUint32(buf[1:], uint32(n))
		return w.Write(buf[:5])
	default:
		buf[0] = compactSize64
		binary.LittleEndian.PutUint64(buf[1:], n)
		return w.Write(buf[:9])
	}
}

// ReadCompactSize reads a compact size integer. Encodings that are longer
// than necessary are rejected with ErrInvalidData.
func ReadCompactSize(r io.Reader, field string) (uint64, error) {
	marker, err := ReadUint8(r, field)
	if err != nil {
		return 0, err
	}

	var n, floor uint64
	switch marker {
	case compactSize16:
		v, err := ReadUint16(r, field)
		if err != nil {
			return 0, err
		}
		n, floor = uint64(v), compactSize16
	case compactSize32:
		v, err := ReadUint32(r, field)
		if err != nil {
			return 0, err
		}
		n, floor = uint64(v), 0x10000
	case compactSize64:
		v, err := ReadUint64(r, field)
		if err != nil {
			return 0, err
		}
		n, floor = v, 0x100000000
	default:
		return uint64(marker), nil
	}

	if n < floor {
		return 0, invalidData(field, "non-canonical compact size 0x%x for value %d", marker, n)
	}
	return n, nil
}
