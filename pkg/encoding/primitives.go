package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// WriteUint32 writes v as 4 little-endian bytes.
func WriteUint32(w io.Writer, v uint32) (int, error) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return w.Write(buf[:])
}

// WriteUint64 writes v as 8 little-endian bytes.
func WriteUint64(w io.Writer, v uint64) (int, error) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return w.Write(buf[:])
}

// ReadFull fills buf from r. A short read is reported as ErrUnexpectedEOF
// for field; other reader errors are wrapped and returned.
func ReadFull(r io.Reader, buf []byte, field string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &DecodeError{
				Code:    ErrUnexpectedEOF,
				Field:   field,
				Message: fmt.Sprintf("need %d bytes", len(buf)),
				Cause:   err,
			}
		}
		return fmt.Errorf("reading %s: %w", field, err)
	}
	return nil
}

func ReadUint8(r io.Reader, field string) (uint8, error) {
	var buf [1]byte
	if err := ReadFull(r, buf[:], field); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func ReadUint16(r io.Reader, field string) (uint16, error) {
	var buf [2]byte
	if err := ReadFull(r, buf[:], field); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func ReadUint32(r io.Reader, field string) (uint32, error) {
	var buf [4]byte
	if err := ReadFull(r, buf[:], field); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func ReadUint64(r io.Reader, field string) (uint64, error) {
	var buf [8]byte
	if err := ReadFull(r, buf[:], field); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// WriteVarBytes writes a compact-size length followed by b.
func WriteVarBytes(w io.Writer, b []byte) (int, error) {
	n, err := WriteCompactSize(w, uint64(len(b)))
	if err != nil {
		return n, err
	}
	m, err := w.Write(b)
	return n + m, err
}

// ReadVarBytes reads a compact-size length and that many bytes.
// A zero length yields a nil slice.
func ReadVarBytes(r io.Reader, field string) ([]byte, error) {
	length, err := ReadCompactSize(r, field+" length")
	if err != nil {
		return nil, err
	}
	if length > MaxPayloadSize {
		return nil, invalidData(field, "length %d exceeds maximum %d", length, MaxPayloadSize)
	}
	if length == 0 {
		return nil, nil
	}
	buf := make([]byte, length)
	if err := ReadFull(r, buf, field); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadCount reads a compact-size element count. Each element occupies at
// least minElemSize bytes on the wire, which bounds the count.
func ReadCount(r io.Reader, field string, minElemSize int) (int, error) {
	count, err := ReadCompactSize(r, field)
	if err != nil {
		return 0, err
	}
	if minElemSize < 1 {
		minElemSize = 1
	}
	if limit := uint64(MaxPayloadSize / minElemSize); count > limit {
		return 0, invalidData(field, "count %d exceeds maximum %d", count, limit)
	}
	return int(count), nil
}
