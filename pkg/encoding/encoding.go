// Package encoding implements the binary encode/decode framework shared by
// every Bitcoin wire type.
//
// Integers are fixed-width little-endian. Variable-length data is prefixed
// with a compact size, which is always written in its minimal form and
// rejected on read when it is not.
//
// Types implement Encoder on a value receiver and Decoder on a pointer
// receiver:
//
//	func (s Sequence) Encode(w io.Writer) (int, error)
//	func (s *Sequence) Decode(r io.Reader) error
package encoding

import (
	"bytes"
	"io"
)

// MaxPayloadSize bounds any single length or count read from the wire.
// It equals the maximum block weight, so no valid transaction exceeds it.
const MaxPayloadSize = 4_000_000

// Encoder writes the canonical wire encoding of a value.
//
// Encode returns the number of bytes written. Writing to an in-memory buffer
// never fails; errors from other writers are returned unchanged.
type Encoder interface {
	Encode(w io.Writer) (int, error)
}

// Decoder reads a value from its canonical wire encoding.
type Decoder interface {
	Decode(r io.Reader) error
}

// Serialize returns the encoding of e as a byte slice.
func Serialize(e Encoder) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes cannot fail.
	_, _ = e.Encode(&buf)
	return buf.Bytes()
}

// Deserialize decodes a T from b, requiring that every byte is consumed.
//
// Example:
//
//	seq, err := encoding.Deserialize[btc.Sequence](data)
func Deserialize[T any, PT interface {
	*T
	Decoder
}](b []byte) (T, error) {
	var v T
	r := bytes.NewReader(b)
	if err := PT(&v).Decode(r); err != nil {
		return v, err
	}
	if r.Len() != 0 {
		return v, invalidData("", "%d trailing bytes", r.Len())
	}
	return v, nil
}

// Writer wraps an io.Writer, counting bytes and keeping the first error.
// After an error every further write is a no-op.
type Writer struct {
	w   io.Writer
	n   int
	err error
}

// NewWriter creates a Writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	w.n += n
	w.err = err
	return n, err
}

func (w *Writer) Bytes(p []byte) {
	_, _ = w.Write(p)
}

func (w *Writer) Uint8(v uint8) {
	w.Bytes([]byte{v})
}

func (w *Writer) Uint32(v uint32) {
	_, _ = WriteUint32(w, v)
}

func (w *Writer) Uint64(v uint64) {
	_, _ = WriteUint64(w, v)
}

func (w *Writer) CompactSize(v uint64) {
	_, _ = WriteCompactSize(w, v)
}

func (w *Writer) VarBytes(p []byte) {
	_, _ = WriteVarBytes(w, p)
}

// Encode appends the encoding of e.
func (w *Writer) Encode(e Encoder) {
	_, _ = e.Encode(w)
}

// Result returns the total bytes written and the first error.
func (w *Writer) Result() (int, error) {
	return w.n, w.err
}
