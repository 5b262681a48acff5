package btc

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/suffix-labs/omni-transaction/pkg/encoding"
)

// Opcodes used by the script templates below.
const (
	Op0           = 0x00
	OpData20      = 0x14
	OpPushData1   = 0x4c
	OpPushData2   = 0x4d
	OpPushData4   = 0x4e
	OpDup         = 0x76
	OpEqualVerify = 0x88
	OpHash160     = 0xa9
	OpCheckSig    = 0xac
)

// PubKeyHashSize is the size of a HASH160 digest.
const PubKeyHashSize = 20

// Script classes as reported by Class.
const (
	ScriptClassP2PKH       = "pubkeyhash"
	ScriptClassP2WPKH      = "witness_v0_keyhash"
	ScriptClassNonStandard = "nonstandard"
)

// ScriptBuf is a locking or unlocking script. An empty script is valid and
// is used as the script_sig of segwit inputs.
type ScriptBuf []byte

// PubKeyHash returns HASH160(pubKey) = RIPEMD160(SHA256(pubKey)).
func PubKeyHash(pubKey []byte) [PubKeyHashSize]byte {
	var h [PubKeyHashSize]byte
	copy(h[:], btcutil.Hash160(pubKey))
	return h
}

// NewP2PKHScript returns OP_DUP OP_HASH160 <pkh> OP_EQUALVERIFY OP_CHECKSIG.
func NewP2PKHScript(pkh [PubKeyHashSize]byte) ScriptBuf {
	script := make(ScriptBuf, 0, 25)
	script = append(script, OpDup, OpHash160, OpData20)
	script = append(script, pkh[:]...)
	return append(script, OpEqualVerify, OpCheckSig)
}

// NewP2WPKHScript returns OP_0 <pkh>.
func NewP2WPKHScript(pkh [PubKeyHashSize]byte) ScriptBuf {
	script := make(ScriptBuf, 0, 22)
	script = append(script, Op0, OpData20)
	return append(script, pkh[:]...)
}

// ParseScriptHex decodes a hex script.
func ParseScriptHex(s string) (ScriptBuf, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, &FieldError{Field: "script", Message: "invalid hex", Cause: err}
	}
	return ScriptBuf(b), nil
}

// IsP2PKH reports whether s is a pay-to-pubkey-hash locking script.
func (s ScriptBuf) IsP2PKH() bool {
	return len(s) == 25 &&
		s[0] == OpDup && s[1] == OpHash160 && s[2] == OpData20 &&
		s[23] == OpEqualVerify && s[24] == OpCheckSig
}

// IsP2WPKH reports whether s is a version 0 pay-to-witness-pubkey-hash
// locking script.
func (s ScriptBuf) IsP2WPKH() bool {
	return len(s) == 22 && s[0] == Op0 && s[1] == OpData20
}

// Class returns the standard script class name of s.
func (s ScriptBuf) Class() string {
	switch {
	case s.IsP2PKH():
		return ScriptClassP2PKH
	case s.IsP2WPKH():
		return ScriptClassP2WPKH
	default:
		return ScriptClassNonStandard
	}
}

// P2WPKHScriptCode returns the BIP-143 script code for spending the P2WPKH
// output s: the P2PKH script over the same key hash.
func (s ScriptBuf) P2WPKHScriptCode() (ScriptBuf, error) {
	if !s.IsP2WPKH() {
		return nil, NewFieldError("script_pubkey", "not a P2WPKH script: %x", []byte(s))
	}
	var pkh [PubKeyHashSize]byte
	copy(pkh[:], s[2:])
	return NewP2PKHScript(pkh), nil
}

// PushData returns s with a minimal push of data appended.
func (s ScriptBuf) PushData(data []byte) ScriptBuf {
	var buf bytes.Buffer
	buf.Write(s)

	n := len(data)
	switch {
	case n < OpPushData1:
		buf.WriteByte(byte(n))
	case n <= 0xff:
		buf.WriteByte(OpPushData1)
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(OpPushData2)
		var l [2]byte
		binary.LittleEndian.PutUint16(l[:], uint16(n))
		buf.Write(l[:])
	default:
		buf.WriteByte(OpPushData4)
		var l [4]byte
		binary.LittleEndian.PutUint32(l[:], uint32(n))
		buf.Write(l[:])
	}
	buf.Write(data)

	return ScriptBuf(buf.Bytes())
}

func (s ScriptBuf) IsEmpty() bool {
	return len(s) == 0
}

func (s ScriptBuf) String() string {
	return hex.EncodeToString(s)
}

func (s ScriptBuf) Encode(w io.Writer) (int, error) {
	return encoding.WriteVarBytes(w, s)
}

func (s *ScriptBuf) Decode(r io.Reader) error {
	b, err := encoding.ReadVarBytes(r, "script")
	if err != nil {
		return err
	}
	*s = ScriptBuf(b)
	return nil
}
