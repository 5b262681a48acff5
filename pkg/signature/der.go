// Package signature turns raw ECDSA signatures into the unlocking data that
// Bitcoin inputs carry.
//
// Remote signers return a signature as (R, s) where R is the nonce point and
// s a scalar. The helpers here convert that pair into a 64-byte compact
// signature r||s, encode it as strict DER with the sighash type appended,
// and assemble P2PKH script-sigs and P2WPKH witnesses from the result.
package signature

import (
	"encoding/hex"
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/suffix-labs/omni-transaction/pkg/btc"
	"github.com/suffix-labs/omni-transaction/pkg/sighash"
)

// CompactSize is the size of an r||s signature.
const CompactSize = 64

// ErrVerification is returned when a signature does not verify.
var ErrVerification = errors.New("signature verification failed")

// EncodeDER encodes a 64-byte r||s signature as strict DER.
//
// r and s must be non-zero and below the curve order. s is normalized to the
// lower half of the order, which is the only form standard relay accepts.
func EncodeDER(compact []byte) ([]byte, error) {
	if len(compact) != CompactSize {
		return nil, btc.NewFieldError("signature", "expected %d bytes, got %d", CompactSize, len(compact))
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(compact[:32]); overflow || r.IsZero() {
		return nil, btc.NewFieldError("signature", "r is not a valid scalar")
	}
	if overflow := s.SetByteSlice(compact[32:]); overflow || s.IsZero() {
		return nil, btc.NewFieldError("signature", "s is not a valid scalar")
	}

	return ecdsa.NewSignature(&r, &s).Serialize(), nil
}

// SerializeECDSA returns DER(compact) followed by the sighash type byte, the
// form pushed in script-sigs and witnesses.
func SerializeECDSA(compact []byte, hashType sighash.Type) ([]byte, error) {
	if err := hashType.Validate(); err != nil {
		return nil, err
	}
	der, err := EncodeDER(compact)
	if err != nil {
		return nil, err
	}
	return append(der, byte(hashType)), nil
}

// CompactFromAffine builds r||s from a remote signer's response: bigR is the
// hex of the compressed nonce point, s the hex of the 32-byte scalar.
func CompactFromAffine(bigR, s string) ([]byte, error) {
	rBytes, err := hex.DecodeString(bigR)
	if err != nil {
		return nil, &btc.FieldError{Field: "big_r", Message: "invalid hex", Cause: err}
	}
	point, err := secp256k1.ParsePubKey(rBytes)
	if err != nil || len(rBytes) != secp256k1.PubKeyBytesLenCompressed {
		return nil, &btc.FieldError{Field: "big_r", Message: "not a compressed curve point", Cause: err}
	}

	sBytes, err := hex.DecodeString(s)
	if err != nil {
		return nil, &btc.FieldError{Field: "s", Message: "invalid hex", Cause: err}
	}
	if len(sBytes) != 32 {
		return nil, btc.NewFieldError("s", "expected 32 bytes, got %d", len(sBytes))
	}

	// The compressed encoding is the parity byte followed by x(R) = r.
	compact := make([]byte, 0, CompactSize)
	compact = append(compact, point.SerializeCompressed()[1:]...)
	return append(compact, sBytes...), nil
}
