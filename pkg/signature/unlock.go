package signature

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/suffix-labs/omni-transaction/pkg/btc"
)

// BuildScriptSig returns the P2PKH unlocking script <sig> <pubkey>.
func BuildScriptSig(sig, pubKey []byte) btc.ScriptBuf {
	return btc.ScriptBuf(nil).PushData(sig).PushData(pubKey)
}

// BuildP2WPKHWitness returns the P2WPKH witness stack [sig, pubkey].
func BuildP2WPKHWitness(sig, pubKey []byte) btc.Witness {
	return btc.Witness{
		append([]byte{}, sig...),
		append([]byte{}, pubKey...),
	}
}

// Verify checks a DER signature (without sighash byte) over digest.
func Verify(pubKey []byte, digest [32]byte, der []byte) error {
	pub, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return &btc.FieldError{Field: "public_key", Message: "cannot parse public key", Cause: err}
	}
	sig, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return &btc.FieldError{Field: "signature", Message: "cannot parse DER signature", Cause: err}
	}
	if !sig.Verify(digest[:], pub) {
		return ErrVerification
	}
	return nil
}

// RecoverPublicKey recovers the compressed public key that produced the
// r||s signature over digest, given the signer's recovery id.
func RecoverPublicKey(compact []byte, recoveryID byte, digest [32]byte) ([]byte, error) {
	if len(compact) != CompactSize {
		return nil, btc.NewFieldError("signature", "expected %d bytes, got %d", CompactSize, len(compact))
	}
	if recoveryID > 3 {
		return nil, btc.NewFieldError("recovery_id", "expected 0-3, got %d", recoveryID)
	}

	// Compact recoverable form: 27 + recovery id + 4 (compressed key) | r | s.
	recoverable := make([]byte, 0, CompactSize+1)
	recoverable = append(recoverable, 27+4+recoveryID)
	recoverable = append(recoverable, compact...)

	pub, _, err := ecdsa.RecoverCompact(recoverable, digest[:])
	if err != nil {
		return nil, &btc.FieldError{Field: "signature", Message: "cannot recover public key", Cause: err}
	}
	return pub.SerializeCompressed(), nil
}
