// Package signer defines the signing collaborator used to turn sighash
// digests into signatures, together with a local key-backed implementation
// and decorators for metrics, rate limiting and circuit breaking.
//
// The request and response shapes follow the MPC signer contract: the
// digest is sent with a derivation path and key version, and the answer is
// the nonce point R in compressed form plus the scalar s.
package signer

import (
	"errors"

	"github.com/suffix-labs/omni-transaction/pkg/signature"
)

// ErrUnknownKey is returned when no key is registered for a path.
var ErrUnknownKey = errors.New("no key for derivation path")

// Request asks for a signature over Payload.
type Request struct {
	Payload    [32]byte `json:"payload"`
	Path       string   `json:"path"`
	KeyVersion uint32   `json:"key_version"`
}

type AffinePoint struct {
	AffinePoint string `json:"affine_point"`
}

type Scalar struct {
	Scalar string `json:"scalar"`
}

// Response is a signature in the MPC signer format.
//
// Example JSON:
//
//	{
//	  "big_r": {"affine_point": "02..."},
//	  "s": {"scalar": "..."},
//	  "recovery_id": 0
//	}
type Response struct {
	BigR       AffinePoint `json:"big_r"`
	S          Scalar      `json:"s"`
	RecoveryID uint8       `json:"recovery_id"`
}

// Compact returns the 64-byte r||s form of the signature.
func (r *Response) Compact() ([]byte, error) {
	return signature.CompactFromAffine(r.BigR.AffinePoint, r.S.Scalar)
}
