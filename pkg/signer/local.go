package signer

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// WIF version bytes.
const (
	wifMainnet = 0x80
	wifTestnet = 0xef

	privateKeySize = 32
	checksumSize   = 4
)

// compactHeaderBase is the SignCompact header for a compressed key with
// recovery id 0.
const compactHeaderBase = 27 + 4

// LocalSigner signs with secp256k1 keys held in memory, one per derivation
// path. Signatures are deterministic (RFC 6979).
//
// It stands in for a remote MPC signer in tests and the CLI.
type LocalSigner struct {
	mu   sync.RWMutex
	keys map[string]*secp256k1.PrivateKey
}

// NewLocalSigner creates an empty LocalSigner.
func NewLocalSigner() *LocalSigner {
	return &LocalSigner{keys: make(map[string]*secp256k1.PrivateKey)}
}

// AddKey registers key under path, replacing any previous key.
func (l *LocalSigner) AddKey(path string, key *secp256k1.PrivateKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys[path] = key
}

// AddKeyBytes registers a raw 32-byte private key under path.
func (l *LocalSigner) AddKeyBytes(path string, keyBytes []byte) error {
	if len(keyBytes) != privateKeySize {
		return fmt.Errorf("private key must be %d bytes, got %d", privateKeySize, len(keyBytes))
	}
	l.AddKey(path, secp256k1.PrivKeyFromBytes(keyBytes))
	return nil
}

// AddWIF registers a WIF-encoded private key under path.
func (l *LocalSigner) AddWIF(path, wif string) error {
	keyBytes, _, err := DecodeWIF(wif)
	if err != nil {
		return err
	}
	return l.AddKeyBytes(path, keyBytes)
}

// PublicKey returns the compressed public key registered under path.
func (l *LocalSigner) PublicKey(path string) ([]byte, error) {
	key, err := l.key(path)
	if err != nil {
		return nil, err
	}
	return key.PubKey().SerializeCompressed(), nil
}

func (l *LocalSigner) key(path string) (*secp256k1.PrivateKey, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	key, ok := l.keys[path]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, path)
	}
	return key, nil
}

// Sign signs req.Payload with the key for req.Path. KeyVersion is ignored.
func (l *LocalSigner) Sign(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := l.key(req.Path)
	if err != nil {
		return nil, err
	}

	// header | r | s
	compact := ecdsa.SignCompact(key, req.Payload[:], true)
	recoveryID := compact[0] - compactHeaderBase
	if recoveryID > 1 {
		// R.x overflowed the group order; the affine point cannot be
		// rebuilt from r alone.
		return nil, fmt.Errorf("unsupported recovery id %d", recoveryID)
	}

	bigR := make([]byte, 0, 33)
	bigR = append(bigR, secp256k1.PubKeyFormatCompressedEven|recoveryID)
	bigR = append(bigR, compact[1:33]...)

	return &Response{
		BigR:       AffinePoint{AffinePoint: hex.EncodeToString(bigR)},
		S:          Scalar{Scalar: hex.EncodeToString(compact[33:])},
		RecoveryID: recoveryID,
	}, nil
}

// DecodeWIF decodes a WIF private key.
//
// WIF format: version || key (32 bytes) || [0x01 if compressed] || checksum
//
// Returns an error if:
//   - the length is not 37 or 38 bytes
//   - the version byte is neither mainnet (0x80) nor testnet (0xef)
//   - the compression flag is not 0x01
//   - the checksum does not match
func DecodeWIF(wif string) (key []byte, compressed bool, err error) {
	decoded := base58.Decode(wif)
	switch len(decoded) {
	case 1 + privateKeySize + checksumSize:
	case 1 + privateKeySize + 1 + checksumSize:
		compressed = true
	default:
		return nil, false, errors.New("invalid WIF length")
	}

	if version := decoded[0]; version != wifMainnet && version != wifTestnet {
		return nil, false, fmt.Errorf("invalid WIF version byte: 0x%02x", version)
	}

	payload := decoded[:len(decoded)-checksumSize]
	checksum := chainhash.DoubleHashB(payload)[:checksumSize]
	if !bytes.Equal(checksum, decoded[len(decoded)-checksumSize:]) {
		return nil, false, errors.New("WIF checksum mismatch")
	}
	if compressed && payload[len(payload)-1] != 0x01 {
		return nil, false, errors.New("invalid WIF compression flag")
	}

	return append([]byte{}, payload[1:1+privateKeySize]...), compressed, nil
}

// EncodeWIF encodes a 32-byte private key in WIF.
func EncodeWIF(key []byte, compressed, testnet bool) (string, error) {
	if len(key) != privateKeySize {
		return "", fmt.Errorf("private key must be %d bytes, got %d", privateKeySize, len(key))
	}

	version := byte(wifMainnet)
	if testnet {
		version = wifTestnet
	}

	payload := make([]byte, 0, 1+privateKeySize+1+checksumSize)
	payload = append(payload, version)
	payload = append(payload, key...)
	if compressed {
		payload = append(payload, 0x01)
	}
	payload = append(payload, chainhash.DoubleHashB(payload)[:checksumSize]...)

	return base58.Encode(payload), nil
}
