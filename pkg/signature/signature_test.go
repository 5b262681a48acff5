package signature

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/omni-transaction/pkg/btc"
	"github.com/suffix-labs/omni-transaction/pkg/sighash"
)

// r and s as returned by an MPC signer for a P2PKH test spend.
const (
	mpcR = "b96bfa3da6bb4bb74eeee9c20970725c5782f07724cd1befbd265c5ad5c63948"
	mpcS = "49283b618968defb0e660ea703d193bc1d213f5dd811a2d13307fca01e20c5c0"
)

func hexDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func testKey(t *testing.T) *secp256k1.PrivateKey {
	t.Helper()
	return secp256k1.PrivKeyFromBytes(bytes.Repeat([]byte{0x11}, 32))
}

// signCompact signs digest and returns r||s and the recovery id.
func signCompact(t *testing.T, key *secp256k1.PrivateKey, digest [32]byte) ([]byte, byte) {
	t.Helper()
	sig := ecdsa.SignCompact(key, digest[:], true)
	require.Len(t, sig, CompactSize+1)
	return sig[1:], (sig[0] - 27) & 3
}

func TestEncodeDERKnownSignature(t *testing.T) {
	compact := hexDecode(t, mpcR+mpcS)

	der, err := EncodeDER(compact)
	require.NoError(t, err)
	assert.Equal(t, "3045022100"+mpcR+"0220"+mpcS, hex.EncodeToString(der))

	withType, err := SerializeECDSA(compact, sighash.All)
	require.NoError(t, err)
	assert.Equal(t, append(der, 0x01), withType)
}

func TestEncodeDERRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		compact []byte
	}{
		{name: "short", compact: make([]byte, 63)},
		{name: "long", compact: make([]byte, 65)},
		{name: "zero r", compact: append(make([]byte, 32), bytes.Repeat([]byte{0x01}, 32)...)},
		{name: "zero s", compact: append(bytes.Repeat([]byte{0x01}, 32), make([]byte, 32)...)},
		{name: "r overflows order", compact: append(bytes.Repeat([]byte{0xff}, 32), bytes.Repeat([]byte{0x01}, 32)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeDER(tt.compact)
			assert.ErrorIs(t, err, btc.ErrInvalidFieldValue)
		})
	}

	_, err := SerializeECDSA(hexDecode(t, mpcR+mpcS), sighash.Type(0x04))
	assert.ErrorIs(t, err, btc.ErrInvalidFieldValue)
}

func TestEncodeDERIsMinimal(t *testing.T) {
	r := append([]byte{0x00}, bytes.Repeat([]byte{0x11}, 31)...)
	s := bytes.Repeat([]byte{0x22}, 32)

	der, err := EncodeDER(append(r, s...))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x1f}, der[2:4], "leading zero byte of r must be dropped")

	_, err = ecdsa.ParseDERSignature(der)
	assert.NoError(t, err)
}

func TestEncodeDERNormalizesHighS(t *testing.T) {
	low := hexDecode(t, mpcR+mpcS)

	var s secp256k1.ModNScalar
	require.False(t, s.SetByteSlice(hexDecode(t, mpcS)))
	s.Negate()
	highS := s.Bytes()
	high := append(hexDecode(t, mpcR), highS[:]...)

	lowDER, err := EncodeDER(low)
	require.NoError(t, err)
	highDER, err := EncodeDER(high)
	require.NoError(t, err)
	assert.Equal(t, lowDER, highDER)
}

func TestSignVerifyRecover(t *testing.T) {
	key := testKey(t)
	pubKey := key.PubKey().SerializeCompressed()
	digest := sha256.Sum256([]byte("omni transaction"))

	compact, recoveryID := signCompact(t, key, digest)

	der, err := EncodeDER(compact)
	require.NoError(t, err)
	require.NoError(t, Verify(pubKey, digest, der))

	other := sha256.Sum256([]byte("other"))
	assert.ErrorIs(t, Verify(pubKey, other, der), ErrVerification)

	recovered, err := RecoverPublicKey(compact, recoveryID, digest)
	require.NoError(t, err)
	assert.Equal(t, pubKey, recovered)

	_, err = RecoverPublicKey(compact, 4, digest)
	assert.ErrorIs(t, err, btc.ErrInvalidFieldValue)

	_, err = RecoverPublicKey(compact[:63], recoveryID, digest)
	assert.ErrorIs(t, err, btc.ErrInvalidFieldValue)
}

func TestVerifyRejectsMalformedInput(t *testing.T) {
	digest := sha256.Sum256([]byte("x"))
	pubKey := testKey(t).PubKey().SerializeCompressed()

	assert.ErrorIs(t, Verify([]byte{0x02}, digest, []byte{0x30}), btc.ErrInvalidFieldValue)
	assert.ErrorIs(t, Verify(pubKey, digest, []byte{0x30, 0x00}), btc.ErrInvalidFieldValue)
}

func TestCompactFromAffine(t *testing.T) {
	key := testKey(t)
	digest := sha256.Sum256([]byte("affine"))
	compact, recoveryID := signCompact(t, key, digest)

	// A signer reports R compressed: the parity of y(R) is the low bit of
	// the recovery id.
	bigR := append([]byte{0x02 | (recoveryID & 1)}, compact[:32]...)

	got, err := CompactFromAffine(strings.ToUpper(hex.EncodeToString(bigR)), hex.EncodeToString(compact[32:]))
	require.NoError(t, err)
	assert.Equal(t, compact, got)
}

func TestCompactFromAffineErrors(t *testing.T) {
	point := hex.EncodeToString(testKey(t).PubKey().SerializeCompressed())
	uncompressed := hex.EncodeToString(testKey(t).PubKey().SerializeUncompressed())

	tests := []struct {
		name string
		bigR string
		s    string
	}{
		{name: "bad point hex", bigR: "zz", s: mpcS},
		{name: "not a point", bigR: "05" + mpcR, s: mpcS},
		{name: "uncompressed point", bigR: uncompressed, s: mpcS},
		{name: "bad scalar hex", bigR: point, s: "zz"},
		{name: "short scalar", bigR: point, s: mpcS[:62]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompactFromAffine(tt.bigR, tt.s)
			assert.ErrorIs(t, err, btc.ErrInvalidFieldValue)
		})
	}
}

func TestBuildScriptSig(t *testing.T) {
	sig := append(bytes.Repeat([]byte{0x30}, 71), 0x01)
	pubKey := testKey(t).PubKey().SerializeCompressed()

	script := BuildScriptSig(sig, pubKey)
	require.Len(t, script, 1+72+1+33)
	assert.Equal(t, byte(72), script[0])
	assert.Equal(t, sig, []byte(script[1:73]))
	assert.Equal(t, byte(33), script[73])
	assert.Equal(t, pubKey, []byte(script[74:]))
}

func TestBuildP2WPKHWitness(t *testing.T) {
	sig := []byte{0x30, 0x01}
	pubKey := []byte{0x02, 0x03}

	witness := BuildP2WPKHWitness(sig, pubKey)
	assert.Equal(t, btc.Witness{{0x30, 0x01}, {0x02, 0x03}}, witness)

	sig[0] = 0xff
	assert.Equal(t, byte(0x30), witness[0][0])
}
