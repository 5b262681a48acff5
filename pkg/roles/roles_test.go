package roles

import (
	"bytes"
	"math"
	"sync"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/omni-transaction/pkg/btc"
	"github.com/suffix-labs/omni-transaction/pkg/sighash"
)

func testKey(seed byte) *secp256k1.PrivateKey {
	return secp256k1.PrivKeyFromBytes(bytes.Repeat([]byte{seed}, 32))
}

func prevTxid(n byte) btc.Txid {
	var txid btc.Txid
	txid[0] = n
	txid[31] = 0x5a
	return txid
}

// twoInputTx builds an unsigned transaction spending two outputs.
func twoInputTx(t *testing.T) *Unsigned {
	t.Helper()

	pkh := btc.PubKeyHash(testKey(9).PubKey().SerializeCompressed())
	unsigned, err := NewBuilder().
		Version(btc.VersionTwo).
		LockTime(0).
		Inputs([]btc.TxIn{
			btc.NewTxIn(btc.NewOutPoint(prevTxid(1), 0)),
			btc.NewTxIn(btc.NewOutPoint(prevTxid(2), 3)),
		}).
		Outputs([]btc.TxOut{
			btc.NewTxOut(40_000, btc.NewP2WPKHScript(pkh)),
			btc.NewTxOut(9_000, btc.NewP2PKHScript(pkh)),
		}).
		Build()
	require.NoError(t, err)
	return unsigned
}

func TestBuilderValidation(t *testing.T) {
	in := btc.NewTxIn(btc.NewOutPoint(prevTxid(1), 0))
	out := btc.NewTxOut(1, btc.ScriptBuf{0x51})

	_, err := NewBuilder().AddOutput(out).Build()
	assert.ErrorIs(t, err, btc.ErrInvalidFieldValue)

	_, err = NewBuilder().AddInput(in).Build()
	assert.ErrorIs(t, err, btc.ErrInvalidFieldValue)

	_, err = NewBuilder().AddInput(in).
		AddOutput(btc.NewTxOut(math.MaxUint64, nil)).
		AddOutput(btc.NewTxOut(1, nil)).
		Build()
	assert.ErrorIs(t, err, btc.ErrInvalidFieldValue)

	unsigned, err := NewBuilder().AddInput(in).AddOutput(out).Build()
	require.NoError(t, err)
	tx := unsigned.Transaction()
	assert.Equal(t, btc.VersionTwo, tx.Version)
	assert.Equal(t, btc.LockTime(0), tx.LockTime)
	assert.Equal(t, btc.SequenceMax, tx.Inputs[0].Sequence)
}

func TestBuilderResultIsIndependent(t *testing.T) {
	inputs := []btc.TxIn{btc.NewTxIn(btc.NewOutPoint(prevTxid(1), 0))}
	outputs := []btc.TxOut{btc.NewTxOut(5, btc.ScriptBuf{0x51})}

	b := NewBuilder().Inputs(inputs).Outputs(outputs)
	unsigned, err := b.Build()
	require.NoError(t, err)

	inputs[0].Sequence = 1
	outputs[0].ScriptPubKey[0] = 0x00
	b.AddInput(btc.NewTxIn(btc.NewOutPoint(prevTxid(2), 0)))

	tx := unsigned.Transaction()
	assert.Len(t, tx.Inputs, 1)
	assert.Equal(t, btc.SequenceMax, tx.Inputs[0].Sequence)
	assert.Equal(t, btc.ScriptBuf{0x51}, tx.Outputs[0].ScriptPubKey)
	assert.Equal(t, 1, unsigned.InputCount())
}

func TestUnsignedSighashMatchesEngine(t *testing.T) {
	unsigned := twoInputTx(t)
	spk := btc.NewP2PKHScript(btc.PubKeyHash([]byte("spender")))

	require.NoError(t, unsigned.SetScriptSig(0, spk))
	got, err := unsigned.LegacySighash(0, sighash.All)
	require.NoError(t, err)

	tx := unsigned.Transaction()
	want, err := sighash.LegacyHash(tx, 0, sighash.All)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	preimage, err := unsigned.LegacyPreimage(0, sighash.All)
	require.NoError(t, err)
	assert.Equal(t, want, [32]byte(btc.DoubleSHA256(preimage)))

	segGot, err := unsigned.SegwitSighash(1, sighash.All, spk, 5_000)
	require.NoError(t, err)
	segWant, err := sighash.SegwitHash(tx, 1, spk, 5_000, sighash.All)
	require.NoError(t, err)
	assert.Equal(t, segWant, segGot)

	segPreimage, err := unsigned.SegwitPreimage(1, sighash.All, spk, 5_000)
	require.NoError(t, err)
	assert.Equal(t, segWant, [32]byte(btc.DoubleSHA256(segPreimage)))

	assert.ErrorIs(t, unsigned.SetScriptSig(2, spk), btc.ErrIndexOutOfRange)
}

func TestConcurrentSegwitSighash(t *testing.T) {
	unsigned := twoInputTx(t)
	spk := btc.NewP2PKHScript(btc.PubKeyHash([]byte("spender")))
	tx := unsigned.Transaction()

	hashTypes := []sighash.Type{sighash.All, sighash.None, sighash.Single, sighash.AllAnyoneCanPay}
	got := make([][32]byte, len(hashTypes)*len(tx.Inputs))
	errs := make([]error, len(got))

	var wg sync.WaitGroup
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], errs[i] = unsigned.SegwitSighash(i%len(tx.Inputs), hashTypes[i/len(tx.Inputs)], spk, 5_000)
		}(i)
	}
	wg.Wait()

	for i := range got {
		require.NoError(t, errs[i])
		want, err := sighash.SegwitHash(tx, i%len(tx.Inputs), spk, 5_000, hashTypes[i/len(tx.Inputs)])
		require.NoError(t, err)
		assert.Equal(t, want, got[i])
	}
}

func TestBuildWithScriptSigTouchesOnlyTarget(t *testing.T) {
	unsigned := twoInputTx(t)
	before := unsigned.Transaction()

	scriptSig := btc.ScriptBuf{0x01, 0xaa, 0x01, 0xbb}
	finalized, err := unsigned.BuildWithScriptSig(0, scriptSig, btc.P2PKH)
	require.NoError(t, err)

	after := finalized.Transaction()
	assert.Equal(t, scriptSig, after.Inputs[0].ScriptSig)
	assert.Equal(t, before.Inputs[1], after.Inputs[1])
	assert.Equal(t, before.Inputs[0].PreviousOutput, after.Inputs[0].PreviousOutput)
	assert.Equal(t, before.Inputs[0].Sequence, after.Inputs[0].Sequence)
	assert.Equal(t, before.Outputs, after.Outputs)
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, before.LockTime, after.LockTime)

	// The unsigned transaction is not modified.
	assert.Equal(t, before, unsigned.Transaction())

	// Legacy only: the encoding has no segwit marker.
	assert.False(t, after.HasWitness())
	assert.Equal(t, after.SerializeNoWitness(), finalized.Serialize())
	assert.False(t, finalized.IsComplete())
}

func TestSighashScriptsAreClearedOnFinalize(t *testing.T) {
	unsigned := twoInputTx(t)
	spk := btc.NewP2PKHScript(btc.PubKeyHash([]byte("spender")))

	require.NoError(t, unsigned.SetScriptSig(0, spk))
	require.NoError(t, unsigned.SetScriptSig(1, spk))

	finalized, err := unsigned.BuildWithScriptSig(0, btc.ScriptBuf{0x51}, btc.P2PKH)
	require.NoError(t, err)

	tx := finalized.Transaction()
	assert.Equal(t, btc.ScriptBuf{0x51}, tx.Inputs[0].ScriptSig)
	assert.True(t, tx.Inputs[1].ScriptSig.IsEmpty(), "sighash-only script must not be broadcast")

	// The Unsigned keeps them for further sighash computation.
	assert.Equal(t, spk, unsigned.Transaction().Inputs[1].ScriptSig)
}

func TestBuildWithWitnessSwitchesEncoding(t *testing.T) {
	unsigned := twoInputTx(t)
	witness := btc.Witness{{0x30, 0x01}, {0x02, 0x02}}

	finalized, err := unsigned.BuildWithWitness(1, witness, btc.P2WPKH)
	require.NoError(t, err)

	data := finalized.Serialize()
	assert.Equal(t, []byte{0x00, 0x01}, data[4:6])

	tx := finalized.Transaction()
	assert.Equal(t, witness, tx.Inputs[1].Witness)
	assert.True(t, tx.Inputs[0].Witness.IsEmpty())
	assert.Equal(t, unsigned.Transaction().Txid(), finalized.Txid())

	witness[0][0] = 0xff
	assert.Equal(t, byte(0x30), finalized.Transaction().Inputs[1].Witness[0][0])
}

func TestFinalizedChaining(t *testing.T) {
	unsigned := twoInputTx(t)

	first, err := unsigned.BuildWithScriptSig(0, btc.ScriptBuf{0x51}, btc.P2PKH)
	require.NoError(t, err)
	second, err := first.BuildWithWitness(1, btc.Witness{{0x01}, {0x02}}, btc.P2WPKH)
	require.NoError(t, err)

	assert.False(t, first.IsComplete())
	assert.True(t, second.IsComplete())
	assert.True(t, first.Transaction().Inputs[1].Witness.IsEmpty())

	third, err := second.BuildWithScriptSig(0, btc.ScriptBuf{0x52}, btc.P2PKH)
	require.NoError(t, err)
	assert.Equal(t, btc.ScriptBuf{0x52}, third.Transaction().Inputs[0].ScriptSig)
	assert.Equal(t, btc.ScriptBuf{0x51}, second.Transaction().Inputs[0].ScriptSig)

	parsed, err := btc.ParseTransactionHex(second.Hex())
	require.NoError(t, err)
	assert.Equal(t, second.Transaction(), parsed)
}

func TestFinalizationErrors(t *testing.T) {
	unsigned := twoInputTx(t)
	witness := btc.Witness{{0x01}, {0x02}}

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{
			name: "script_sig index too large",
			run: func() error {
				_, err := unsigned.BuildWithScriptSig(2, btc.ScriptBuf{0x51}, btc.P2PKH)
				return err
			},
			wantErr: btc.ErrIndexOutOfRange,
		},
		{
			name: "witness negative index",
			run: func() error {
				_, err := unsigned.BuildWithWitness(-1, witness, btc.P2WPKH)
				return err
			},
			wantErr: btc.ErrIndexOutOfRange,
		},
		{
			name: "script_sig for witness type",
			run: func() error {
				_, err := unsigned.BuildWithScriptSig(0, btc.ScriptBuf{0x51}, btc.P2WPKH)
				return err
			},
			wantErr: btc.ErrInvalidFieldValue,
		},
		{
			name: "witness for legacy type",
			run: func() error {
				_, err := unsigned.BuildWithWitness(0, witness, btc.P2PKH)
				return err
			},
			wantErr: btc.ErrInvalidFieldValue,
		},
		{
			name: "empty script_sig",
			run: func() error {
				_, err := unsigned.BuildWithScriptSig(0, nil, btc.P2PKH)
				return err
			},
			wantErr: btc.ErrInvalidFieldValue,
		},
		{
			name: "unknown transaction type",
			run: func() error {
				_, err := unsigned.BuildWithScriptSig(0, btc.ScriptBuf{0x51}, btc.TransactionType(0))
				return err
			},
			wantErr: btc.ErrInvalidFieldValue,
		},
		{
			name: "short p2wpkh witness",
			run: func() error {
				_, err := unsigned.BuildWithWitness(0, btc.Witness{{0x01}}, btc.P2WPKH)
				return err
			},
			wantErr: btc.ErrInvalidFieldValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.wantErr)
		})
	}
}
