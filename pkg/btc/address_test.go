package btc

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptFromAddress(t *testing.T) {
	pkh := PubKeyHash(hexDecode(t, "025476c2e83188368da1ff3e292e7acafcdb3566bb0ad253f62fc70f07aeee6357"))

	for _, network := range []string{NetworkMainnet, NetworkTestnet, NetworkRegtest, NetworkSignet} {
		t.Run(network, func(t *testing.T) {
			params, err := NetParams(network)
			require.NoError(t, err)

			p2pkh, err := btcutil.NewAddressPubKeyHash(pkh[:], params)
			require.NoError(t, err)
			script, err := ScriptFromAddress(p2pkh.EncodeAddress(), params)
			require.NoError(t, err)
			assert.Equal(t, NewP2PKHScript(pkh), script)

			p2wpkh, err := btcutil.NewAddressWitnessPubKeyHash(pkh[:], params)
			require.NoError(t, err)
			script, err = ScriptFromAddress(p2wpkh.EncodeAddress(), params)
			require.NoError(t, err)
			assert.Equal(t, NewP2WPKHScript(pkh), script)
		})
	}
}

func TestScriptFromAddressWrongNetwork(t *testing.T) {
	pkh := PubKeyHash([]byte("key"))
	addr, err := btcutil.NewAddressWitnessPubKeyHash(pkh[:], &chaincfg.TestNet3Params)
	require.NoError(t, err)

	_, err = ScriptFromAddress(addr.EncodeAddress(), &chaincfg.MainNetParams)
	assert.ErrorIs(t, err, ErrInvalidFieldValue)

	_, err = ScriptFromAddress("not-an-address", &chaincfg.MainNetParams)
	assert.ErrorIs(t, err, ErrInvalidFieldValue)

	_, err = NetParams("dogecoin")
	assert.ErrorIs(t, err, ErrInvalidFieldValue)
}
