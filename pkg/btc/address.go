package btc

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// Network names accepted by NetParams.
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
	NetworkRegtest = "regtest"
	NetworkSignet  = "signet"
)

// NetParams returns the chain parameters for a network name.
func NetParams(network string) (*chaincfg.Params, error) {
	switch network {
	case NetworkMainnet, "":
		return &chaincfg.MainNetParams, nil
	case NetworkTestnet, "testnet3":
		return &chaincfg.TestNet3Params, nil
	case NetworkRegtest:
		return &chaincfg.RegressionNetParams, nil
	case NetworkSignet:
		return &chaincfg.SigNetParams, nil
	default:
		return nil, NewFieldError("network", "unsupported network %q", network)
	}
}

// ScriptFromAddress returns the locking script that pays to addr.
func ScriptFromAddress(addr string, params *chaincfg.Params) (ScriptBuf, error) {
	decoded, err := btcutil.DecodeAddress(addr, params)
	if err != nil {
		return nil, &FieldError{Field: "address", Message: "cannot decode " + addr, Cause: err}
	}
	if !decoded.IsForNet(params) {
		return nil, NewFieldError("address", "%s is not a %s address", addr, params.Name)
	}
	script, err := txscript.PayToAddrScript(decoded)
	if err != nil {
		return nil, &FieldError{Field: "address", Message: "unsupported address type", Cause: err}
	}
	return ScriptBuf(script), nil
}
