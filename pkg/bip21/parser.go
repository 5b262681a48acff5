// Package bip21 implements the BIP-21 payment request URI format.
//
// URI Format:
//
//	bitcoin:<address>?amount=<btc>&label=<label>&message=<message>
//
// Amounts are decimal BTC and are parsed exactly into satoshis. Parameters
// prefixed with "req-" must be understood by the reader; unknown ones make
// the whole URI invalid. Other unknown parameters are kept in Extras.
//
// See: https://github.com/bitcoin/bips/blob/master/bip-0021.mediawiki
package bip21

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/suffix-labs/omni-transaction/pkg/btc"
)

// Scheme is the URI scheme, matched case-insensitively.
const Scheme = "bitcoin"

const requiredPrefix = "req-"

// PaymentRequest is a parsed BIP-21 URI.
type PaymentRequest struct {
	Address string      // Bitcoin address
	Amount  *btc.Amount // nil = user specifies
	Label   *string     // Optional label for the recipient
	Message *string     // Optional message to display to the user
	Extras  map[string]string
}

// Parse parses a BIP-21 payment request URI.
//
// Returns an error if:
//   - the scheme is not "bitcoin"
//   - the address is missing
//   - a parameter is repeated
//   - the amount is not a plain decimal number of at most 8 decimals
//   - an unknown "req-" parameter is present
//
// Example:
//
//	req, err := bip21.Parse("bitcoin:bc1q...?amount=0.0015&label=coffee")
func Parse(uri string) (*PaymentRequest, error) {
	scheme, rest, ok := strings.Cut(uri, ":")
	if !ok || !strings.EqualFold(scheme, Scheme) {
		return nil, fmt.Errorf("not a %s: URI", Scheme)
	}

	address, query, _ := strings.Cut(rest, "?")
	if address == "" {
		return nil, fmt.Errorf("missing address")
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	req := &PaymentRequest{Address: address}
	for key, values := range params {
		if len(values) != 1 {
			return nil, fmt.Errorf("parameter %q repeated", key)
		}
		value := values[0]

		switch key {
		case "amount":
			amount, err := parseAmount(value)
			if err != nil {
				return nil, fmt.Errorf("invalid amount: %w", err)
			}
			req.Amount = &amount
		case "label":
			req.Label = &value
		case "message":
			req.Message = &value
		default:
			if strings.HasPrefix(key, requiredPrefix) {
				return nil, fmt.Errorf("unsupported required parameter %q", key)
			}
			if req.Extras == nil {
				req.Extras = make(map[string]string)
			}
			req.Extras[key] = value
		}
	}

	return req, nil
}

// parseAmount accepts digits with an optional decimal point; exponents and
// signs are not part of the format.
func parseAmount(s string) (btc.Amount, error) {
	if s == "" || s == "." || strings.Count(s, ".") > 1 {
		return 0, fmt.Errorf("%q is not a decimal number", s)
	}
	for _, c := range s {
		if (c < '0' || c > '9') && c != '.' {
			return 0, fmt.Errorf("%q is not a decimal number", s)
		}
	}
	return btc.ParseBTC(s)
}

// Encode creates a BIP-21 URI from the request. This is the inverse of
// Parse.
//
// Example:
//
//	req := &PaymentRequest{Address: "bc1q...", Amount: &amount}
//	uri := req.Encode() // "bitcoin:bc1q...?amount=0.0015"
func (req *PaymentRequest) Encode() string {
	var params []string
	if req.Amount != nil {
		params = append(params, "amount="+formatAmount(*req.Amount))
	}
	if req.Label != nil {
		params = append(params, "label="+escape(*req.Label))
	}
	if req.Message != nil {
		params = append(params, "message="+escape(*req.Message))
	}

	keys := make([]string, 0, len(req.Extras))
	for key := range req.Extras {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		params = append(params, escape(key)+"="+escape(req.Extras[key]))
	}

	uri := Scheme + ":" + req.Address
	if len(params) > 0 {
		uri += "?" + strings.Join(params, "&")
	}
	return uri
}

// escape percent-encodes s, using %20 rather than '+' for spaces.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// formatAmount formats an amount in BTC without trailing zeros.
func formatAmount(a btc.Amount) string {
	str := a.BTCString()
	str = strings.TrimRight(str, "0")
	return strings.TrimSuffix(str, ".")
}

// TxOut resolves the request into an output paying Amount to Address on
// the given network.
//
// Returns an error if:
//   - the request carries no amount
//   - the address does not decode for params
func (req *PaymentRequest) TxOut(params *chaincfg.Params) (btc.TxOut, error) {
	if req.Amount == nil {
		return btc.TxOut{}, btc.NewFieldError("amount", "payment request has no amount")
	}
	script, err := btc.ScriptFromAddress(req.Address, params)
	if err != nil {
		return btc.TxOut{}, err
	}
	return btc.NewTxOut(*req.Amount, script), nil
}
