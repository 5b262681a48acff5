package signer

import (
	"context"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Signer produces a recoverable ECDSA signature over a 32-byte digest.
	Signer interface {
		Sign(ctx context.Context, req Request) (*Response, error)
	}
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)
