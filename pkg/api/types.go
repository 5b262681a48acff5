package api

import (
	"context"
	"time"

	"github.com/suffix-labs/omni-transaction/pkg/signer"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Signer interface {
		Sign(ctx context.Context, req signer.Request) (*signer.Response, error)
	}
	Metrics interface {
		ObserveSignTransaction(err error, inputs int, started time.Time)
	}
)
