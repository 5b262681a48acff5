package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/suffix-labs/omni-transaction/pkg/roles"
	"github.com/suffix-labs/omni-transaction/pkg/signature"
	"github.com/suffix-labs/omni-transaction/pkg/signer"
)

const defaultConcurrency = 4

// Service signs transactions through a Signer.
type Service struct {
	signer      Signer
	metrics     Metrics
	logger      *zap.Logger
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithConcurrency bounds the number of in-flight signer calls.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService creates a Service.
func NewService(remote Signer, metrics Metrics, logger *zap.Logger, opts ...Option) (*Service, error) {
	if remote == nil {
		return nil, errors.New("signer is required")
	}
	if metrics == nil {
		return nil, errors.New("service metrics is required")
	}

	s := &Service{
		signer:      remote,
		metrics:     metrics,
		logger:      logger.Named("service"),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SignTransaction signs every input described by inputs and returns the
// Finalized transaction.
//
// Digests are computed on unsigned before any signer call, signer calls run
// concurrently, and signatures are spliced in input order. Each signature is
// verified against the input's public key before it is spliced.
//
// Returns an error if:
//   - inputs is empty or names an input twice
//   - a digest cannot be computed
//   - the signer fails or returns a signature that does not verify
//   - splicing fails
func (s *Service) SignTransaction(ctx context.Context, unsigned *roles.Unsigned, inputs []InputSigning) (_ *roles.Finalized, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveSignTransaction(err, len(inputs), started)
	}()

	if len(inputs) == 0 {
		return nil, errors.New("no inputs to sign")
	}

	digests := make([][32]byte, len(inputs))
	seen := make(map[int]bool, len(inputs))
	for i, in := range inputs {
		if seen[in.Index] {
			return nil, fmt.Errorf("input %d listed twice", in.Index)
		}
		seen[in.Index] = true

		digests[i], err = GetSighash(unsigned, in)
		if err != nil {
			return nil, fmt.Errorf("failed to compute sighash for input %d: %w", in.Index, err)
		}
	}

	sigs := make([][]byte, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range inputs {
		i := i
		g.Go(func() error {
			sig, err := s.sign(gctx, inputs[i], digests[i])
			if err != nil {
				return fmt.Errorf("failed to sign input %d: %w", inputs[i].Index, err)
			}
			sigs[i] = sig
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	var tx Finalizable = unsigned
	var finalized *roles.Finalized
	for i, in := range inputs {
		finalized, err = AppendSignature(tx, in, sigs[i])
		if err != nil {
			return nil, fmt.Errorf("failed to finalize input %d: %w", in.Index, err)
		}
		tx = finalized
	}

	s.logger.Info("transaction signed",
		zap.Stringer("txid", finalized.Txid()),
		zap.Int("inputs", len(inputs)),
		zap.Bool("complete", finalized.IsComplete()),
	)
	return finalized, nil
}

// sign requests one signature and returns it as DER || sighash type.
func (s *Service) sign(ctx context.Context, in InputSigning, digest [32]byte) ([]byte, error) {
	resp, err := s.signer.Sign(ctx, signer.Request{
		Payload:    digest,
		Path:       in.Path,
		KeyVersion: in.KeyVersion,
	})
	if err != nil {
		return nil, err
	}

	compact, err := resp.Compact()
	if err != nil {
		return nil, fmt.Errorf("malformed signer response: %w", err)
	}
	sig, err := signature.SerializeECDSA(compact, in.hashType())
	if err != nil {
		return nil, err
	}
	if err := signature.Verify(in.PublicKey, digest, sig[:len(sig)-1]); err != nil {
		s.logger.Warn("signature does not verify",
			zap.Int("input", in.Index),
			zap.String("path", in.Path),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("input signed",
		zap.Int("input", in.Index),
		zap.Stringer("type", in.Type),
		zap.Stringer("hash_type", in.hashType()),
	)
	return sig, nil
}

var (
	_ Finalizable = (*roles.Unsigned)(nil)
	_ Finalizable = (*roles.Finalized)(nil)
)
