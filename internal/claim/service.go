package claim

import (
	"context"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/artforge-labs/mint-relay/internal/chain"
	"github.com/artforge-labs/mint-relay/internal/relayerr"
)

const pendingKeyPrefix = "claim:pending:"

// Minter is the slice of chain.Client the claim path needs: a direct owner
// mint to the claimant, no voucher and no on-chain code state involved.
type Minter interface {
	OwnerMint(ctx context.Context, chainID int64, collection, recipient common.Address, uri string) (*chain.TokenMintedEvent, common.Hash, error)
}

// Resolver turns a metadata reference into a fetchable URI.
type Resolver interface {
	Resolve(ref string) (string, error)
}

// Result is a successful claim.
type Result struct {
	TxHash     common.Hash
	TokenID    int64
	Collection common.Address
}

type Service struct {
	store  *Store
	minter Minter
	meta   Resolver
	rdb    *redis.Client
	log    *zap.Logger
	now    func() time.Time
}

func NewService(store *Store, minter Minter, meta Resolver, rdb *redis.Client, log *zap.Logger) *Service {
	return &Service{
		store:  store,
		minter: minter,
		meta:   meta,
		rdb:    rdb,
		log:    log,
		now:    time.Now,
	}
}

// Validate checks a code without consuming capacity: it must exist, be
// published, be inside its [start, end] window and have slots left.
func (s *Service) Validate(ctx context.Context, code string, claimant common.Address) (*Code, error) {
	c, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, relayerr.New(relayerr.KindClaimCodeInvalid, "unknown claim code %q", Normalize(code))
	}
	if !c.Published {
		return nil, relayerr.New(relayerr.KindClaimCodeInvalid, "claim code %q is not published", c.Code)
	}
	now := s.now().Unix()
	if now < c.StartTime {
		return nil, relayerr.New(relayerr.KindClaimCodeInvalid, "claim code %q opens at %d", c.Code, c.StartTime)
	}
	if now > c.EndTime {
		return nil, relayerr.New(relayerr.KindClaimCodeInvalid, "claim code %q closed at %d", c.Code, c.EndTime)
	}
	if c.CurrentClaims >= c.MaxClaims {
		return nil, relayerr.New(relayerr.KindClaimCodeExhausted,
			"claim code %q used %d/%d", c.Code, c.CurrentClaims, c.MaxClaims)
	}
	return c, nil
}

// Claim consumes one slot and mints to the claimant. The slot is taken by an
// atomic conditional increment before the chain write; a failed mint hands it
// back (compensating decrement). The pending journal bridges the window in
// between so a crash mid-claim is recovered at boot instead of leaking a slot.
func (s *Service) Claim(ctx context.Context, code string, claimant common.Address) (*Result, error) {
	c, err := s.Validate(ctx, code, claimant)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.ConditionalIncrement(ctx, c.Code); err != nil {
		if err == ErrExhausted {
			return nil, relayerr.New(relayerr.KindClaimCodeExhausted,
				"claim code %q has no remaining claims", c.Code)
		}
		return nil, err
	}

	pendingKey := pendingKeyPrefix + c.Code + ":" + strings.ToLower(claimant.Hex())
	if err := s.rdb.Set(ctx, pendingKey, "1", 0).Err(); err != nil {
		s.log.Warn("pending journal write failed", zap.String("key", pendingKey), zap.Error(err))
	}

	uri, err := s.meta.Resolve(c.MetadataRef)
	if err != nil {
		s.compensate(ctx, c.Code, pendingKey)
		return nil, relayerr.Wrap(relayerr.KindClaimCodeInvalid, err,
			"claim code %q has an unresolvable metadata reference", c.Code)
	}

	ev, txHash, err := s.minter.OwnerMint(ctx, c.ChainID, c.Collection, claimant, uri)
	if err != nil {
		s.compensate(ctx, c.Code, pendingKey)
		return nil, err
	}

	s.rdb.Del(ctx, pendingKey) //nolint:errcheck
	s.log.Info("claim minted",
		zap.String("code", c.Code),
		zap.String("claimant", claimant.Hex()),
		zap.String("tx", txHash.Hex()),
		zap.Int64("token", ev.TokenId.Int64()),
	)
	return &Result{
		TxHash:     txHash,
		TokenID:    ev.TokenId.Int64(),
		Collection: c.Collection,
	}, nil
}

// compensate returns the consumed slot and clears the journal entry.
func (s *Service) compensate(ctx context.Context, code, pendingKey string) {
	if err := s.store.Decrement(ctx, code); err != nil {
		s.log.Error("compensating decrement failed, capacity leaked until reconciled",
			zap.String("code", code), zap.Error(err))
		return
	}
	s.rdb.Del(ctx, pendingKey) //nolint:errcheck
}

// RecoverPending scans the journal at startup and restores capacity for
// claims that were interrupted between increment and mint. A claim whose mint
// actually landed before the crash is refunded too; the admin tooling can
// reconcile against chain history.
func (s *Service) RecoverPending(ctx context.Context) {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, pendingKeyPrefix+"*", 100).Result()
		if err != nil {
			s.log.Error("recover pending claims: scan", zap.Error(err))
			return
		}
		for _, key := range keys {
			rest := key[len(pendingKeyPrefix):]
			code, claimant, _ := strings.Cut(rest, ":")
			if err := s.store.Decrement(ctx, code); err != nil {
				s.log.Error("recover pending claim", zap.String("code", code), zap.Error(err))
				continue
			}
			s.rdb.Del(ctx, key) //nolint:errcheck
			s.log.Info("recovered interrupted claim",
				zap.String("code", code),
				zap.String("claimant", claimant),
			)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
}
