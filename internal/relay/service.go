// Package relay classifies inbound relay requests and drives them through
// verification, quota gating and the chain write path. Relayer is the
// explicit owned state handed to the HTTP layer: built once at startup,
// injected, never rediscovered per call.
package relay

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/artforge-labs/mint-relay/internal/chain"
	"github.com/artforge-labs/mint-relay/internal/claim"
	"github.com/artforge-labs/mint-relay/internal/metastore"
	"github.com/artforge-labs/mint-relay/internal/registry"
	"github.com/artforge-labs/mint-relay/internal/subscription"
	"github.com/artforge-labs/mint-relay/internal/voucher"
)

type Relayer struct {
	verifier *voucher.Verifier
	ledger   *subscription.Ledger
	chain    *chain.Client
	registry *registry.Registry
	claims   *claim.Service
	meta     *metastore.Resolver
	log      *zap.Logger
}

func NewRelayer(
	verifier *voucher.Verifier,
	ledger *subscription.Ledger,
	ch *chain.Client,
	reg *registry.Registry,
	claims *claim.Service,
	meta *metastore.Resolver,
	log *zap.Logger,
) *Relayer {
	return &Relayer{
		verifier: verifier,
		ledger:   ledger,
		chain:    ch,
		registry: reg,
		claims:   claims,
		meta:     meta,
		log:      log,
	}
}

// CreateResult is a successful collection deployment.
type CreateResult struct {
	TxHash     common.Hash
	Collection common.Address
}

// MintResult is a successful voucher mint.
type MintResult struct {
	TxHash     common.Hash
	Collection common.Address
	TokenID    int64
}

func toFactoryVoucher(v *voucher.CollectionVoucher) chain.FactoryVoucher {
	return chain.FactoryVoucher{
		Name:             v.Name,
		Symbol:           v.Symbol,
		Description:      v.Description,
		Image:            v.Image,
		ExternalUrl:      v.ExternalURL,
		Artist:           v.Artist,
		RoyaltyRecipient: v.RoyaltyRecipient,
		RoyaltyBps:       v.RoyaltyBps,
		Sequence:         v.Sequence,
		Expiry:           v.Expiry,
	}
}

// CreateCollection verifies the voucher, requires an active subscription
// (zero quota cost) and deploys the artist's collection. The address in the
// result is the one the factory emitted.
func (r *Relayer) CreateCollection(ctx context.Context, chainID int64, v *voucher.CollectionVoucher) (*CreateResult, error) {
	factoryAddr, err := r.chain.FactoryAddress(chainID)
	if err != nil {
		return nil, err
	}
	if err := r.verifier.Verify(ctx, v, chainID, factoryAddr); err != nil {
		return nil, err
	}
	if _, err := r.ledger.CanMint(ctx, chainID, v.Artist, 0); err != nil {
		return nil, err
	}

	ev, txHash, err := r.chain.CreateCollectionGasless(ctx, chainID, toFactoryVoucher(v), v.Signature)
	if err != nil {
		return nil, err
	}

	if err := r.registry.Append(ctx, registry.Entry{
		ChainID:    chainID,
		Creator:    ev.Creator,
		Sequence:   ev.Sequence.Int64(),
		Collection: ev.Collection,
		TxHash:     txHash,
	}); err != nil {
		// The registry is an index over chain truth, not the truth itself.
		r.log.Error("registry append failed", zap.Error(err))
	}

	r.log.Info("collection created",
		zap.Int64("chain", chainID),
		zap.String("artist", v.Artist.Hex()),
		zap.String("collection", ev.Collection.Hex()),
		zap.String("tx", txHash.Hex()),
	)
	return &CreateResult{TxHash: txHash, Collection: ev.Collection}, nil
}

// Mint verifies the voucher, checks quota for one mint, submits the gasless
// mint and charges quota only after the transaction confirmed.
func (r *Relayer) Mint(ctx context.Context, chainID int64, collection, recipient common.Address, metadataRef string, v *voucher.CollectionVoucher) (*MintResult, error) {
	factoryAddr, err := r.chain.FactoryAddress(chainID)
	if err != nil {
		return nil, err
	}
	if err := r.verifier.Verify(ctx, v, chainID, factoryAddr); err != nil {
		return nil, err
	}
	if _, err := r.ledger.CanMint(ctx, chainID, v.Artist, 1); err != nil {
		return nil, err
	}

	uri, err := r.meta.Resolve(metadataRef)
	if err != nil {
		return nil, err
	}

	ev, txHash, err := r.chain.MintGasless(ctx, chainID, collection, recipient, uri, toFactoryVoucher(v), v.Signature)
	if err != nil {
		return nil, err
	}

	// Quota is charged only for confirmed mints; a dropped or reverted tx
	// never consumes it.
	if err := r.ledger.RecordMint(ctx, chainID, v.Artist, 1); err != nil {
		r.log.Error("mint confirmed but quota charge failed",
			zap.String("tx", txHash.Hex()), zap.Error(err))
	}

	r.log.Info("minted",
		zap.Int64("chain", chainID),
		zap.String("collection", collection.Hex()),
		zap.String("recipient", recipient.Hex()),
		zap.Int64("token", ev.TokenId.Int64()),
		zap.String("tx", txHash.Hex()),
	)
	return &MintResult{TxHash: txHash, Collection: collection, TokenID: ev.TokenId.Int64()}, nil
}

// Claim runs the database-gated promotional path.
func (r *Relayer) Claim(ctx context.Context, code string, claimant common.Address) (*claim.Result, error) {
	return r.claims.Claim(ctx, code, claimant)
}

// UpgradePlan moves the payer to a paid plan after payment verification.
func (r *Relayer) UpgradePlan(ctx context.Context, chainID int64, account common.Address, plan subscription.Plan, paymentTx common.Hash) (common.Hash, error) {
	return r.ledger.Upgrade(ctx, chainID, account, plan, paymentTx)
}

// Subscription reads the effective subscription for account.
func (r *Relayer) Subscription(ctx context.Context, chainID int64, account common.Address) (*subscription.Subscription, error) {
	return r.ledger.Get(ctx, chainID, account)
}
