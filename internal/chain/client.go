// Package chain executes contract reads and funded transactions for the
// supported chains, routing every call through the endpoint pool and
// serializing submissions through the nonce tracker.
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/artforge-labs/mint-relay/internal/config"
	"github.com/artforge-labs/mint-relay/internal/noncetrack"
	"github.com/artforge-labs/mint-relay/internal/relayerr"
	"github.com/artforge-labs/mint-relay/internal/rpcpool"
)

type chainContracts struct {
	factory      common.Address
	subscription common.Address
	stablecoin   common.Address
	treasury     common.Address
}

// Client is the relay's only path to the chain. No other component may
// submit a transaction directly.
type Client struct {
	pool        *rpcpool.Pool
	nonces      *noncetrack.Tracker
	relayerKey  *ecdsa.PrivateKey
	relayerAddr common.Address
	chains      map[int64]*chainContracts
	log         *zap.Logger
}

func NewClient(cfg *config.Config, relayerKey *ecdsa.PrivateKey, pool *rpcpool.Pool, nonces *noncetrack.Tracker, log *zap.Logger) (*Client, error) {
	chains := make(map[int64]*chainContracts, len(cfg.Chains))
	for _, ch := range cfg.Chains {
		chains[ch.ChainID] = &chainContracts{
			factory:      common.HexToAddress(ch.FactoryAddress),
			subscription: common.HexToAddress(ch.SubscriptionAddress),
			stablecoin:   common.HexToAddress(ch.StablecoinAddress),
			treasury:     common.HexToAddress(ch.TreasuryAddress),
		}
	}
	return &Client{
		pool:        pool,
		nonces:      nonces,
		relayerKey:  relayerKey,
		relayerAddr: crypto.PubkeyToAddress(relayerKey.PublicKey),
		chains:      chains,
		log:         log,
	}, nil
}

// RelayerAddress returns the funding key's address.
func (c *Client) RelayerAddress() common.Address { return c.relayerAddr }

// FactoryAddress returns the collection factory address for chainID, the
// EIP-712 verifying contract for vouchers.
func (c *Client) FactoryAddress(chainID int64) (common.Address, error) {
	cc, ok := c.chains[chainID]
	if !ok {
		return common.Address{}, relayerr.New(relayerr.KindBadRequest, "unsupported chain %d", chainID)
	}
	return cc.factory, nil
}

func (c *Client) contracts(chainID int64) (*chainContracts, error) {
	cc, ok := c.chains[chainID]
	if !ok {
		return nil, relayerr.New(relayerr.KindBadRequest, "unsupported chain %d", chainID)
	}
	return cc, nil
}

// call runs a read against the named contract through the pool.
func (c *Client) call(ctx context.Context, chainID int64, addr common.Address, contractABI abi.ABI, out *[]interface{}, method string, args ...interface{}) error {
	return c.pool.Execute(ctx, chainID, func(ctx context.Context, eth *ethclient.Client) error {
		bound := bind.NewBoundContract(addr, contractABI, eth, eth, eth)
		*out = (*out)[:0]
		return bound.Call(&bind.CallOpts{Context: ctx}, out, method, args...)
	})
}

// transact reserves a nonce, submits through the pool, waits for the receipt
// and settles the nonce reservation. A mined transaction consumes the nonce
// whether it succeeded or reverted; anything short of a receipt invalidates
// the cached counter so the next submission re-syncs from the chain.
func (c *Client) transact(ctx context.Context, chainID int64, addr common.Address, contractABI abi.ABI, method string, args ...interface{}) (*types.Receipt, error) {
	nonce, release, err := c.nonces.Reserve(ctx, chainID, c.relayerAddr)
	if err != nil {
		return nil, err
	}

	var receipt *types.Receipt
	mined := false
	err = c.pool.Execute(ctx, chainID, func(ctx context.Context, eth *ethclient.Client) error {
		opts, err := bind.NewKeyedTransactorWithChainID(c.relayerKey, big.NewInt(chainID))
		if err != nil {
			return err
		}
		opts.Context = ctx
		opts.Nonce = new(big.Int).SetUint64(nonce)

		bound := bind.NewBoundContract(addr, contractABI, eth, eth, eth)
		tx, err := bound.Transact(opts, method, args...)
		if err != nil {
			return fmt.Errorf("%s tx: %w", method, err)
		}

		r, err := bind.WaitMined(ctx, eth, tx)
		if err != nil {
			return fmt.Errorf("wait mined %s: %w", tx.Hash().Hex(), err)
		}
		mined = true
		if r.Status == types.ReceiptStatusFailed {
			reason := c.revertReason(ctx, eth, tx, r)
			return relayerr.New(relayerr.KindContractRevert,
				"%s reverted in tx %s: %s", method, tx.Hash().Hex(), reason)
		}
		receipt = r
		return nil
	})
	release(mined)
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// revertReason replays the transaction as a call at its mined block to pull
// the revert string out of the node's error. Best effort only.
func (c *Client) revertReason(ctx context.Context, eth *ethclient.Client, tx *types.Transaction, r *types.Receipt) string {
	msg := ethereum.CallMsg{
		From:  c.relayerAddr,
		To:    tx.To(),
		Gas:   tx.Gas(),
		Value: tx.Value(),
		Data:  tx.Data(),
	}
	_, err := eth.CallContract(ctx, msg, r.BlockNumber)
	if err == nil {
		return "unknown reason"
	}
	return err.Error()
}

// ── Collection factory ───────────────────────────────────────────────────────

// VoucherNonce reads the factory's replay counter for an artist.
func (c *Client) VoucherNonce(ctx context.Context, chainID int64, artist common.Address) (*big.Int, error) {
	cc, err := c.contracts(chainID)
	if err != nil {
		return nil, err
	}
	var out []interface{}
	if err := c.call(ctx, chainID, cc.factory, factoryABI, &out, "voucherNonce", artist); err != nil {
		return nil, fmt.Errorf("voucherNonce: %w", err)
	}
	return out[0].(*big.Int), nil
}

// CreateCollectionGasless deploys the artist's collection contract. The
// returned address comes from the CollectionCreated event, the sole
// canonical identifier, never recomputed off-chain.
func (c *Client) CreateCollectionGasless(ctx context.Context, chainID int64, fv FactoryVoucher, signature []byte) (*CollectionCreatedEvent, common.Hash, error) {
	cc, err := c.contracts(chainID)
	if err != nil {
		return nil, common.Hash{}, err
	}
	receipt, err := c.transact(ctx, chainID, cc.factory, factoryABI, "createCollectionGasless", fv, signature)
	if err != nil {
		return nil, common.Hash{}, err
	}
	ev, err := decodeCollectionCreated(cc.factory, receipt)
	if err != nil {
		return nil, common.Hash{}, err
	}
	return ev, receipt.TxHash, nil
}

// MintGasless mints into an artist's collection under a voucher.
func (c *Client) MintGasless(ctx context.Context, chainID int64, collection, recipient common.Address, uri string, fv FactoryVoucher, signature []byte) (*TokenMintedEvent, common.Hash, error) {
	cc, err := c.contracts(chainID)
	if err != nil {
		return nil, common.Hash{}, err
	}
	receipt, err := c.transact(ctx, chainID, cc.factory, factoryABI, "mintGasless", collection, recipient, uri, fv, signature)
	if err != nil {
		return nil, common.Hash{}, err
	}
	ev, err := decodeTokenMinted(cc.factory, receipt)
	if err != nil {
		return nil, common.Hash{}, err
	}
	return ev, receipt.TxHash, nil
}

// OwnerMint mints directly to a claimant; used by the claim-code path where
// no voucher and no on-chain code state exist.
func (c *Client) OwnerMint(ctx context.Context, chainID int64, collection, recipient common.Address, uri string) (*TokenMintedEvent, common.Hash, error) {
	cc, err := c.contracts(chainID)
	if err != nil {
		return nil, common.Hash{}, err
	}
	receipt, err := c.transact(ctx, chainID, cc.factory, factoryABI, "ownerMint", collection, recipient, uri)
	if err != nil {
		return nil, common.Hash{}, err
	}
	ev, err := decodeTokenMinted(cc.factory, receipt)
	if err != nil {
		return nil, common.Hash{}, err
	}
	return ev, receipt.TxHash, nil
}

func decodeCollectionCreated(factory common.Address, receipt *types.Receipt) (*CollectionCreatedEvent, error) {
	eventID := factoryABI.Events["CollectionCreated"].ID
	for _, lg := range receipt.Logs {
		if lg.Address != factory || len(lg.Topics) == 0 || lg.Topics[0] != eventID {
			continue
		}
		bound := bind.NewBoundContract(factory, factoryABI, nil, nil, nil)
		var ev CollectionCreatedEvent
		if err := bound.UnpackLog(&ev, "CollectionCreated", *lg); err != nil {
			return nil, fmt.Errorf("unpack CollectionCreated: %w", err)
		}
		return &ev, nil
	}
	return nil, fmt.Errorf("tx %s: no CollectionCreated event", receipt.TxHash.Hex())
}

func decodeTokenMinted(factory common.Address, receipt *types.Receipt) (*TokenMintedEvent, error) {
	eventID := factoryABI.Events["TokenMinted"].ID
	for _, lg := range receipt.Logs {
		if len(lg.Topics) == 0 || lg.Topics[0] != eventID {
			continue
		}
		bound := bind.NewBoundContract(factory, factoryABI, nil, nil, nil)
		var ev TokenMintedEvent
		if err := bound.UnpackLog(&ev, "TokenMinted", *lg); err != nil {
			return nil, fmt.Errorf("unpack TokenMinted: %w", err)
		}
		return &ev, nil
	}
	return nil, fmt.Errorf("tx %s: no TokenMinted event", receipt.TxHash.Hex())
}

// ── Subscription manager ─────────────────────────────────────────────────────

// GetSubscription reads a user's raw subscription record.
func (c *Client) GetSubscription(ctx context.Context, chainID int64, user common.Address) (*SubscriptionState, error) {
	cc, err := c.contracts(chainID)
	if err != nil {
		return nil, err
	}
	var out []interface{}
	if err := c.call(ctx, chainID, cc.subscription, subscriptionABI, &out, "getSubscription", user); err != nil {
		return nil, fmt.Errorf("getSubscription: %w", err)
	}
	return &SubscriptionState{
		Plan:            out[0].(uint8),
		ExpiresAt:       out[1].(*big.Int),
		PeriodStart:     out[2].(*big.Int),
		Minted:          out[3].(*big.Int),
		MintLimit:       out[4].(*big.Int),
		Active:          out[5].(bool),
		GaslessEligible: out[6].(bool),
	}, nil
}

// CanUserMint asks the contract whether user may mint count more NFTs.
func (c *Client) CanUserMint(ctx context.Context, chainID int64, user common.Address, count *big.Int) (bool, error) {
	cc, err := c.contracts(chainID)
	if err != nil {
		return false, err
	}
	var out []interface{}
	if err := c.call(ctx, chainID, cc.subscription, subscriptionABI, &out, "canUserMint", user, count); err != nil {
		return false, fmt.Errorf("canUserMint: %w", err)
	}
	return out[0].(bool), nil
}

// GetPlanConfig reads price/limit/eligibility for a plan tier.
func (c *Client) GetPlanConfig(ctx context.Context, chainID int64, plan uint8) (*PlanConfig, error) {
	cc, err := c.contracts(chainID)
	if err != nil {
		return nil, err
	}
	var out []interface{}
	if err := c.call(ctx, chainID, cc.subscription, subscriptionABI, &out, "planConfig", plan); err != nil {
		return nil, fmt.Errorf("planConfig: %w", err)
	}
	return &PlanConfig{
		Price:           out[0].(*big.Int),
		MintLimit:       out[1].(*big.Int),
		GaslessEligible: out[2].(bool),
	}, nil
}

// AutoEnrollFreePlan enrolls user into the Free plan. Idempotent on-chain.
func (c *Client) AutoEnrollFreePlan(ctx context.Context, chainID int64, user common.Address) (common.Hash, error) {
	cc, err := c.contracts(chainID)
	if err != nil {
		return common.Hash{}, err
	}
	receipt, err := c.transact(ctx, chainID, cc.subscription, subscriptionABI, "autoEnrollFreePlan", user)
	if err != nil {
		return common.Hash{}, err
	}
	return receipt.TxHash, nil
}

// RecordMint charges count mints against user's quota. Called only after the
// mint transaction itself has confirmed.
func (c *Client) RecordMint(ctx context.Context, chainID int64, user common.Address, count *big.Int) (common.Hash, error) {
	cc, err := c.contracts(chainID)
	if err != nil {
		return common.Hash{}, err
	}
	receipt, err := c.transact(ctx, chainID, cc.subscription, subscriptionABI, "recordMint", user, count)
	if err != nil {
		return common.Hash{}, err
	}
	return receipt.TxHash, nil
}

// PurchasePlan moves user onto a paid plan after payment verification.
func (c *Client) PurchasePlan(ctx context.Context, chainID int64, user common.Address, plan uint8) (common.Hash, error) {
	cc, err := c.contracts(chainID)
	if err != nil {
		return common.Hash{}, err
	}
	receipt, err := c.transact(ctx, chainID, cc.subscription, subscriptionABI, "purchasePlan", user, plan)
	if err != nil {
		return common.Hash{}, err
	}
	return receipt.TxHash, nil
}

// ── Payment verification ─────────────────────────────────────────────────────

// VerifyStablecoinPayment checks that txHash is a confirmed stablecoin
// Transfer from payer to the treasury for at least minAmount.
func (c *Client) VerifyStablecoinPayment(ctx context.Context, chainID int64, txHash common.Hash, payer common.Address, minAmount *big.Int) error {
	cc, err := c.contracts(chainID)
	if err != nil {
		return err
	}

	var receipt *types.Receipt
	err = c.pool.Execute(ctx, chainID, func(ctx context.Context, eth *ethclient.Client) error {
		r, err := eth.TransactionReceipt(ctx, txHash)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return fmt.Errorf("payment receipt %s: %w", txHash.Hex(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return relayerr.New(relayerr.KindBadRequest, "payment tx %s reverted", txHash.Hex())
	}

	transferID := transferABI.Events["Transfer"].ID
	for _, lg := range receipt.Logs {
		if lg.Address != cc.stablecoin || len(lg.Topics) == 0 || lg.Topics[0] != transferID {
			continue
		}
		bound := bind.NewBoundContract(cc.stablecoin, transferABI, nil, nil, nil)
		var ev TransferEvent
		if err := bound.UnpackLog(&ev, "Transfer", *lg); err != nil {
			continue
		}
		if ev.From == payer && ev.To == cc.treasury && ev.Value.Cmp(minAmount) >= 0 {
			return nil
		}
	}
	return relayerr.New(relayerr.KindBadRequest,
		"tx %s carries no qualifying stablecoin transfer to the treasury", txHash.Hex())
}
