// Package subscription reads and drives the on-chain subscription ledger:
// auto-enrollment, quota-gated mint decisions and paid plan upgrades. The
// contract is the system of record; nothing here is cached across requests.
package subscription

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/artforge-labs/mint-relay/internal/chain"
	"github.com/artforge-labs/mint-relay/internal/relayerr"
)

// Plan mirrors the contract enum (same ordinal values).
type Plan uint8

const (
	PlanFree Plan = iota
	PlanMaster
	PlanElite
)

func (p Plan) String() string {
	switch p {
	case PlanFree:
		return "FREE"
	case PlanMaster:
		return "MASTER"
	case PlanElite:
		return "ELITE"
	default:
		return "UNKNOWN"
	}
}

// ParsePlan maps a request string to a Plan.
func ParsePlan(s string) (Plan, bool) {
	switch s {
	case "free", "FREE":
		return PlanFree, true
	case "master", "MASTER":
		return PlanMaster, true
	case "elite", "ELITE":
		return PlanElite, true
	}
	return 0, false
}

// quotaPeriod is the quota reset interval. Monthly per the current protocol
// version; the reset is evaluated lazily at access time, never by a job.
const quotaPeriod = 30 * 24 * time.Hour

// Subscription is the ledger record with the lazy period rollover applied.
type Subscription struct {
	Owner           common.Address
	Plan            Plan
	ExpiresAt       int64
	PeriodStart     int64
	Minted          int64
	MintLimit       int64
	Active          bool
	GaslessEligible bool
}

// Chain is the slice of chain.Client the ledger needs.
type Chain interface {
	GetSubscription(ctx context.Context, chainID int64, user common.Address) (*chain.SubscriptionState, error)
	AutoEnrollFreePlan(ctx context.Context, chainID int64, user common.Address) (common.Hash, error)
	RecordMint(ctx context.Context, chainID int64, user common.Address, count *big.Int) (common.Hash, error)
	PurchasePlan(ctx context.Context, chainID int64, user common.Address, plan uint8) (common.Hash, error)
	GetPlanConfig(ctx context.Context, chainID int64, plan uint8) (*chain.PlanConfig, error)
	VerifyStablecoinPayment(ctx context.Context, chainID int64, txHash common.Hash, payer common.Address, minAmount *big.Int) error
}

type Ledger struct {
	chain Chain
	log   *zap.Logger
	now   func() time.Time

	// Per-address guard so a burst of first-time requests produces one
	// enrollment transaction, not several redundant ones. The contract is
	// idempotent either way; this only saves gas.
	enrollMu sync.Mutex
	enrolls  map[string]*sync.Mutex
}

func NewLedger(ch Chain, log *zap.Logger) *Ledger {
	return &Ledger{
		chain:   ch,
		log:     log,
		now:     time.Now,
		enrolls: make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) enrollLock(chainID int64, user common.Address) *sync.Mutex {
	l.enrollMu.Lock()
	defer l.enrollMu.Unlock()
	k := user.Hex() + "@" + big.NewInt(chainID).String()
	mu, ok := l.enrolls[k]
	if !ok {
		mu = &sync.Mutex{}
		l.enrolls[k] = mu
	}
	return mu
}

// fromState converts the raw contract record, applying the lazy monthly
// rollover: a record whose period has elapsed counts as minted=0.
func (l *Ledger) fromState(user common.Address, s *chain.SubscriptionState) *Subscription {
	sub := &Subscription{
		Owner:           user,
		Plan:            Plan(s.Plan),
		ExpiresAt:       s.ExpiresAt.Int64(),
		PeriodStart:     s.PeriodStart.Int64(),
		Minted:          s.Minted.Int64(),
		MintLimit:       s.MintLimit.Int64(),
		Active:          s.Active,
		GaslessEligible: s.GaslessEligible,
	}
	now := l.now().Unix()
	if sub.Active && now >= sub.PeriodStart+int64(quotaPeriod.Seconds()) {
		sub.Minted = 0
	}
	if sub.Active && sub.ExpiresAt != 0 && now > sub.ExpiresAt {
		sub.Active = false
	}
	return sub
}

// Get returns the effective subscription for user, or nil if never enrolled.
func (l *Ledger) Get(ctx context.Context, chainID int64, user common.Address) (*Subscription, error) {
	state, err := l.chain.GetSubscription(ctx, chainID, user)
	if err != nil {
		return nil, err
	}
	if !state.Active && state.PeriodStart.Sign() == 0 {
		return nil, nil // never enrolled
	}
	return l.fromState(user, state), nil
}

// EnsureEnrolled enrolls user into the Free plan on first contact, or
// re-enrolls an expired subscription. Idempotent.
func (l *Ledger) EnsureEnrolled(ctx context.Context, chainID int64, user common.Address) (*Subscription, error) {
	sub, err := l.Get(ctx, chainID, user)
	if err != nil {
		return nil, err
	}
	if sub != nil && sub.Active {
		return sub, nil
	}

	mu := l.enrollLock(chainID, user)
	mu.Lock()
	defer mu.Unlock()

	// Re-check under the lock: another request may have just enrolled.
	sub, err = l.Get(ctx, chainID, user)
	if err != nil {
		return nil, err
	}
	if sub != nil && sub.Active {
		return sub, nil
	}

	txHash, err := l.chain.AutoEnrollFreePlan(ctx, chainID, user)
	if err != nil {
		return nil, err
	}
	l.log.Info("auto-enrolled into free plan",
		zap.String("user", user.Hex()),
		zap.Int64("chain", chainID),
		zap.String("tx", txHash.Hex()),
	)

	sub, err = l.Get(ctx, chainID, user)
	if err != nil {
		return nil, err
	}
	if sub == nil || !sub.Active {
		return nil, relayerr.New(relayerr.KindSubscriptionInactive,
			"enrollment tx %s confirmed but subscription still inactive", txHash.Hex())
	}
	return sub, nil
}

// CanMint rejects with QuotaExceeded or SubscriptionInactive before anything
// touches the chain's mutating surface. count=0 still requires an active
// subscription (collection creation costs no quota).
func (l *Ledger) CanMint(ctx context.Context, chainID int64, user common.Address, count int64) (*Subscription, error) {
	sub, err := l.EnsureEnrolled(ctx, chainID, user)
	if err != nil {
		return nil, err
	}
	if !sub.Active {
		return nil, relayerr.New(relayerr.KindSubscriptionInactive,
			"subscription for %s is not active", user.Hex())
	}
	if sub.Minted+count > sub.MintLimit {
		return nil, relayerr.New(relayerr.KindQuotaExceeded,
			"plan %s allows %d mints per period, %d used, %d requested",
			sub.Plan, sub.MintLimit, sub.Minted, count)
	}
	return sub, nil
}

// RecordMint charges quota after the mint transaction confirmed. A dropped
// or reverted mint never reaches this point.
func (l *Ledger) RecordMint(ctx context.Context, chainID int64, user common.Address, count int64) error {
	txHash, err := l.chain.RecordMint(ctx, chainID, user, big.NewInt(count))
	if err != nil {
		return err
	}
	l.log.Info("quota charged",
		zap.String("user", user.Hex()),
		zap.Int64("count", count),
		zap.String("tx", txHash.Hex()),
	)
	return nil
}

// Upgrade verifies the stablecoin payment and moves user to the paid plan.
// Downgrades mid-period are rejected; the wider limit stays until renewal.
func (l *Ledger) Upgrade(ctx context.Context, chainID int64, user common.Address, plan Plan, paymentTx common.Hash) (common.Hash, error) {
	sub, err := l.EnsureEnrolled(ctx, chainID, user)
	if err != nil {
		return common.Hash{}, err
	}
	if plan <= sub.Plan {
		return common.Hash{}, relayerr.New(relayerr.KindBadRequest,
			"cannot move from %s to %s mid-period; downgrades apply at renewal", sub.Plan, plan)
	}

	cfg, err := l.chain.GetPlanConfig(ctx, chainID, uint8(plan))
	if err != nil {
		return common.Hash{}, err
	}
	if err := l.chain.VerifyStablecoinPayment(ctx, chainID, paymentTx, user, cfg.Price); err != nil {
		return common.Hash{}, err
	}

	txHash, err := l.chain.PurchasePlan(ctx, chainID, user, uint8(plan))
	if err != nil {
		return common.Hash{}, err
	}
	l.log.Info("plan upgraded",
		zap.String("user", user.Hex()),
		zap.String("plan", plan.String()),
		zap.String("tx", txHash.Hex()),
	)
	return txHash, nil
}
