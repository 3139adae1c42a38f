// Package noncetrack serializes transaction submission per (chain, signer) so
// concurrent relay requests funded by the same key never reuse an on-chain
// account nonce.
package noncetrack

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/artforge-labs/mint-relay/internal/rpcpool"
)

// PendingNonceReader abstracts the pool's read path; satisfied by
// rpcpool.Pool in production and by a stub in tests.
type PendingNonceReader interface {
	Execute(ctx context.Context, chainID int64, op rpcpool.Op) error
}

type key struct {
	chainID int64
	signer  common.Address
}

type entry struct {
	mu    sync.Mutex // held from Reserve until release
	next  uint64
	known bool // false until synced from the chain, or after a failed submit
}

// Tracker hands out account nonces one at a time per (chain, signer). The
// entry mutex is held across the caller's whole fetch→build→submit critical
// section; Go's mutex starvation mode keeps hand-off approximately FIFO
// under contention.
type Tracker struct {
	mu      sync.Mutex
	entries map[key]*entry
	pool    PendingNonceReader
	log     *zap.Logger
}

func New(pool PendingNonceReader, log *zap.Logger) *Tracker {
	return &Tracker{
		entries: make(map[key]*entry),
		pool:    pool,
		log:     log,
	}
}

func (t *Tracker) entryFor(chainID int64, signer common.Address) *entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := key{chainID, signer}
	e, ok := t.entries[k]
	if !ok {
		e = &entry{}
		t.entries[k] = e
	}
	return e
}

// Reserve acquires the submission slot for (chainID, signer) and returns the
// nonce to use. The slot stays held until release is called: release(true)
// advances the counter after a confirmed submission, release(false) discards
// the cached counter so the next reservation re-syncs from the chain; a
// failed or stuck submit must never advance past an unconsumed nonce.
func (t *Tracker) Reserve(ctx context.Context, chainID int64, signer common.Address) (nonce uint64, release func(confirmed bool), err error) {
	e := t.entryFor(chainID, signer)
	e.mu.Lock()

	if !e.known {
		var pending uint64
		err := t.pool.Execute(ctx, chainID, func(ctx context.Context, eth *ethclient.Client) error {
			n, err := eth.PendingNonceAt(ctx, signer)
			if err != nil {
				return err
			}
			pending = n
			return nil
		})
		if err != nil {
			e.mu.Unlock()
			return 0, nil, err
		}
		e.next = pending
		e.known = true
	}

	n := e.next
	released := false
	return n, func(confirmed bool) {
		if released {
			return
		}
		released = true
		if confirmed {
			e.next = n + 1
		} else {
			// Unknown whether the tx landed; re-sync before the next submit.
			e.known = false
			t.log.Warn("nonce reservation released unconfirmed",
				zap.Int64("chain", chainID),
				zap.String("signer", signer.Hex()),
				zap.Uint64("nonce", n),
			)
		}
		e.mu.Unlock()
	}, nil
}
