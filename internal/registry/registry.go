// Package registry keeps an append-only index of deployed collections keyed
// by creator address and voucher sequence. The on-chain address recorded here
// is the one the factory emitted; it is never derived off-chain.
package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
)

// Redis key templates
const (
	entryKeyFmt = "registry:collection:%d:%s:%d" // chainID, creator (lowercase), sequence
	indexKeyFmt = "registry:creator:%d:%s"       // chainID, creator (lowercase)
)

type Entry struct {
	ChainID    int64
	Creator    common.Address
	Sequence   int64
	Collection common.Address
	TxHash     common.Hash
}

type Registry struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Registry {
	return &Registry{rdb: rdb}
}

func creatorKey(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

// Append records a deployment. SetNX keeps the registry append-only: an
// existing (creator, sequence) slot is never overwritten.
func (r *Registry) Append(ctx context.Context, e Entry) error {
	key := fmt.Sprintf(entryKeyFmt, e.ChainID, creatorKey(e.Creator), e.Sequence)
	val := e.Collection.Hex() + "|" + e.TxHash.Hex()
	set, err := r.rdb.SetNX(ctx, key, val, 0).Result()
	if err != nil {
		return fmt.Errorf("registry append: %w", err)
	}
	if !set {
		return fmt.Errorf("registry slot %s already written", key)
	}
	return r.rdb.RPush(ctx, fmt.Sprintf(indexKeyFmt, e.ChainID, creatorKey(e.Creator)), e.Sequence).Err()
}

// Lookup returns the collection deployed for (creator, sequence), or the zero
// address when none is recorded.
func (r *Registry) Lookup(ctx context.Context, chainID int64, creator common.Address, sequence int64) (common.Address, error) {
	key := fmt.Sprintf(entryKeyFmt, chainID, creatorKey(creator), sequence)
	val, err := r.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return common.Address{}, nil
	}
	if err != nil {
		return common.Address{}, fmt.Errorf("registry lookup: %w", err)
	}
	addr, _, _ := strings.Cut(val, "|")
	return common.HexToAddress(addr), nil
}

// ByCreator lists every collection a creator has deployed on chainID, in
// deployment order.
func (r *Registry) ByCreator(ctx context.Context, chainID int64, creator common.Address) ([]Entry, error) {
	seqs, err := r.rdb.LRange(ctx, fmt.Sprintf(indexKeyFmt, chainID, creatorKey(creator)), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("registry index: %w", err)
	}
	entries := make([]Entry, 0, len(seqs))
	for _, s := range seqs {
		var seq int64
		if _, err := fmt.Sscanf(s, "%d", &seq); err != nil {
			continue
		}
		key := fmt.Sprintf(entryKeyFmt, chainID, creatorKey(creator), seq)
		val, err := r.rdb.Get(ctx, key).Result()
		if err != nil {
			continue
		}
		addr, tx, _ := strings.Cut(val, "|")
		entries = append(entries, Entry{
			ChainID:    chainID,
			Creator:    creator,
			Sequence:   seq,
			Collection: common.HexToAddress(addr),
			TxHash:     common.HexToHash(tx),
		})
	}
	return entries, nil
}
