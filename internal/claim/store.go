// Package claim implements the promotional claim-code mint path. Code truth
// lives in Redis, not on-chain, so administrators can create and revise codes
// without a contract write per edit. The claim counter is guarded by an
// atomic server-side script because other processes share the store.
package claim

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
)

const codeKeyPrefix = "claim:code:"

// Code is an administrator-issued claim entitlement.
type Code struct {
	Code          string
	ChainID       int64
	Collection    common.Address
	MetadataRef   string
	MaxClaims     int64
	CurrentClaims int64
	StartTime     int64 // unix seconds, inclusive
	EndTime       int64 // unix seconds, inclusive
	Published     bool
}

// Normalize maps user input to the canonical (case-insensitive) code form.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func codeKey(code string) string {
	return codeKeyPrefix + Normalize(code)
}

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Put creates or updates a code's static fields. The claim counter is only
// initialized when absent, so an admin edit never resets progress.
func (s *Store) Put(ctx context.Context, c Code) error {
	key := codeKey(c.Code)
	if err := s.rdb.HSet(ctx, key,
		"code", Normalize(c.Code),
		"chain_id", c.ChainID,
		"collection", c.Collection.Hex(),
		"metadata_ref", c.MetadataRef,
		"max_claims", c.MaxClaims,
		"start_time", c.StartTime,
		"end_time", c.EndTime,
		"published", boolStr(c.Published),
	).Err(); err != nil {
		return fmt.Errorf("put claim code: %w", err)
	}
	return s.rdb.HSetNX(ctx, key, "current_claims", c.CurrentClaims).Err()
}

// SetPublished flips a code's publication status (retire / re-activate).
func (s *Store) SetPublished(ctx context.Context, code string, published bool) error {
	key := codeKey(code)
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("claim code %q not found", Normalize(code))
	}
	return s.rdb.HSet(ctx, key, "published", boolStr(published)).Err()
}

// Get returns the code record, or nil when unknown.
func (s *Store) Get(ctx context.Context, code string) (*Code, error) {
	vals, err := s.rdb.HGetAll(ctx, codeKey(code)).Result()
	if err != nil {
		return nil, fmt.Errorf("get claim code: %w", err)
	}
	if len(vals) == 0 {
		return nil, nil
	}
	return codeFromMap(vals), nil
}

// incrScript performs the increment-and-check as one atomic server-side step:
// two simultaneous claims against the last slot cannot both pass. Returns the
// new counter value, or -1 when capacity is exhausted.
var incrScript = redis.NewScript(`
local cur = tonumber(redis.call('HGET', KEYS[1], 'current_claims') or '0')
local max = tonumber(redis.call('HGET', KEYS[1], 'max_claims') or '0')
if cur >= max then
  return -1
end
return redis.call('HINCRBY', KEYS[1], 'current_claims', 1)
`)

// ErrExhausted marks a conditional increment that found no capacity.
var ErrExhausted = fmt.Errorf("claim code exhausted")

// ConditionalIncrement consumes one claim slot, or returns ErrExhausted.
func (s *Store) ConditionalIncrement(ctx context.Context, code string) (int64, error) {
	n, err := incrScript.Run(ctx, s.rdb, []string{codeKey(code)}).Int64()
	if err != nil {
		return 0, fmt.Errorf("conditional increment: %w", err)
	}
	if n < 0 {
		return 0, ErrExhausted
	}
	return n, nil
}

// decrScript restores one slot, clamped at zero.
var decrScript = redis.NewScript(`
local cur = tonumber(redis.call('HGET', KEYS[1], 'current_claims') or '0')
if cur <= 0 then
  return 0
end
return redis.call('HINCRBY', KEYS[1], 'current_claims', -1)
`)

// Decrement is the compensating action after a failed on-chain mint.
func (s *Store) Decrement(ctx context.Context, code string) error {
	return decrScript.Run(ctx, s.rdb, []string{codeKey(code)}).Err()
}

func codeFromMap(m map[string]string) *Code {
	chainID, _ := strconv.ParseInt(m["chain_id"], 10, 64)
	maxClaims, _ := strconv.ParseInt(m["max_claims"], 10, 64)
	current, _ := strconv.ParseInt(m["current_claims"], 10, 64)
	start, _ := strconv.ParseInt(m["start_time"], 10, 64)
	end, _ := strconv.ParseInt(m["end_time"], 10, 64)
	return &Code{
		Code:          m["code"],
		ChainID:       chainID,
		Collection:    common.HexToAddress(m["collection"]),
		MetadataRef:   m["metadata_ref"],
		MaxClaims:     maxClaims,
		CurrentClaims: current,
		StartTime:     start,
		EndTime:       end,
		Published:     m["published"] == "1",
	}
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
