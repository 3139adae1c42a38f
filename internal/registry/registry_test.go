package registry

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
)

var (
	creator  = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	deployed = common.HexToAddress("0xC011ec7100000000000000000000000000000002")
	deployTx = common.HexToHash("0x3333333333333333333333333333333333333333333333333333333333333333")
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb)
}

func TestAppendLookup(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	e := Entry{ChainID: 1, Creator: creator, Sequence: 0, Collection: deployed, TxHash: deployTx}
	if err := r.Append(ctx, e); err != nil {
		t.Fatal(err)
	}

	got, err := r.Lookup(ctx, 1, creator, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != deployed {
		t.Fatalf("Lookup = %s, want %s", got.Hex(), deployed.Hex())
	}
}

func TestLookup_Unknown(t *testing.T) {
	r := newTestRegistry(t)
	got, err := r.Lookup(context.Background(), 1, creator, 42)
	if err != nil {
		t.Fatal(err)
	}
	if got != (common.Address{}) {
		t.Fatalf("Lookup for empty slot = %s, want zero address", got.Hex())
	}
}

func TestAppend_SlotNeverOverwritten(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	e := Entry{ChainID: 1, Creator: creator, Sequence: 0, Collection: deployed, TxHash: deployTx}
	if err := r.Append(ctx, e); err != nil {
		t.Fatal(err)
	}

	e.Collection = common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	if err := r.Append(ctx, e); err == nil {
		t.Fatal("rewriting an occupied slot must fail")
	}
	got, _ := r.Lookup(ctx, 1, creator, 0)
	if got != deployed {
		t.Fatalf("slot mutated to %s", got.Hex())
	}
}

func TestByCreator_DeploymentOrder(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	addrs := []common.Address{
		common.HexToAddress("0xC011ec7100000000000000000000000000000010"),
		common.HexToAddress("0xC011ec7100000000000000000000000000000011"),
		common.HexToAddress("0xC011ec7100000000000000000000000000000012"),
	}
	for i, a := range addrs {
		err := r.Append(ctx, Entry{ChainID: 1, Creator: creator, Sequence: int64(i), Collection: a, TxHash: deployTx})
		if err != nil {
			t.Fatal(err)
		}
	}

	entries, err := r.ByCreator(ctx, 1, creator)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, e := range entries {
		if e.Sequence != int64(i) || e.Collection != addrs[i] {
			t.Fatalf("entry %d out of order: %+v", i, e)
		}
	}
}

func TestByCreator_IsolatedByChain(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	if err := r.Append(ctx, Entry{ChainID: 1, Creator: creator, Sequence: 0, Collection: deployed, TxHash: deployTx}); err != nil {
		t.Fatal(err)
	}
	entries, err := r.ByCreator(ctx, 137, creator)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("chain 137 sees chain 1 deployments: %v", entries)
	}
}
