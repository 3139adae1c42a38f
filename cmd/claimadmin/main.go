// cmd/claimadmin manages promotional claim codes in the durable store.
//
// Usage:
//
//	REDIS_ADDR=localhost:6379 go run ./cmd/claimadmin/ \
//	  -op create -code PROMO-2026 -chain-id 137 \
//	  -collection 0x<claimable contract> -metadata ipfs://Qm... \
//	  -max 100 -start 2026-09-01T00:00:00Z -end 2026-10-01T00:00:00Z
//
//	-op publish | unpublish | show  with -code
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/artforge-labs/mint-relay/internal/claim"
)

func main() {
	op := flag.String("op", "show", "create | publish | unpublish | show")
	code := flag.String("code", "", "claim code")
	chainID := flag.Int64("chain-id", 0, "chain the collection lives on")
	collection := flag.String("collection", "", "claimable contract address")
	metadata := flag.String("metadata", "", "per-claim metadata reference")
	maxClaims := flag.Int64("max", 0, "maximum claims")
	start := flag.String("start", "", "window start (RFC 3339)")
	end := flag.String("end", "", "window end (RFC 3339)")
	flag.Parse()

	if *code == "" {
		fail("-code is required")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		fail("redis: %v", err)
	}
	store := claim.NewStore(rdb)

	switch *op {
	case "create":
		if *chainID == 0 || !common.IsHexAddress(*collection) || *maxClaims <= 0 {
			fail("create needs -chain-id, -collection and -max")
		}
		startAt, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			fail("bad -start: %v", err)
		}
		endAt, err := time.Parse(time.RFC3339, *end)
		if err != nil {
			fail("bad -end: %v", err)
		}
		err = store.Put(ctx, claim.Code{
			Code:        *code,
			ChainID:     *chainID,
			Collection:  common.HexToAddress(*collection),
			MetadataRef: *metadata,
			MaxClaims:   *maxClaims,
			StartTime:   startAt.Unix(),
			EndTime:     endAt.Unix(),
			Published:   false,
		})
		if err != nil {
			fail("create: %v", err)
		}
		fmt.Printf("created %s (unpublished)\n", claim.Normalize(*code))

	case "publish", "unpublish":
		if err := store.SetPublished(ctx, *code, *op == "publish"); err != nil {
			fail("%s: %v", *op, err)
		}
		fmt.Printf("%sed %s\n", *op, claim.Normalize(*code))

	case "show":
		c, err := store.Get(ctx, *code)
		if err != nil {
			fail("show: %v", err)
		}
		if c == nil {
			fail("code %s not found", claim.Normalize(*code))
		}
		fmt.Printf("code:       %s\n", c.Code)
		fmt.Printf("chain:      %d\n", c.ChainID)
		fmt.Printf("collection: %s\n", c.Collection.Hex())
		fmt.Printf("metadata:   %s\n", c.MetadataRef)
		fmt.Printf("claims:     %d/%d\n", c.CurrentClaims, c.MaxClaims)
		fmt.Printf("window:     %s .. %s\n",
			time.Unix(c.StartTime, 0).UTC().Format(time.RFC3339),
			time.Unix(c.EndTime, 0).UTC().Format(time.RFC3339))
		fmt.Printf("published:  %v\n", c.Published)

	default:
		fail("unknown -op %q", *op)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func envOrDefault(key, dflt string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return dflt
}
