package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/artforge-labs/mint-relay/internal/auth"
	"github.com/artforge-labs/mint-relay/internal/chain"
	"github.com/artforge-labs/mint-relay/internal/claim"
	"github.com/artforge-labs/mint-relay/internal/config"
	"github.com/artforge-labs/mint-relay/internal/metastore"
	"github.com/artforge-labs/mint-relay/internal/noncetrack"
	"github.com/artforge-labs/mint-relay/internal/registry"
	"github.com/artforge-labs/mint-relay/internal/relay"
	"github.com/artforge-labs/mint-relay/internal/rpcpool"
	"github.com/artforge-labs/mint-relay/internal/subscription"
	"github.com/artforge-labs/mint-relay/internal/voucher"
	"github.com/artforge-labs/mint-relay/internal/walletenv"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Redis ─────────────────────────────────────────────────────────────────
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis ping failed", zap.Error(err))
	}

	// ── Funding key (wallet-host capability or config) ────────────────────────
	keySource := walletenv.FromConfig(cfg.Relayer)
	relayerKey, err := keySource.FundingKey(ctx)
	if err != nil {
		log.Fatal("funding key unavailable", zap.Error(err))
	}
	log.Info("funding key loaded", zap.String("source", keySource.Name()))

	// ── RPC pool + nonce tracker ──────────────────────────────────────────────
	endpoints := make(map[int64][]string, len(cfg.Chains))
	for _, ch := range cfg.Chains {
		endpoints[ch.ChainID] = ch.Endpoints
	}
	pool := rpcpool.New(endpoints, rpcpool.Options{
		RetriesPerEndpoint: cfg.RPC.RetriesPerEndpoint,
		CallTimeout:        time.Duration(cfg.RPC.CallTimeoutSec) * time.Second,
		BackoffBase:        time.Duration(cfg.RPC.BackoffBaseMs) * time.Millisecond,
	}, log)
	nonces := noncetrack.New(pool, log)

	// ── Chain client (the only component allowed to submit transactions) ──────
	onchain, err := chain.NewClient(cfg, relayerKey, pool, nonces, log)
	if err != nil {
		log.Fatal("chain client init failed", zap.Error(err))
	}
	log.Info("relayer ready", zap.String("address", onchain.RelayerAddress().Hex()))

	// ── Core services ─────────────────────────────────────────────────────────
	verifier := voucher.NewVerifier(onchain)
	ledger := subscription.NewLedger(onchain, log)
	reg := registry.New(rdb)
	meta := metastore.NewResolver(cfg.Metadata.IPFSGateway, cfg.Metadata.ArweaveGateway)
	claims := claim.NewService(claim.NewStore(rdb), onchain, meta, rdb, log)

	// Interrupted claims from a previous run hand their slots back before we
	// accept traffic.
	claims.RecoverPending(ctx)

	relayer := relay.NewRelayer(verifier, ledger, onchain, reg, claims, meta, log)

	// ── HTTP server ───────────────────────────────────────────────────────────
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/", auth.Middleware(rdb))
	relay.NewHandler(relayer, log).Register(api)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
	log.Info("shutdown complete")
}
