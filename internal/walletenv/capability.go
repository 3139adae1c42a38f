// Package walletenv selects where the relay's funding key comes from. Certain
// host apps run a wallet daemon that owns the key; outside those hosts the
// key is supplied through configuration. The choice is made once at
// startup through a capability interface with a "present" and an "absent"
// implementation, not by a per-call probe.
package walletenv

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/artforge-labs/mint-relay/internal/config"
	"github.com/artforge-labs/mint-relay/internal/walletenv/hostkeypb"
)

// KeySource yields the process-wide funding key.
type KeySource interface {
	// FundingKey returns the relay's signing key. Called once during startup.
	FundingKey(ctx context.Context) (*ecdsa.PrivateKey, error)
	// Name identifies the source in logs.
	Name() string
}

// FromConfig picks the host daemon when configured, the config key otherwise.
func FromConfig(cfg config.RelayerConfig) KeySource {
	if cfg.WalletHost != "" {
		return &HostSource{target: cfg.WalletHost, appID: cfg.WalletApp}
	}
	return &ConfigSource{keyHex: cfg.PrivateKey}
}

// ConfigSource is the "absent" capability: the key lives in configuration.
type ConfigSource struct {
	keyHex string
}

func (s *ConfigSource) Name() string { return "config" }

func (s *ConfigSource) FundingKey(ctx context.Context) (*ecdsa.PrivateKey, error) {
	keyHex := strings.TrimPrefix(s.keyHex, "0x")
	if len(keyHex) != 64 {
		return nil, fmt.Errorf("walletenv: RELAYER_PRIVATE_KEY must be a 32-byte hex string (got %d chars)", len(keyHex))
	}
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("walletenv: parse relayer key: %w", err)
	}
	return key, nil
}

// HostSource is the "present" capability: the key is fetched over gRPC from
// the wallet daemon the host app runs.
type HostSource struct {
	target string
	appID  string
}

func (s *HostSource) Name() string { return "wallet-host" }

func (s *HostSource) FundingKey(ctx context.Context) (*ecdsa.PrivateKey, error) {
	conn, err := grpc.NewClient(s.target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("walletenv: grpc dial %s: %w", s.target, err)
	}
	defer conn.Close()

	client := hostkeypb.NewHostKeyServiceClient(conn)
	resp, err := client.GetSigningKey(ctx, &hostkeypb.GetSigningKeyRequest{
		AppId:   s.appID,
		KeyType: "ethereum",
	})
	if err != nil {
		return nil, fmt.Errorf("walletenv: GetSigningKey: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("walletenv: GetSigningKey failed: %s", resp.Message)
	}
	if len(resp.PrivateKey) == 0 {
		return nil, fmt.Errorf("walletenv: GetSigningKey returned empty key")
	}

	key, err := crypto.HexToECDSA(hex.EncodeToString(resp.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("walletenv: parse host key: %w", err)
	}
	return key, nil
}
