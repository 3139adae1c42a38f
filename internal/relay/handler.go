package relay

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artforge-labs/mint-relay/internal/auth"
	"github.com/artforge-labs/mint-relay/internal/claim"
	"github.com/artforge-labs/mint-relay/internal/relayerr"
	"github.com/artforge-labs/mint-relay/internal/subscription"
	"github.com/artforge-labs/mint-relay/internal/voucher"
)

// Request is the envelope every relay call arrives in.
type Request struct {
	Type    string          `json:"type"`
	ChainID int64           `json:"chainId"`
	Payload json.RawMessage `json:"payload"`
}

// Response is returned on success; optional fields are set per request type.
type Response struct {
	TransactionHash   string `json:"transactionHash"`
	CollectionAddress string `json:"collectionAddress,omitempty"`
	TokenID           *int64 `json:"tokenId,omitempty"`
}

// voucherWire is the JSON form of a voucher; signature and addresses travel
// as hex strings.
type voucherWire struct {
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	Description      string `json:"description"`
	Image            string `json:"image"`
	ExternalURL      string `json:"externalUrl"`
	Artist           string `json:"artist"`
	RoyaltyRecipient string `json:"royaltyRecipient"`
	RoyaltyBps       int64  `json:"royaltyBps"`
	Sequence         int64  `json:"sequence"`
	Expiry           int64  `json:"expiry"`
	Signature        string `json:"signature"`
}

func (w *voucherWire) toVoucher() (*voucher.CollectionVoucher, error) {
	if !common.IsHexAddress(w.Artist) {
		return nil, relayerr.New(relayerr.KindBadRequest, "invalid artist address %q", w.Artist)
	}
	royaltyRecipient := w.Artist
	if w.RoyaltyRecipient != "" {
		if !common.IsHexAddress(w.RoyaltyRecipient) {
			return nil, relayerr.New(relayerr.KindBadRequest, "invalid royalty recipient %q", w.RoyaltyRecipient)
		}
		royaltyRecipient = w.RoyaltyRecipient
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(w.Signature, "0x"))
	if err != nil {
		return nil, relayerr.New(relayerr.KindBadRequest, "invalid signature hex")
	}
	return &voucher.CollectionVoucher{
		Name:             w.Name,
		Symbol:           w.Symbol,
		Description:      w.Description,
		Image:            w.Image,
		ExternalURL:      w.ExternalURL,
		Artist:           common.HexToAddress(w.Artist),
		RoyaltyRecipient: common.HexToAddress(royaltyRecipient),
		RoyaltyBps:       big.NewInt(w.RoyaltyBps),
		Sequence:         big.NewInt(w.Sequence),
		Expiry:           big.NewInt(w.Expiry),
		Signature:        sig,
	}, nil
}

type createCollectionPayload struct {
	Voucher voucherWire `json:"voucher"`
}

type mintPayload struct {
	Collection  string      `json:"collection"`
	Recipient   string      `json:"recipient"`
	MetadataRef string      `json:"metadataRef"`
	Voucher     voucherWire `json:"voucher"`
}

type claimPayload struct {
	Code     string `json:"code"`
	Claimant string `json:"claimant"`
}

type upgradePayload struct {
	Account   string `json:"account"`
	Plan      string `json:"plan"`
	PaymentTx string `json:"paymentTx"`
}

// Service is satisfied by *Relayer. Decoupled here so handler tests can use
// a mock.
type Service interface {
	CreateCollection(ctx context.Context, chainID int64, v *voucher.CollectionVoucher) (*CreateResult, error)
	Mint(ctx context.Context, chainID int64, collection, recipient common.Address, metadataRef string, v *voucher.CollectionVoucher) (*MintResult, error)
	Claim(ctx context.Context, code string, claimant common.Address) (*claim.Result, error)
	UpgradePlan(ctx context.Context, chainID int64, account common.Address, plan subscription.Plan, paymentTx common.Hash) (common.Hash, error)
	Subscription(ctx context.Context, chainID int64, account common.Address) (*subscription.Subscription, error)
}

// Handler mounts the relay HTTP surface onto a Gin engine.
type Handler struct {
	relayer Service
	log     *zap.Logger
}

func NewHandler(relayer Service, log *zap.Logger) *Handler {
	return &Handler{relayer: relayer, log: log}
}

// Register mounts the routes. The auth middleware should already be applied
// to the group; it only enforces identity when headers are present, and the
// claim/upgrade handlers require it explicitly.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/relay", h.handleRelay)
	rg.GET("/subscription/:chainId/:address", h.handleGetSubscription)
}

func (h *Handler) handleRelay(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, relayerr.Wrap(relayerr.KindBadRequest, err, "malformed request body"))
		return
	}

	switch req.Type {
	case "createCollection":
		h.handleCreateCollection(c, &req)
	case "mint":
		h.handleMint(c, &req)
	case "claim":
		h.handleClaim(c, &req)
	case "upgradePlan":
		h.handleUpgrade(c, &req)
	default:
		writeError(c, relayerr.New(relayerr.KindBadRequest, "unknown relay type %q", req.Type))
	}
}

func (h *Handler) handleCreateCollection(c *gin.Context, req *Request) {
	var p createCollectionPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		writeError(c, relayerr.Wrap(relayerr.KindBadRequest, err, "malformed createCollection payload"))
		return
	}
	v, err := p.Voucher.toVoucher()
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.relayer.CreateCollection(c.Request.Context(), req.ChainID, v)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{
		TransactionHash:   res.TxHash.Hex(),
		CollectionAddress: res.Collection.Hex(),
	})
}

func (h *Handler) handleMint(c *gin.Context, req *Request) {
	var p mintPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		writeError(c, relayerr.Wrap(relayerr.KindBadRequest, err, "malformed mint payload"))
		return
	}
	if !common.IsHexAddress(p.Collection) || !common.IsHexAddress(p.Recipient) {
		writeError(c, relayerr.New(relayerr.KindBadRequest, "invalid collection or recipient address"))
		return
	}
	v, err := p.Voucher.toVoucher()
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.relayer.Mint(c.Request.Context(), req.ChainID,
		common.HexToAddress(p.Collection), common.HexToAddress(p.Recipient), p.MetadataRef, v)
	if err != nil {
		writeError(c, err)
		return
	}
	tokenID := res.TokenID
	c.JSON(http.StatusOK, Response{
		TransactionHash:   res.TxHash.Hex(),
		CollectionAddress: res.Collection.Hex(),
		TokenID:           &tokenID,
	})
}

func (h *Handler) handleClaim(c *gin.Context, req *Request) {
	var p claimPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		writeError(c, relayerr.Wrap(relayerr.KindBadRequest, err, "malformed claim payload"))
		return
	}
	if !common.IsHexAddress(p.Claimant) {
		writeError(c, relayerr.New(relayerr.KindBadRequest, "invalid claimant address"))
		return
	}
	if !h.requireWallet(c, p.Claimant) {
		return
	}
	res, err := h.relayer.Claim(c.Request.Context(), p.Code, common.HexToAddress(p.Claimant))
	if err != nil {
		writeError(c, err)
		return
	}
	tokenID := res.TokenID
	c.JSON(http.StatusOK, Response{
		TransactionHash:   res.TxHash.Hex(),
		CollectionAddress: res.Collection.Hex(),
		TokenID:           &tokenID,
	})
}

func (h *Handler) handleUpgrade(c *gin.Context, req *Request) {
	var p upgradePayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		writeError(c, relayerr.Wrap(relayerr.KindBadRequest, err, "malformed upgradePlan payload"))
		return
	}
	if !common.IsHexAddress(p.Account) {
		writeError(c, relayerr.New(relayerr.KindBadRequest, "invalid account address"))
		return
	}
	plan, ok := subscription.ParsePlan(p.Plan)
	if !ok {
		writeError(c, relayerr.New(relayerr.KindBadRequest, "unknown plan %q", p.Plan))
		return
	}
	if len(p.PaymentTx) != 66 || !strings.HasPrefix(p.PaymentTx, "0x") {
		writeError(c, relayerr.New(relayerr.KindBadRequest, "paymentTx must be a 0x tx hash"))
		return
	}
	if !h.requireWallet(c, p.Account) {
		return
	}
	txHash, err := h.relayer.UpgradePlan(c.Request.Context(), req.ChainID,
		common.HexToAddress(p.Account), plan, common.HexToHash(p.PaymentTx))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{TransactionHash: txHash.Hex()})
}

func (h *Handler) handleGetSubscription(c *gin.Context) {
	chainID, err := strconv.ParseInt(c.Param("chainId"), 10, 64)
	if err != nil {
		writeError(c, relayerr.New(relayerr.KindBadRequest, "invalid chain id"))
		return
	}
	addr := c.Param("address")
	if !common.IsHexAddress(addr) {
		writeError(c, relayerr.New(relayerr.KindBadRequest, "invalid address"))
		return
	}
	sub, err := h.relayer.Subscription(c.Request.Context(), chainID, common.HexToAddress(addr))
	if err != nil {
		writeError(c, err)
		return
	}
	if sub == nil {
		c.JSON(http.StatusOK, gin.H{"enrolled": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"enrolled":        true,
		"plan":            sub.Plan.String(),
		"expiresAt":       sub.ExpiresAt,
		"minted":          sub.Minted,
		"mintLimit":       sub.MintLimit,
		"active":          sub.Active,
		"gaslessEligible": sub.GaslessEligible,
	})
}

// requireWallet enforces that the request was wallet-signed by addr.
func (h *Handler) requireWallet(c *gin.Context, addr string) bool {
	wallet := c.GetString(auth.WalletKey)
	if wallet == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHENTICATED", "detail": "wallet signature headers required"})
		return false
	}
	if !strings.EqualFold(wallet, addr) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHENTICATED", "detail": "signer does not match requested address"})
		return false
	}
	return true
}

// writeError maps the taxonomy to the wire format. Rate-limit exhaustion
// additionally carries a Retry-After hint.
func writeError(c *gin.Context, err error) {
	var re *relayerr.Error
	if !errors.As(err, &re) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL", "detail": err.Error()})
		return
	}
	status := relayerr.HTTPStatus(re.Kind)
	if re.RetryAfter > 0 {
		c.Header("Retry-After", strconv.FormatInt(int64(re.RetryAfter.Seconds())+1, 10))
		if re.Kind == relayerr.KindRpcUnavailable {
			// Everything upstream was rate limiting us; tell the client
			// to back off rather than fail over.
			status = http.StatusTooManyRequests
		}
	}
	c.JSON(status, gin.H{"error": string(re.Kind), "detail": re.Detail})
}
