package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artforge-labs/mint-relay/internal/auth"
	"github.com/artforge-labs/mint-relay/internal/claim"
	"github.com/artforge-labs/mint-relay/internal/relayerr"
	"github.com/artforge-labs/mint-relay/internal/subscription"
	"github.com/artforge-labs/mint-relay/internal/voucher"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	testArtist     = "0x00000000000000000000000000000000000000A1"
	testCollection = common.HexToAddress("0xC011ec7100000000000000000000000000000001")
	testTx         = common.HexToHash("0x4444444444444444444444444444444444444444444444444444444444444444")
)

// mockService scripts the outcome of each relay operation.
type mockService struct {
	createErr  error
	mintErr    error
	claimErr   error
	upgradeErr error
	sub        *subscription.Subscription
	subErr     error

	gotClaimCode string
	gotPlan      subscription.Plan
}

func (m *mockService) CreateCollection(_ context.Context, _ int64, _ *voucher.CollectionVoucher) (*CreateResult, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &CreateResult{TxHash: testTx, Collection: testCollection}, nil
}

func (m *mockService) Mint(_ context.Context, _ int64, collection, _ common.Address, _ string, _ *voucher.CollectionVoucher) (*MintResult, error) {
	if m.mintErr != nil {
		return nil, m.mintErr
	}
	return &MintResult{TxHash: testTx, Collection: collection, TokenID: 7}, nil
}

func (m *mockService) Claim(_ context.Context, code string, _ common.Address) (*claim.Result, error) {
	m.gotClaimCode = code
	if m.claimErr != nil {
		return nil, m.claimErr
	}
	return &claim.Result{TxHash: testTx, TokenID: 3, Collection: testCollection}, nil
}

func (m *mockService) UpgradePlan(_ context.Context, _ int64, _ common.Address, plan subscription.Plan, _ common.Hash) (common.Hash, error) {
	m.gotPlan = plan
	if m.upgradeErr != nil {
		return common.Hash{}, m.upgradeErr
	}
	return testTx, nil
}

func (m *mockService) Subscription(_ context.Context, _ int64, _ common.Address) (*subscription.Subscription, error) {
	return m.sub, m.subErr
}

// newTestRouter mounts the handler; wallet simulates an authenticated
// middleware pass when non-empty.
func newTestRouter(svc Service, wallet string) *gin.Engine {
	r := gin.New()
	if wallet != "" {
		r.Use(func(c *gin.Context) { c.Set(auth.WalletKey, wallet) })
	}
	NewHandler(svc, zap.NewNop()).Register(&r.RouterGroup)
	return r
}

func postRelay(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/relay", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validVoucherJSON() string {
	return fmt.Sprintf(`{
		"name":"Night Garden","symbol":"NGDN","description":"d","image":"ipfs://QmX",
		"externalUrl":"","artist":%q,"royaltyRecipient":"","royaltyBps":500,
		"sequence":0,"expiry":%d,"signature":"0x%0130d"
	}`, testArtist, time.Now().Add(time.Hour).Unix(), 0)
}

// ── createCollection / mint ────────────────────────────────────────────────

func TestRelay_CreateCollection(t *testing.T) {
	r := newTestRouter(&mockService{}, "")
	w := postRelay(t, r, fmt.Sprintf(`{"type":"createCollection","chainId":1,"payload":{"voucher":%s}}`, validVoucherJSON()))

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.TransactionHash != testTx.Hex() || resp.CollectionAddress != testCollection.Hex() {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.TokenID != nil {
		t.Fatal("createCollection must not return a token id")
	}
}

func TestRelay_Mint(t *testing.T) {
	r := newTestRouter(&mockService{}, "")
	body := fmt.Sprintf(`{"type":"mint","chainId":1,"payload":{
		"collection":%q,"recipient":%q,"metadataRef":"ipfs://QmMeta","voucher":%s}}`,
		testCollection.Hex(), testArtist, validVoucherJSON())
	w := postRelay(t, r, body)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.TokenID == nil || *resp.TokenID != 7 {
		t.Fatalf("tokenId = %v, want 7", resp.TokenID)
	}
}

func TestRelay_MintBadAddresses(t *testing.T) {
	r := newTestRouter(&mockService{}, "")
	body := fmt.Sprintf(`{"type":"mint","chainId":1,"payload":{
		"collection":"not-an-address","recipient":%q,"voucher":%s}}`, testArtist, validVoucherJSON())
	w := postRelay(t, r, body)
	assertErrorKind(t, w, http.StatusBadRequest, relayerr.KindBadRequest)
}

// ── Envelope validation ────────────────────────────────────────────────────

func TestRelay_UnknownType(t *testing.T) {
	r := newTestRouter(&mockService{}, "")
	w := postRelay(t, r, `{"type":"burnEverything","chainId":1,"payload":{}}`)
	assertErrorKind(t, w, http.StatusBadRequest, relayerr.KindBadRequest)
}

func TestRelay_MalformedBody(t *testing.T) {
	r := newTestRouter(&mockService{}, "")
	w := postRelay(t, r, `{"type":`)
	assertErrorKind(t, w, http.StatusBadRequest, relayerr.KindBadRequest)
}

// ── Error mapping ──────────────────────────────────────────────────────────

func TestRelay_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		kind   relayerr.Kind
		status int
	}{
		{relayerr.KindSignatureInvalid, http.StatusBadRequest},
		{relayerr.KindVoucherExpired, http.StatusBadRequest},
		{relayerr.KindNonceMismatch, http.StatusBadRequest},
		{relayerr.KindQuotaExceeded, http.StatusBadRequest},
		{relayerr.KindSubscriptionInactive, http.StatusBadRequest},
		{relayerr.KindContractRevert, http.StatusInternalServerError},
		{relayerr.KindRpcUnavailable, http.StatusServiceUnavailable},
	}
	for _, c := range cases {
		svc := &mockService{createErr: relayerr.New(c.kind, "scripted failure")}
		r := newTestRouter(svc, "")
		w := postRelay(t, r, fmt.Sprintf(`{"type":"createCollection","chainId":1,"payload":{"voucher":%s}}`, validVoucherJSON()))
		assertErrorKind(t, w, c.status, c.kind)
	}
}

func TestRelay_RateLimitExhaustionGets429(t *testing.T) {
	err := relayerr.New(relayerr.KindRpcUnavailable, "all endpoints exhausted")
	err.RetryAfter = 4 * time.Second
	r := newTestRouter(&mockService{createErr: err}, "")

	w := postRelay(t, r, fmt.Sprintf(`{"type":"createCollection","chainId":1,"payload":{"voucher":%s}}`, validVoucherJSON()))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d, want 429", w.Code)
	}
	if retry := w.Header().Get("Retry-After"); retry != "5" {
		t.Fatalf("Retry-After = %q, want %q", retry, "5")
	}
}

// ── Wallet-gated types ─────────────────────────────────────────────────────

func TestRelay_ClaimRequiresWallet(t *testing.T) {
	claimantAddr := "0x00000000000000000000000000000000000000C1"
	body := fmt.Sprintf(`{"type":"claim","chainId":1,"payload":{"code":"promo","claimant":%q}}`, claimantAddr)

	// No wallet in context: rejected before the service runs.
	svc := &mockService{}
	w := postRelay(t, newTestRouter(svc, ""), body)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated claim: status %d, want 401", w.Code)
	}
	if svc.gotClaimCode != "" {
		t.Fatal("service ran without authentication")
	}

	// Wallet mismatch: the signer cannot claim for someone else.
	w = postRelay(t, newTestRouter(svc, testArtist), body)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("mismatched claim: status %d, want 401", w.Code)
	}

	// Match is case-insensitive.
	w = postRelay(t, newTestRouter(svc, "0x00000000000000000000000000000000000000c1"), body)
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated claim: status %d: %s", w.Code, w.Body.String())
	}
	if svc.gotClaimCode != "promo" {
		t.Fatalf("service saw code %q", svc.gotClaimCode)
	}
}

func TestRelay_ClaimExhausted(t *testing.T) {
	claimantAddr := "0x00000000000000000000000000000000000000C1"
	svc := &mockService{claimErr: relayerr.New(relayerr.KindClaimCodeExhausted, "no remaining claims")}
	body := fmt.Sprintf(`{"type":"claim","chainId":1,"payload":{"code":"promo","claimant":%q}}`, claimantAddr)

	w := postRelay(t, newTestRouter(svc, claimantAddr), body)
	assertErrorKind(t, w, http.StatusBadRequest, relayerr.KindClaimCodeExhausted)
}

func TestRelay_Upgrade(t *testing.T) {
	account := "0x00000000000000000000000000000000000000D1"
	svc := &mockService{}
	body := fmt.Sprintf(`{"type":"upgradePlan","chainId":1,"payload":{"account":%q,"plan":"elite","paymentTx":%q}}`,
		account, testTx.Hex())

	w := postRelay(t, newTestRouter(svc, account), body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if svc.gotPlan != subscription.PlanElite {
		t.Fatalf("service saw plan %v", svc.gotPlan)
	}
}

func TestRelay_UpgradeValidation(t *testing.T) {
	account := "0x00000000000000000000000000000000000000D1"
	svc := &mockService{}

	// Unknown plan name.
	body := fmt.Sprintf(`{"type":"upgradePlan","chainId":1,"payload":{"account":%q,"plan":"diamond","paymentTx":%q}}`,
		account, testTx.Hex())
	w := postRelay(t, newTestRouter(svc, account), body)
	assertErrorKind(t, w, http.StatusBadRequest, relayerr.KindBadRequest)

	// Not a tx hash.
	body = fmt.Sprintf(`{"type":"upgradePlan","chainId":1,"payload":{"account":%q,"plan":"elite","paymentTx":"abc"}}`, account)
	w = postRelay(t, newTestRouter(svc, account), body)
	assertErrorKind(t, w, http.StatusBadRequest, relayerr.KindBadRequest)
}

// ── Subscription read ──────────────────────────────────────────────────────

func TestGetSubscription(t *testing.T) {
	svc := &mockService{sub: &subscription.Subscription{
		Plan:            subscription.PlanMaster,
		Minted:          3,
		MintLimit:       50,
		Active:          true,
		GaslessEligible: true,
	}}
	r := newTestRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/subscription/1/"+testArtist, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["enrolled"] != true || resp["plan"] != "MASTER" || resp["minted"] != float64(3) {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestGetSubscription_NeverEnrolled(t *testing.T) {
	r := newTestRouter(&mockService{}, "")
	req := httptest.NewRequest(http.MethodGet, "/subscription/1/"+testArtist, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["enrolled"] != false {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestGetSubscription_BadParams(t *testing.T) {
	r := newTestRouter(&mockService{}, "")
	req := httptest.NewRequest(http.MethodGet, "/subscription/abc/"+testArtist, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/subscription/1/zzz", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func assertErrorKind(t *testing.T, w *httptest.ResponseRecorder, status int, kind relayerr.Kind) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status %d, want %d: %s", w.Code, status, w.Body.String())
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != string(kind) {
		t.Fatalf("error %q, want %q", resp["error"], kind)
	}
}
