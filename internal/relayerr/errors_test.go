package relayerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	e := New(KindVoucherExpired, "expired at %d", 42)
	want := "VOUCHER_EXPIRED: expired at 42"
	if e.Error() != want {
		t.Fatalf("got %q, want %q", e.Error(), want)
	}

	wrapped := Wrap(KindRpcUnavailable, errors.New("dial tcp: refused"), "all endpoints failed")
	want = "RPC_UNAVAILABLE: all endpoints failed: dial tcp: refused"
	if wrapped.Error() != want {
		t.Fatalf("got %q, want %q", wrapped.Error(), want)
	}
}

func TestKindOfThroughChain(t *testing.T) {
	inner := New(KindQuotaExceeded, "minted 5 of 5")
	outer := fmt.Errorf("mint rejected: %w", inner)
	if KindOf(outer) != KindQuotaExceeded {
		t.Fatalf("KindOf through fmt.Errorf chain = %q", KindOf(outer))
	}
	if !Is(outer, KindQuotaExceeded) {
		t.Fatal("Is should match through the chain")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatal("plain errors have no kind")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	e := Wrap(KindRpcUnavailable, cause, "endpoint dropped")
	if !errors.Is(e, cause) {
		t.Fatal("wrapped cause not reachable via errors.Is")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindSignatureInvalid:     http.StatusBadRequest,
		KindVoucherExpired:       http.StatusBadRequest,
		KindNonceMismatch:        http.StatusBadRequest,
		KindQuotaExceeded:        http.StatusBadRequest,
		KindSubscriptionInactive: http.StatusBadRequest,
		KindClaimCodeInvalid:     http.StatusBadRequest,
		KindClaimCodeExhausted:   http.StatusBadRequest,
		KindBadRequest:           http.StatusBadRequest,
		KindRpcRateLimited:       http.StatusTooManyRequests,
		KindRpcUnavailable:       http.StatusServiceUnavailable,
		KindContractRevert:       http.StatusInternalServerError,
		Kind("SOMETHING_NEW"):    http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := HTTPStatus(kind); got != want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", kind, got, want)
		}
	}
}
