// Package relayerr defines the relay's error taxonomy. Every terminal error
// carries a stable machine-readable kind plus a human-readable detail string;
// the HTTP layer maps kinds to status codes.
package relayerr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind is the machine-readable error class returned to callers.
type Kind string

const (
	KindSignatureInvalid     Kind = "SIGNATURE_INVALID"
	KindVoucherExpired       Kind = "VOUCHER_EXPIRED"
	KindNonceMismatch        Kind = "NONCE_MISMATCH"
	KindQuotaExceeded        Kind = "QUOTA_EXCEEDED"
	KindSubscriptionInactive Kind = "SUBSCRIPTION_INACTIVE"
	KindClaimCodeInvalid     Kind = "CLAIM_CODE_INVALID"
	KindClaimCodeExhausted   Kind = "CLAIM_CODE_EXHAUSTED"
	KindRpcRateLimited       Kind = "RPC_RATE_LIMITED"
	KindRpcUnavailable       Kind = "RPC_UNAVAILABLE"
	KindContractRevert       Kind = "CONTRACT_REVERT"
	KindBadRequest           Kind = "BAD_REQUEST"
)

// Error is a classified relay error. Err (optional) is the underlying cause
// and participates in errors.Is/As chains via Unwrap.
type Error struct {
	Kind       Kind
	Detail     string
	Err        error
	RetryAfter time.Duration // set when the pool exhausted on rate limits
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with a formatted detail string.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error around an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from err, or "" if err is not a relay error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }

// HTTPStatus maps an error kind to the status code of the /relay response.
// Validation kinds are the caller's fault (400); exhausted rate limiting is
// 429 so clients back off; reverts are 500; a dead RPC plane is 503.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindSignatureInvalid, KindVoucherExpired, KindNonceMismatch,
		KindQuotaExceeded, KindSubscriptionInactive,
		KindClaimCodeInvalid, KindClaimCodeExhausted, KindBadRequest:
		return http.StatusBadRequest
	case KindRpcRateLimited:
		return http.StatusTooManyRequests
	case KindRpcUnavailable:
		return http.StatusServiceUnavailable
	case KindContractRevert:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
