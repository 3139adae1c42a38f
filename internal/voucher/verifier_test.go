package voucher

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/artforge-labs/mint-relay/internal/relayerr"
)

type fakeSeq struct {
	next *big.Int
	err  error
}

func (f *fakeSeq) VoucherNonce(_ context.Context, _ int64, _ common.Address) (*big.Int, error) {
	return f.next, f.err
}

func newTestVerifier(next int64) *Verifier {
	vf := NewVerifier(&fakeSeq{next: big.NewInt(next)})
	vf.now = func() time.Time { return time.Unix(1800000000, 0) }
	return vf
}

func TestVerify_Valid(t *testing.T) {
	v, _ := newSignedVoucher(t)
	vf := newTestVerifier(0)
	if err := vf.Verify(context.Background(), v, testChainID.Int64(), testFactoryAddr); err != nil {
		t.Fatalf("valid voucher rejected: %v", err)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	v, _ := newSignedVoucher(t)
	v.RoyaltyBps = big.NewInt(9999)
	err := newTestVerifier(0).Verify(context.Background(), v, testChainID.Int64(), testFactoryAddr)
	if !relayerr.Is(err, relayerr.KindSignatureInvalid) {
		t.Fatalf("got %v, want SIGNATURE_INVALID", err)
	}
}

func TestVerify_WrongArtist(t *testing.T) {
	v, _ := newSignedVoucher(t)
	v.Artist = common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	err := newTestVerifier(0).Verify(context.Background(), v, testChainID.Int64(), testFactoryAddr)
	if !relayerr.Is(err, relayerr.KindSignatureInvalid) {
		t.Fatalf("got %v, want SIGNATURE_INVALID", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	v, _ := newSignedVoucher(t)
	vf := newTestVerifier(0)
	vf.now = func() time.Time { return time.Unix(1900000000, 0) } // exactly at expiry
	err := vf.Verify(context.Background(), v, testChainID.Int64(), testFactoryAddr)
	if !relayerr.Is(err, relayerr.KindVoucherExpired) {
		t.Fatalf("got %v, want VOUCHER_EXPIRED", err)
	}
}

func TestVerify_ReplayedSequence(t *testing.T) {
	// The factory already consumed sequence 0; a re-submitted voucher with
	// sequence 0 must be rejected as a replay.
	v, _ := newSignedVoucher(t)
	err := newTestVerifier(1).Verify(context.Background(), v, testChainID.Int64(), testFactoryAddr)
	if !relayerr.Is(err, relayerr.KindNonceMismatch) {
		t.Fatalf("got %v, want NONCE_MISMATCH", err)
	}
}

func TestVerify_ChecksSignatureBeforeSequence(t *testing.T) {
	// A forged voucher must fail on the signature even when the sequence
	// lookup would also fail.
	v, _ := newSignedVoucher(t)
	v.Name = "forged"
	vf := NewVerifier(&fakeSeq{err: errors.New("rpc down")})
	vf.now = func() time.Time { return time.Unix(1800000000, 0) }
	err := vf.Verify(context.Background(), v, testChainID.Int64(), testFactoryAddr)
	if !relayerr.Is(err, relayerr.KindSignatureInvalid) {
		t.Fatalf("got %v, want SIGNATURE_INVALID", err)
	}
}

func TestVerify_SequenceReadFailure(t *testing.T) {
	v, _ := newSignedVoucher(t)
	vf := NewVerifier(&fakeSeq{err: relayerr.New(relayerr.KindRpcUnavailable, "all endpoints failed")})
	vf.now = func() time.Time { return time.Unix(1800000000, 0) }
	err := vf.Verify(context.Background(), v, testChainID.Int64(), testFactoryAddr)
	if !relayerr.Is(err, relayerr.KindRpcUnavailable) {
		t.Fatalf("got %v, want RPC_UNAVAILABLE", err)
	}
}

func TestVerify_MissingBigInts(t *testing.T) {
	v, _ := newSignedVoucher(t)
	v.Sequence = nil
	err := newTestVerifier(0).Verify(context.Background(), v, testChainID.Int64(), testFactoryAddr)
	if !relayerr.Is(err, relayerr.KindBadRequest) {
		t.Fatalf("got %v, want BAD_REQUEST", err)
	}
}
