package voucher

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/artforge-labs/mint-relay/internal/relayerr"
)

// SequenceReader reads the factory's authoritative replay counter for an
// artist. Always a live chain read; a cached value could let a voucher
// replay across a process restart.
type SequenceReader interface {
	VoucherNonce(ctx context.Context, chainID int64, artist common.Address) (*big.Int, error)
}

// Verifier validates voucher intent before any state-mutating call.
type Verifier struct {
	seq SequenceReader
	now func() time.Time
}

func NewVerifier(seq SequenceReader) *Verifier {
	return &Verifier{seq: seq, now: time.Now}
}

// Verify checks, in order: signature recovers to the claimed artist, expiry
// is in the future, and the sequence number equals the artist's next expected
// value on-chain. factoryAddr is the EIP-712 verifying contract.
func (vf *Verifier) Verify(ctx context.Context, v *CollectionVoucher, chainID int64, factoryAddr common.Address) error {
	if v.Sequence == nil || v.Expiry == nil {
		return relayerr.New(relayerr.KindBadRequest, "voucher missing sequence or expiry")
	}

	signer, err := RecoverSigner(v, big.NewInt(chainID), factoryAddr)
	if err != nil {
		return relayerr.Wrap(relayerr.KindSignatureInvalid, err, "signature recovery failed")
	}
	if signer != v.Artist {
		return relayerr.New(relayerr.KindSignatureInvalid,
			"signature recovers to %s, voucher claims artist %s", signer.Hex(), v.Artist.Hex())
	}

	if now := vf.now().Unix(); v.Expiry.Int64() <= now {
		return relayerr.New(relayerr.KindVoucherExpired,
			"voucher expired at %d (now %d)", v.Expiry.Int64(), now)
	}

	expected, err := vf.seq.VoucherNonce(ctx, chainID, v.Artist)
	if err != nil {
		return err
	}
	if expected.Cmp(v.Sequence) != 0 {
		return relayerr.New(relayerr.KindNonceMismatch,
			"voucher sequence %s, expected %s", v.Sequence, expected)
	}
	return nil
}
