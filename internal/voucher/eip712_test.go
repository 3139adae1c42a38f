package voucher

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	testChainID     = big.NewInt(137)
	testFactoryAddr = common.HexToAddress("0xFaC70120000000000000000000000000000000aa")
)

func newSignedVoucher(t *testing.T) (*CollectionVoucher, common.Address) {
	t.Helper()
	privKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	artist := crypto.PubkeyToAddress(privKey.PublicKey)

	v := &CollectionVoucher{
		Name:             "Night Garden",
		Symbol:           "NGDN",
		Description:      "limited drop",
		Image:            "ipfs://QmImage",
		ExternalURL:      "https://example.org/ngdn",
		Artist:           artist,
		RoyaltyRecipient: artist,
		RoyaltyBps:       big.NewInt(500),
		Sequence:         big.NewInt(0),
		Expiry:           big.NewInt(1900000000),
	}
	if err := Sign(v, privKey, testChainID, testFactoryAddr); err != nil {
		t.Fatal(err)
	}
	return v, artist
}

// ── Hash ───────────────────────────────────────────────────────────────────

func TestHash_Deterministic(t *testing.T) {
	v, _ := newSignedVoucher(t)
	h1 := Hash(v, testChainID, testFactoryAddr)
	h2 := Hash(v, testChainID, testFactoryAddr)
	if h1 != h2 {
		t.Fatal("Hash is not deterministic")
	}
}

func TestHash_FieldsBindDigest(t *testing.T) {
	v, _ := newSignedVoucher(t)
	base := Hash(v, testChainID, testFactoryAddr)

	mutations := []func(*CollectionVoucher){
		func(m *CollectionVoucher) { m.Name = "Other" },
		func(m *CollectionVoucher) { m.Symbol = "XXXX" },
		func(m *CollectionVoucher) { m.Image = "ipfs://QmOther" },
		func(m *CollectionVoucher) { m.RoyaltyBps = big.NewInt(501) },
		func(m *CollectionVoucher) { m.Sequence = big.NewInt(1) },
		func(m *CollectionVoucher) { m.Expiry = big.NewInt(1900000001) },
	}
	for i, mutate := range mutations {
		m := *v
		mutate(&m)
		if Hash(&m, testChainID, testFactoryAddr) == base {
			t.Fatalf("mutation %d did not change the digest", i)
		}
	}
}

func TestHash_DomainBindsDigest(t *testing.T) {
	v, _ := newSignedVoucher(t)
	base := Hash(v, testChainID, testFactoryAddr)
	if Hash(v, big.NewInt(1), testFactoryAddr) == base {
		t.Fatal("chain id does not bind the digest")
	}
	other := common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	if Hash(v, testChainID, other) == base {
		t.Fatal("verifying contract does not bind the digest")
	}
}

// ── Sign + RecoverSigner ───────────────────────────────────────────────────

func TestSignRecover_Roundtrip(t *testing.T) {
	v, artist := newSignedVoucher(t)
	got, err := RecoverSigner(v, testChainID, testFactoryAddr)
	if err != nil {
		t.Fatal(err)
	}
	if got != artist {
		t.Fatalf("recovered %s, want %s", got.Hex(), artist.Hex())
	}
}

func TestRecoverSigner_TamperedVoucher(t *testing.T) {
	v, artist := newSignedVoucher(t)
	v.Name = "tampered"
	got, err := RecoverSigner(v, testChainID, testFactoryAddr)
	if err == nil && got == artist {
		t.Fatal("tampered voucher still recovers to the artist")
	}
}

func TestRecoverSigner_BadLength(t *testing.T) {
	v, _ := newSignedVoucher(t)
	v.Signature = v.Signature[:64]
	if _, err := RecoverSigner(v, testChainID, testFactoryAddr); err == nil {
		t.Fatal("expected error for truncated signature")
	}
}

func TestSign_VIs27Or28(t *testing.T) {
	v, _ := newSignedVoucher(t)
	if v.Signature[64] != 27 && v.Signature[64] != 28 {
		t.Fatalf("V = %d, want 27 or 28", v.Signature[64])
	}
}
