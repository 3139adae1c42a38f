package voucher

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var voucherTypeHash = crypto.Keccak256Hash([]byte(
	"CollectionVoucher(string name,string symbol,string description,string image,string externalUrl,address artist,address royaltyRecipient,uint96 royaltyBps,uint256 sequence,uint256 expiry)",
))

// domainSeparator computes the EIP-712 domain separator for the factory.
func domainSeparator(chainID *big.Int, factoryAddr common.Address) [32]byte {
	domainTypeHash := crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)",
	))
	nameHash := crypto.Keccak256Hash([]byte("ArtForge Collection Factory"))
	versionHash := crypto.Keccak256Hash([]byte("1"))

	// ABI-encode: (bytes32, bytes32, bytes32, uint256, address)
	encoded := make([]byte, 5*32)
	copy(encoded[0:32], domainTypeHash[:])
	copy(encoded[32:64], nameHash[:])
	copy(encoded[64:96], versionHash[:])
	chainID.FillBytes(encoded[96:128])
	copy(encoded[140:160], factoryAddr.Bytes()) // addr is right-aligned in its 32-byte slot

	return crypto.Keccak256Hash(encoded)
}

// Hash computes the EIP-712 digest an artist signs. Dynamic (string) fields
// enter the struct hash as keccak256 of their bytes, per EIP-712.
func Hash(v *CollectionVoucher, chainID *big.Int, factoryAddr common.Address) [32]byte {
	encoded := make([]byte, 11*32)
	copy(encoded[0:32], voucherTypeHash[:])
	hashStringInto(encoded[32:64], v.Name)
	hashStringInto(encoded[64:96], v.Symbol)
	hashStringInto(encoded[96:128], v.Description)
	hashStringInto(encoded[128:160], v.Image)
	hashStringInto(encoded[160:192], v.ExternalURL)
	copy(encoded[204:224], v.Artist.Bytes())
	copy(encoded[236:256], v.RoyaltyRecipient.Bytes())
	fillBig(encoded[256:288], v.RoyaltyBps)
	fillBig(encoded[288:320], v.Sequence)
	fillBig(encoded[320:352], v.Expiry)

	structHash := crypto.Keccak256Hash(encoded)
	sep := domainSeparator(chainID, factoryAddr)

	// Final digest: keccak256(0x1901 || domainSeparator || structHash)
	msg := make([]byte, 2+32+32)
	msg[0] = 0x19
	msg[1] = 0x01
	copy(msg[2:34], sep[:])
	copy(msg[34:66], structHash[:])
	return crypto.Keccak256Hash(msg)
}

func hashStringInto(dst []byte, s string) {
	h := crypto.Keccak256Hash([]byte(s))
	copy(dst, h[:])
}

func fillBig(dst []byte, v *big.Int) {
	if v != nil {
		v.FillBytes(dst)
	}
}

// RecoverSigner returns the address that produced v.Signature.
func RecoverSigner(v *CollectionVoucher, chainID *big.Int, factoryAddr common.Address) (common.Address, error) {
	if len(v.Signature) != 65 {
		return common.Address{}, errors.New("invalid signature length")
	}
	digest := Hash(v, chainID, factoryAddr)

	// Normalize V: wallets emit 27/28, ecrecover expects 0/1.
	sig := make([]byte, 65)
	copy(sig, v.Signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	pub, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Sign signs the voucher in-place. Used by tests and client tooling; in
// production the artist's wallet produces the signature.
func Sign(v *CollectionVoucher, privKey *ecdsa.PrivateKey, chainID *big.Int, factoryAddr common.Address) error {
	digest := Hash(v, chainID, factoryAddr)
	sig, err := crypto.Sign(digest[:], privKey)
	if err != nil {
		return err
	}
	// Convert V from 0/1 to 27/28 for Solidity ecrecover
	sig[64] += 27
	v.Signature = sig
	return nil
}
