package voucher

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CollectionVoucher is the signed authorization an artist produces off-chain
// to have the relay deploy a collection or mint into one on their behalf.
// Consumed exactly once; the relay never persists it past the request.
type CollectionVoucher struct {
	Name             string         `json:"name"`
	Symbol           string         `json:"symbol"`
	Description      string         `json:"description"`
	Image            string         `json:"image"`
	ExternalURL      string         `json:"external_url"`
	Artist           common.Address `json:"artist"`
	RoyaltyRecipient common.Address `json:"royalty_recipient"`
	RoyaltyBps       *big.Int       `json:"royalty_bps"`
	Sequence         *big.Int       `json:"sequence"`
	Expiry           *big.Int       `json:"expiry"` // unix seconds
	Signature        []byte         `json:"signature"`
}
