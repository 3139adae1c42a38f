package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Hand-rolled bindings for the two relay-facing contracts. The ABIs are fixed
// protocol surface; calls go through bind.BoundContract so the pool can hand
// each call whichever endpoint client it is currently using.

// FactoryVoucher mirrors the factory's CollectionVoucher tuple.
type FactoryVoucher struct {
	Name             string
	Symbol           string
	Description      string
	Image            string
	ExternalUrl      string
	Artist           common.Address
	RoyaltyRecipient common.Address
	RoyaltyBps       *big.Int
	Sequence         *big.Int
	Expiry           *big.Int
}

// SubscriptionState mirrors the subscription manager's getSubscription return.
type SubscriptionState struct {
	Plan            uint8
	ExpiresAt       *big.Int
	PeriodStart     *big.Int
	Minted          *big.Int
	MintLimit       *big.Int
	Active          bool
	GaslessEligible bool
}

// PlanConfig mirrors the subscription manager's planConfig return.
type PlanConfig struct {
	Price           *big.Int
	MintLimit       *big.Int
	GaslessEligible bool
}

const subscriptionManagerABI = `[
{"type":"function","name":"getSubscription","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"plan","type":"uint8"},{"name":"expiresAt","type":"uint256"},{"name":"periodStart","type":"uint256"},{"name":"minted","type":"uint256"},{"name":"mintLimit","type":"uint256"},{"name":"active","type":"bool"},{"name":"gaslessEligible","type":"bool"}]},
{"type":"function","name":"canUserMint","stateMutability":"view","inputs":[{"name":"user","type":"address"},{"name":"count","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"planConfig","stateMutability":"view","inputs":[{"name":"plan","type":"uint8"}],"outputs":[{"name":"price","type":"uint256"},{"name":"mintLimit","type":"uint256"},{"name":"gaslessEligible","type":"bool"}]},
{"type":"function","name":"autoEnrollFreePlan","stateMutability":"nonpayable","inputs":[{"name":"user","type":"address"}],"outputs":[]},
{"type":"function","name":"recordMint","stateMutability":"nonpayable","inputs":[{"name":"user","type":"address"},{"name":"count","type":"uint256"}],"outputs":[]},
{"type":"function","name":"purchasePlan","stateMutability":"nonpayable","inputs":[{"name":"user","type":"address"},{"name":"plan","type":"uint8"}],"outputs":[]}
]`

const voucherComponents = `[{"name":"name","type":"string"},{"name":"symbol","type":"string"},{"name":"description","type":"string"},{"name":"image","type":"string"},{"name":"externalUrl","type":"string"},{"name":"artist","type":"address"},{"name":"royaltyRecipient","type":"address"},{"name":"royaltyBps","type":"uint96"},{"name":"sequence","type":"uint256"},{"name":"expiry","type":"uint256"}]`

const collectionFactoryABI = `[
{"type":"function","name":"voucherNonce","stateMutability":"view","inputs":[{"name":"artist","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"createCollectionGasless","stateMutability":"nonpayable","inputs":[{"name":"voucher","type":"tuple","components":` + voucherComponents + `},{"name":"signature","type":"bytes"}],"outputs":[]},
{"type":"function","name":"mintGasless","stateMutability":"nonpayable","inputs":[{"name":"collection","type":"address"},{"name":"recipient","type":"address"},{"name":"uri","type":"string"},{"name":"voucher","type":"tuple","components":` + voucherComponents + `},{"name":"signature","type":"bytes"}],"outputs":[]},
{"type":"function","name":"ownerMint","stateMutability":"nonpayable","inputs":[{"name":"collection","type":"address"},{"name":"recipient","type":"address"},{"name":"uri","type":"string"}],"outputs":[]},
{"type":"event","name":"CollectionCreated","anonymous":false,"inputs":[{"name":"creator","type":"address","indexed":true},{"name":"collection","type":"address","indexed":false},{"name":"sequence","type":"uint256","indexed":false}]},
{"type":"event","name":"TokenMinted","anonymous":false,"inputs":[{"name":"collection","type":"address","indexed":true},{"name":"recipient","type":"address","indexed":true},{"name":"tokenId","type":"uint256","indexed":false}]}
]`

// erc20ABI carries only what payment verification needs.
const erc20ABI = `[
{"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]}
]`

var (
	subscriptionABI = mustParse(subscriptionManagerABI)
	factoryABI      = mustParse(collectionFactoryABI)
	transferABI     = mustParse(erc20ABI)
)

func mustParse(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("chain: bad ABI: " + err.Error())
	}
	return parsed
}

// CollectionCreatedEvent is the decoded CollectionCreated log.
type CollectionCreatedEvent struct {
	Creator    common.Address
	Collection common.Address
	Sequence   *big.Int
}

// TokenMintedEvent is the decoded TokenMinted log.
type TokenMintedEvent struct {
	Collection common.Address
	Recipient  common.Address
	TokenId    *big.Int
}

// TransferEvent is the decoded ERC-20 Transfer log.
type TransferEvent struct {
	From  common.Address
	To    common.Address
	Value *big.Int
}
