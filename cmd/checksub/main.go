// cmd/checksub prints an address's effective subscription state straight from
// the chain, bypassing the relay.
//
// Usage:
//
//	go run ./cmd/checksub/ \
//	  --rpc      https://polygon-rpc.com \
//	  --contract 0x<subscription manager> \
//	  --address  0x<user>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

const subscriptionABI = `[
{"type":"function","name":"getSubscription","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"plan","type":"uint8"},{"name":"expiresAt","type":"uint256"},{"name":"periodStart","type":"uint256"},{"name":"minted","type":"uint256"},{"name":"mintLimit","type":"uint256"},{"name":"active","type":"bool"},{"name":"gaslessEligible","type":"bool"}]}
]`

var planNames = []string{"FREE", "MASTER", "ELITE"}

func main() {
	rpc := flag.String("rpc", "", "RPC endpoint")
	contractHex := flag.String("contract", "", "Subscription manager address")
	addressHex := flag.String("address", "", "User address")
	flag.Parse()

	if *rpc == "" || !common.IsHexAddress(*contractHex) || !common.IsHexAddress(*addressHex) {
		fmt.Fprintln(os.Stderr, "error: --rpc, --contract and --address are required")
		os.Exit(1)
	}

	eth, err := ethclient.Dial(*rpc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: dial %s: %v\n", *rpc, err)
		os.Exit(1)
	}

	parsed, err := abi.JSON(strings.NewReader(subscriptionABI))
	if err != nil {
		panic(err)
	}
	bound := bind.NewBoundContract(common.HexToAddress(*contractHex), parsed, eth, eth, eth)

	var out []interface{}
	opts := &bind.CallOpts{Context: context.Background()}
	if err := bound.Call(opts, &out, "getSubscription", common.HexToAddress(*addressHex)); err != nil {
		fmt.Fprintf(os.Stderr, "error: getSubscription: %v\n", err)
		os.Exit(1)
	}

	plan := out[0].(uint8)
	planName := "UNKNOWN"
	if int(plan) < len(planNames) {
		planName = planNames[plan]
	}
	fmt.Printf("plan:      %s\n", planName)
	fmt.Printf("expires:   %s\n", out[1])
	fmt.Printf("period:    %s\n", out[2])
	fmt.Printf("minted:    %s\n", out[3])
	fmt.Printf("limit:     %s\n", out[4])
	fmt.Printf("active:    %v\n", out[5])
	fmt.Printf("gasless:   %v\n", out[6])
}
