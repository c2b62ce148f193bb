package contracts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// only the functions used by the client are listed
const dragonFireABIJSON = `[
	{"type":"function","name":"currentPrice","inputs":[],"outputs":[{"name":"price","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"timeUntilLock","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"isActive","inputs":[],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
	{"type":"function","name":"locked","inputs":[],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
	{"type":"function","name":"totalSupply","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"totalDragonBurned","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"mint","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"nonpayable"}
]`

const erc20ABIJSON = `[
	{"type":"function","name":"balanceOf","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"allowance","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"approve","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"}
]`

var (
	DragonFireABI = mustParseABI(dragonFireABIJSON)
	ERC20ABI      = mustParseABI(erc20ABIJSON)
)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic("invalid ABI: " + err.Error())
	}
	return parsed
}
