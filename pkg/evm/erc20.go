package evm

import (
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// erc20ABIJSON covers the two functions the wallet needs.
const erc20ABIJSON = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

var (
	erc20Once   sync.Once
	erc20Parsed abi.ABI
)

func erc20ABI() abi.ABI {
	erc20Once.Do(func() {
		parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
		if err != nil {
			// Static input; a failure here is a programming error.
			panic(err)
		}
		erc20Parsed = parsed
	})
	return erc20Parsed
}

// packTransfer encodes an ERC-20 transfer(to, value) call.
func packTransfer(to common.Address, amount *big.Int) ([]byte, error) {
	data, err := erc20ABI().Pack("transfer", to, amount)
	if err != nil {
		return nil, errors.Wrap(err, "evm: pack transfer")
	}
	return data, nil
}
