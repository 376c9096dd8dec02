package evm

import (
	"crypto/ecdsa"
	"fmt"
	"strings"
	"unicode"

	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
	"github.com/pkg/errors"
)

// LooksLikeMnemonic reports whether s resembles a BIP-39 phrase: at least
// twelve lowercase words. Actual validity is checked by DeriveKeys.
func LooksLikeMnemonic(s string) bool {
	words := strings.Fields(strings.TrimSpace(s))
	if len(words) < 12 {
		return false
	}
	for _, w := range words {
		for _, r := range w {
			if !unicode.IsLower(r) {
				return false
			}
		}
	}
	return true
}

// DeriveKeys derives count private keys from a BIP-39 mnemonic along the
// standard ethereum path m/44'/60'/0'/0/i.
func DeriveKeys(mnemonic string, count int) ([]*ecdsa.PrivateKey, error) {
	wallet, err := hdwallet.NewFromMnemonic(strings.TrimSpace(mnemonic))
	if err != nil {
		return nil, errors.Wrap(err, "evm: open hd wallet")
	}

	keys := make([]*ecdsa.PrivateKey, 0, count)
	for i := 0; i < count; i++ {
		path := hdwallet.MustParseDerivationPath(fmt.Sprintf("m/44'/60'/0'/0/%d", i))
		account, err := wallet.Derive(path, false)
		if err != nil {
			return nil, errors.Wrapf(err, "evm: derive index %d", i)
		}
		key, err := wallet.PrivateKey(account)
		if err != nil {
			return nil, errors.Wrapf(err, "evm: key at index %d", i)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
