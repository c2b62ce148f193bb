package lib

import (
	"crypto/ecdsa"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrInvalidPublicKey = errors.New("error casting public key to ECDSA")

func PrivKeyToAddr(privateKey *ecdsa.PrivateKey) (common.Address, error) {
	publicKeyECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return common.Address{}, ErrInvalidPublicKey
	}
	return crypto.PubkeyToAddress(*publicKeyECDSA), nil
}

// HexToPrivKey parses hex private key, 0x prefix is optional
func HexToPrivKey(privateKey string) (*ecdsa.PrivateKey, error) {
	return crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
}

// AddrShort shortens an address for logging, e.g. 0x60E..ec2
func AddrShort(addr string) string {
	if len(addr) > 10 {
		return addr[:5] + ".." + addr[len(addr)-3:]
	}
	return addr
}
