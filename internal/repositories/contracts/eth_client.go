package contracts

import (
	"context"
	"math/big"
	"net/url"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
)

type EthereumClient interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

type EthClient struct {
	// config
	url string

	// state
	*ethclient.Client
	isWebsocket bool
}

func DialContext(ctx context.Context, urlString string) (*EthClient, error) {
	u, err := url.Parse(urlString)
	if err != nil {
		return nil, err
	}

	client, err := ethclient.DialContext(ctx, urlString)
	if err != nil {
		return nil, err
	}

	return &EthClient{
		Client:      client,
		url:         urlString,
		isWebsocket: u.Scheme == "ws" || u.Scheme == "wss",
	}, nil
}

func (c *EthClient) URL() string {
	return c.url
}

func (c *EthClient) IsWebsocket() bool {
	return c.isWebsocket
}

var _ EthereumClient = new(EthClient)
