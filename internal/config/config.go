package config

import (
	"strings"
	"time"
)

const (
	DragonFireAddress  = "0xa21b9Ab723669743934F5Fa78E8cC7D4Fc72600e"
	DragonTokenAddress = "0xD113b2cb6A38863F8e8232cBD5743B61Bb3c6B07"
	BaseChainID        = 8453
)

// Validation tags described here: https://pkg.go.dev/github.com/go-playground/validator/v10
type Config struct {
	Blockchain struct {
		EthNodeAddress string `env:"ETH_NODE_ADDRESS"   flag:"eth-node-address"   validate:"required,url"`
		EthLegacyTx    bool   `env:"ETH_NODE_LEGACY_TX" flag:"eth-node-legacy-tx" desc:"use it to disable EIP-1559 transactions"`
		ChainID        int    `env:"ETH_CHAIN_ID"       flag:"eth-chain-id"       validate:"omitempty,number" desc:"expected chain id of the node"`
	}
	Contracts struct {
		DragonFireAddress  string `env:"DRAGONFIRE_ADDRESS"   flag:"dragonfire-address"   validate:"required,eth_addr"`
		DragonTokenAddress string `env:"DRAGON_TOKEN_ADDRESS" flag:"dragon-token-address" validate:"required,eth_addr"`
	}
	Environment string `env:"ENVIRONMENT" flag:"environment"`
	Links       struct {
		MarketplaceURL string `env:"LINK_MARKETPLACE_URL" flag:"link-marketplace-url" validate:"omitempty,url"`
		ExplorerURL    string `env:"LINK_EXPLORER_URL"    flag:"link-explorer-url"    validate:"omitempty,url" desc:"block explorer base url, the contract address page is derived from it"`
		SourceURL      string `env:"LINK_SOURCE_URL"      flag:"link-source-url"      validate:"omitempty,url"`
	}
	Log struct {
		Color      bool   `env:"LOG_COLOR"       flag:"log-color"`
		FolderPath string `env:"LOG_FOLDER_PATH" flag:"log-folder-path" validate:"omitempty,dirpath" desc:"enables file logging and sets the folder path"`
		IsProd     bool   `env:"LOG_IS_PROD"     flag:"log-is-prod"     validate:""                  desc:"affects the format of the log output"`
		JSON       bool   `env:"LOG_JSON"        flag:"log-json"`
		LevelApp   string `env:"LOG_LEVEL_APP"   flag:"log-level-app"   validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
		LevelRPC   string `env:"LOG_LEVEL_RPC"   flag:"log-level-rpc"   validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
	}
	ViewModel struct {
		RefreshInterval   time.Duration `env:"VM_REFRESH_INTERVAL"   flag:"vm-refresh-interval"   desc:"interval between chain reads"`
		CountdownInterval time.Duration `env:"VM_COUNTDOWN_INTERVAL" flag:"vm-countdown-interval" desc:"interval of the local countdown tick"`
	}
	Wallet struct {
		Mnemonic     string `env:"WALLET_MNEMONIC"      flag:"wallet-mnemonic"      validate:"omitempty,excluded_with=PrivateKey"`
		AccountIndex int    `env:"WALLET_ACCOUNT_INDEX" flag:"wallet-account-index" validate:"omitempty,min=0"       desc:"derivation index of the mnemonic account"`
		PrivateKey   string `env:"WALLET_PRIVATE_KEY"   flag:"wallet-private-key"   validate:"omitempty,hexadecimal" desc:"session is read-only if neither the key nor the mnemonic is set"`
	}
	Web struct {
		Address   string `env:"WEB_ADDRESS"    flag:"web-address"    validate:"required,hostname_port" desc:"http server address host:port"`
		PublicUrl string `env:"WEB_PUBLIC_URL" flag:"web-public-url" validate:"omitempty,url"          desc:"public url of the client, falls back to web-address if empty"`
	}
}

func (cfg *Config) SetDefaults() {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Blockchain

	if cfg.Blockchain.EthNodeAddress == "" {
		cfg.Blockchain.EthNodeAddress = "https://mainnet.base.org"
	}
	if cfg.Blockchain.ChainID == 0 {
		cfg.Blockchain.ChainID = BaseChainID
	}

	// Contracts

	if cfg.Contracts.DragonFireAddress == "" {
		cfg.Contracts.DragonFireAddress = DragonFireAddress
	}
	if cfg.Contracts.DragonTokenAddress == "" {
		cfg.Contracts.DragonTokenAddress = DragonTokenAddress
	}

	// Links

	if cfg.Links.MarketplaceURL == "" {
		cfg.Links.MarketplaceURL = "https://opensea.io/collection/dragon-fire-475567302"
	}
	if cfg.Links.ExplorerURL == "" {
		cfg.Links.ExplorerURL = "https://basescan.org"
	}
	if cfg.Links.SourceURL == "" {
		cfg.Links.SourceURL = "https://github.com/dragon-bot-z/dragon-fire"
	}

	// Log

	if cfg.Log.LevelApp == "" {
		cfg.Log.LevelApp = "debug"
	}
	if cfg.Log.LevelRPC == "" {
		cfg.Log.LevelRPC = "info"
	}

	// ViewModel

	if cfg.ViewModel.RefreshInterval == 0 {
		cfg.ViewModel.RefreshInterval = 10 * time.Second
	}
	if cfg.ViewModel.CountdownInterval == 0 {
		cfg.ViewModel.CountdownInterval = time.Second
	}

	// Wallet

	// normalizes private key
	cfg.Wallet.PrivateKey = strings.TrimPrefix(cfg.Wallet.PrivateKey, "0x")

	// Web

	if cfg.Web.Address == "" {
		cfg.Web.Address = "0.0.0.0:8080"
	}
	if cfg.Web.PublicUrl == "" {
		cfg.Web.PublicUrl = "http://localhost:8080"
	}
}

// ExplorerAddressURL returns the block explorer page of addr
func (cfg *Config) ExplorerAddressURL(addr string) string {
	return strings.TrimSuffix(cfg.Links.ExplorerURL, "/") + "/address/" + addr
}

// GetSanitized returns a copy of the config with sensitive data removed
// explicitly adding each field here to avoid accidentally leaking sensitive data
func (cfg *Config) GetSanitized() interface{} {
	publicCfg := Config{}

	publicCfg.Blockchain.EthLegacyTx = cfg.Blockchain.EthLegacyTx
	publicCfg.Blockchain.ChainID = cfg.Blockchain.ChainID
	publicCfg.Environment = cfg.Environment

	publicCfg.Contracts.DragonFireAddress = cfg.Contracts.DragonFireAddress
	publicCfg.Contracts.DragonTokenAddress = cfg.Contracts.DragonTokenAddress

	publicCfg.Links.MarketplaceURL = cfg.Links.MarketplaceURL
	publicCfg.Links.ExplorerURL = cfg.Links.ExplorerURL
	publicCfg.Links.SourceURL = cfg.Links.SourceURL

	publicCfg.Log.Color = cfg.Log.Color
	publicCfg.Log.FolderPath = cfg.Log.FolderPath
	publicCfg.Log.IsProd = cfg.Log.IsProd
	publicCfg.Log.JSON = cfg.Log.JSON
	publicCfg.Log.LevelApp = cfg.Log.LevelApp
	publicCfg.Log.LevelRPC = cfg.Log.LevelRPC

	publicCfg.ViewModel.RefreshInterval = cfg.ViewModel.RefreshInterval
	publicCfg.ViewModel.CountdownInterval = cfg.ViewModel.CountdownInterval

	publicCfg.Wallet.AccountIndex = cfg.Wallet.AccountIndex

	publicCfg.Web.Address = cfg.Web.Address
	publicCfg.Web.PublicUrl = cfg.Web.PublicUrl

	return publicCfg
}
