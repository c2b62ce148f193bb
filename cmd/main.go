package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dragon-bot-z/dragonfire-client/internal/config"
	"github.com/dragon-bot-z/dragonfire-client/internal/handlers/httphandlers"
	"github.com/dragon-bot-z/dragonfire-client/internal/lib"
	"github.com/dragon-bot-z/dragonfire-client/internal/metrics"
	"github.com/dragon-bot-z/dragonfire-client/internal/repositories/contracts"
	"github.com/dragon-bot-z/dragonfire-client/internal/viewmodel"
	"github.com/dragon-bot-z/dragonfire-client/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	err := start()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func start() error {
	err := config.LoadEnvFile(".env")
	if err != nil {
		return err
	}

	var cfg config.Config
	err = config.LoadConfig(&cfg, &os.Args)
	if err != nil {
		return err
	}

	log, err := lib.NewLogger(lib.LoggerConfig{
		Level:      cfg.Log.LevelApp,
		Color:      cfg.Log.Color,
		IsProd:     cfg.Log.IsProd,
		JSON:       cfg.Log.JSON,
		FolderPath: cfg.Log.FolderPath,
	})
	if err != nil {
		return err
	}

	rpcLog, err := lib.NewLogger(lib.LoggerConfig{
		Level:      cfg.Log.LevelRPC,
		Color:      cfg.Log.Color,
		IsProd:     cfg.Log.IsProd,
		JSON:       cfg.Log.JSON,
		FolderPath: cfg.Log.FolderPath,
	})
	if err != nil {
		return err
	}

	defer func() {
		_ = log.Sync()
		_ = rpcLog.Sync()
	}()

	log.Infof("dragonfire client %s", config.BuildVersion)
	log.Infof("config: %+v", cfg.GetSanitized())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-shutdownChan
		log.Warnf("Received signal: %s", s)
		cancel()

		s = <-shutdownChan
		log.Warnf("Received signal: %s. Forcing exit...", s)
		os.Exit(1)
	}()

	ethClient, err := contracts.DialContext(ctx, cfg.Blockchain.EthNodeAddress)
	if err != nil {
		return lib.WrapError(errors.New("cannot connect to the node"), err)
	}
	defer ethClient.Close()
	log.Infof("connected to ethereum node: %s, websocket: %t", ethClient.URL(), ethClient.IsWebsocket())

	chainID, err := ethClient.ChainID(ctx)
	if err != nil {
		return lib.WrapError(errors.New("cannot get chain id"), err)
	}
	if chainID.Int64() != int64(cfg.Blockchain.ChainID) {
		return fmt.Errorf("node chain id %s does not match the expected %d", chainID, cfg.Blockchain.ChainID)
	}

	session, err := newSession(&cfg)
	if err != nil {
		return err
	}
	if account, ok := session.Account(); ok {
		log.Infof("wallet account: %s", account.Hex())
	} else {
		log.Warnf("no wallet key provided, running read-only")
	}

	mintAddr := common.HexToAddress(cfg.Contracts.DragonFireAddress)
	tokenAddr := common.HexToAddress(cfg.Contracts.DragonTokenAddress)

	dragonFire := contracts.NewDragonFireEthereum(mintAddr, tokenAddr, ethClient, session, rpcLog.Named("RPC"))
	dragonFire.SetLegacyTx(cfg.Blockchain.EthLegacyTx)
	log.Infof("mint contract: %s, token contract: %s", dragonFire.MintAddress().Hex(), dragonFire.TokenAddress().Hex())

	rec := metrics.NewMetrics()

	vm := viewmodel.NewViewModel(viewmodel.Config{
		RefreshInterval:   cfg.ViewModel.RefreshInterval,
		CountdownInterval: cfg.ViewModel.CountdownInterval,
		MintAddress:       mintAddr,
		Links: viewmodel.Links{
			Marketplace: cfg.Links.MarketplaceURL,
			Explorer:    cfg.ExplorerAddressURL(mintAddr.Hex()),
			Source:      cfg.Links.SourceURL,
		},
	}, dragonFire, dragonFire, session, rec, log.Named("VIEWMODEL"))

	handler := httphandlers.NewHTTPHandler(vm, session, &cfg, rec.Handler(), log.Named("HTTP"))
	server := &http.Server{
		Addr:    cfg.Web.Address,
		Handler: handler,
	}

	g, errCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return vm.Run(errCtx)
	})

	g.Go(func() error {
		log.Infof("http server is listening: %s, public url: %s", cfg.Web.Address, cfg.Web.PublicUrl)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-errCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Infof("App exited due to %v", err)
	return err
}

func newSession(cfg *config.Config) (*wallet.KeySession, error) {
	switch {
	case cfg.Wallet.PrivateKey != "":
		return wallet.NewSessionFromPrivateKey(cfg.Wallet.PrivateKey)
	case cfg.Wallet.Mnemonic != "":
		return wallet.NewSessionFromMnemonic(cfg.Wallet.Mnemonic, cfg.Wallet.AccountIndex)
	default:
		return wallet.NewReadOnlySession(), nil
	}
}
