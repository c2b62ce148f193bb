package httphandlers

import (
	"errors"
	"net/http"

	"github.com/dragon-bot-z/dragonfire-client/internal/config"
	"github.com/dragon-bot-z/dragonfire-client/internal/interfaces"
	"github.com/dragon-bot-z/dragonfire-client/internal/viewmodel"
	"github.com/gin-gonic/gin"
)

type ViewModel interface {
	IsMounted() bool
	Snapshot() viewmodel.Snapshot
	Card() viewmodel.Card
	Approve() (string, error)
	Mint() (string, error)
}

type WalletSession interface {
	Connect() error
	Disconnect()
}

type Sanitizable interface {
	GetSanitized() interface{}
}

type HTTPHandler struct {
	viewModel ViewModel
	wallet    WalletSession
	config    Sanitizable
	log       interfaces.ILogger
}

func NewHTTPHandler(viewModel ViewModel, wallet WalletSession, cfg Sanitizable, metricsHandler http.Handler, log interfaces.ILogger) *gin.Engine {
	handl := &HTTPHandler{
		viewModel: viewModel,
		wallet:    wallet,
		config:    cfg,
		log:       log,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthcheck", handl.HealthCheck)
	r.GET("/status", handl.GetStatus)
	r.GET("/snapshot", handl.GetSnapshot)
	r.GET("/config", handl.GetConfig)
	r.GET("/metrics", gin.WrapH(metricsHandler))

	r.POST("/approve", handl.Approve)
	r.POST("/mint", handl.Mint)
	r.POST("/wallet/connect", handl.ConnectWallet)
	r.POST("/wallet/disconnect", handl.DisconnectWallet)

	err := r.SetTrustedProxies(nil)
	if err != nil {
		panic(err)
	}

	return r
}

func (h *HTTPHandler) HealthCheck(ctx *gin.Context) {
	ctx.JSON(200, gin.H{
		"status":  "healthy",
		"version": config.BuildVersion,
		"mounted": h.viewModel.IsMounted(),
	})
}

func (h *HTTPHandler) GetStatus(ctx *gin.Context) {
	ctx.JSON(200, h.viewModel.Card())
}

func (h *HTTPHandler) GetSnapshot(ctx *gin.Context) {
	ctx.JSON(200, MapSnapshot(h.viewModel.Snapshot()))
}

func (h *HTTPHandler) GetConfig(ctx *gin.Context) {
	ctx.JSON(200, ConfigResponse{
		Version: config.BuildVersion,
		Config:  h.config.GetSanitized(),
	})
}

func (h *HTTPHandler) Approve(ctx *gin.Context) {
	h.startTx(ctx, viewmodel.TxKindApprove, h.viewModel.Approve)
}

func (h *HTTPHandler) Mint(ctx *gin.Context) {
	h.startTx(ctx, viewmodel.TxKindMint, h.viewModel.Mint)
}

func (h *HTTPHandler) startTx(ctx *gin.Context, kind string, start func() (string, error)) {
	attemptID, err := start()
	if err != nil {
		h.log.Debugf("%s refused: %s", kind, err)
		ctx.JSON(txErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	h.log.Infof("%s started, attempt %s", kind, attemptID)
	ctx.JSON(http.StatusAccepted, TxStartedResponse{
		Kind:      kind,
		AttemptID: attemptID,
	})
}

func txErrorStatus(err error) int {
	switch {
	case errors.Is(err, viewmodel.ErrNotMounted):
		return http.StatusServiceUnavailable
	case errors.Is(err, viewmodel.ErrTxInProgress):
		return http.StatusConflict
	case errors.Is(err, viewmodel.ErrLocked),
		errors.Is(err, viewmodel.ErrNotConnected),
		errors.Is(err, viewmodel.ErrNeedsApproval),
		errors.Is(err, viewmodel.ErrInsufficientBalance):
		return http.StatusPreconditionFailed
	}
	return http.StatusInternalServerError
}

func (h *HTTPHandler) ConnectWallet(ctx *gin.Context) {
	err := h.wallet.Connect()
	if err != nil {
		ctx.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(200, gin.H{"status": "connected"})
}

func (h *HTTPHandler) DisconnectWallet(ctx *gin.Context) {
	h.wallet.Disconnect()
	ctx.JSON(200, gin.H{"status": "disconnected"})
}
