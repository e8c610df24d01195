package http

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/iqpremium/iqpay/internal/adapter/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const banner = "Servidor Teste de QI Premium ativo"

const shutdownTimeout = 10 * time.Second

// OrderCounter reports how many orders are held in memory.
type OrderCounter interface {
	Len() int
}

type Router struct {
	*gin.Engine
	logger *zap.Logger
}

func NewRouter(
	conf *config.HTTP,
	orders OrderCounter,
	chargeHandler *ChargeHandler,
	paymentHandler *PaymentHandler,
	webhookHandler *WebhookHandler,
	logger *zap.Logger) (*Router, error) {

	router := gin.New()
	router.Use(recovery(logger), requestLogger(logger), cors.New(corsConfig(conf.AllowedOrigins)))

	router.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, banner)
	})
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "orders": orders.Len()})
	})

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.POST("/create-pix", chargeHandler.CreatePix)
	router.POST("/create-order", chargeHandler.CreateOrder)
	router.GET("/payment-status/:id", paymentHandler.PaymentStatus)
	router.GET("/result/:orderId", paymentHandler.Result)
	router.POST("/webhook", webhookHandler.Notify)

	return &Router{Engine: router, logger: logger}, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	return c
}

// Serve starts the HTTP server and shuts it down when ctx is done
func (r *Router) Serve(ctx context.Context, listenAddr string) error {
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           r.Engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("listening", zap.String("addr", listenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
