package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iqpremium/iqpay/internal/adapter/client/mercadopago"
	"github.com/iqpremium/iqpay/internal/adapter/config"
	"github.com/iqpremium/iqpay/internal/adapter/handler/http"
	"github.com/iqpremium/iqpay/internal/adapter/logger"
	"github.com/iqpremium/iqpay/internal/adapter/storage"
	"github.com/iqpremium/iqpay/internal/adapter/storage/repository"
	"github.com/iqpremium/iqpay/internal/adapter/worker"
	"github.com/iqpremium/iqpay/internal/core/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		os.Exit(1)
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		os.Exit(1)
	}
	defer func() {
		// stderr/stdout sync fails on some terminals
		_ = log.Sync()
	}()

	if err := run(conf, log); err != nil {
		log.Error("service stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(conf *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := storage.NewMemoryStorage(log.Named("Storage"))
	repo, err := repository.NewRepository(db)
	if err != nil {
		return fmt.Errorf("order repo creating error: %w", err)
	}

	gateway, err := mercadopago.NewClient(conf.Gateway, conf.Links, log.Named("MercadoPago"))
	if err != nil {
		return fmt.Errorf("gateway client creating error: %w", err)
	}

	pixAmount, err := conf.Pricing.Pix()
	if err != nil {
		return err
	}
	checkoutAmount, err := conf.Pricing.Checkout()
	if err != nil {
		return err
	}

	svc, err := service.NewService(repo, gateway, service.Defaults{
		PixAmount:      pixAmount,
		CheckoutAmount: checkoutAmount,
		Description:    conf.Pricing.Description,
		PayerEmail:     conf.Gateway.PayerEmail,
		SuccessURL:     conf.Links.FrontendPage("teste.html"),
		FailureURL:     conf.Links.FrontendPage("resultado.html"),
		PendingURL:     conf.Links.FrontendPage("resultado.html"),
	}, log.Named("Service"))
	if err != nil {
		return fmt.Errorf("service creating error: %w", err)
	}

	rechecks := worker.NewRecheckQueue(conf.Recheck, log.Named("Recheck"))

	chargeHandler, err := http.NewChargeHandler(svc, log.Named("Charge handler"))
	if err != nil {
		return fmt.Errorf("charge handler creating error: %w", err)
	}
	paymentHandler, err := http.NewPaymentHandler(svc, log.Named("Payment handler"))
	if err != nil {
		return fmt.Errorf("payment handler creating error: %w", err)
	}
	webhookHandler, err := http.NewWebhookHandler(svc, rechecks, log.Named("Webhook handler"))
	if err != nil {
		return fmt.Errorf("webhook handler creating error: %w", err)
	}

	r, err := http.NewRouter(conf.HTTP, db, chargeHandler, paymentHandler, webhookHandler, log.Named("Router"))
	if err != nil {
		return fmt.Errorf("router creating error: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.Serve(ctx, conf.HTTP.HostString)
	})
	g.Go(func() error {
		rechecks.Run(ctx, svc, conf.Recheck.Workers)
		return nil
	})
	g.Go(func() error {
		db.RunEviction(ctx, conf.Store.EvictionInterval, conf.Store.OrderTTL)
		return nil
	})

	return g.Wait()
}
