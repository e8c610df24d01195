package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/govalues/decimal"
	"github.com/joho/godotenv"
)

type Config struct {
	App     *App
	HTTP    *HTTP
	Gateway *Gateway
	Links   *Links
	Pricing *Pricing
	Store   *Store
	Recheck *Recheck
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string `env:"APP_MODE"`
}

type HTTP struct {
	HostString     string   `env:"RUN_ADDRESS"`
	Port           string   `env:"PORT"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

type Gateway struct {
	AccessToken string        `env:"MP_ACCESS_TOKEN"`
	BaseURL     string        `env:"MP_BASE_URL"`
	Timeout     time.Duration `env:"GATEWAY_TIMEOUT"`
	PayerEmail  string        `env:"PAYER_EMAIL"`
}

// Links are the externally reachable addresses handed to the gateway.
type Links struct {
	ServerURL   string `env:"SERVER_URL"`
	FrontendURL string `env:"FRONTEND_URL"`
}

func (l *Links) NotificationURL() string {
	if l.ServerURL == "" {
		return ""
	}
	return strings.TrimRight(l.ServerURL, "/") + "/webhook"
}

func (l *Links) FrontendPage(page string) string {
	return strings.TrimRight(l.FrontendURL, "/") + "/" + page
}

type Pricing struct {
	PixAmount      string `env:"PIX_AMOUNT"`
	CheckoutAmount string `env:"CHECKOUT_AMOUNT"`
	Description    string `env:"CHARGE_DESCRIPTION"`
}

func (p *Pricing) Pix() (decimal.Decimal, error) {
	return parseAmount(p.PixAmount)
}

func (p *Pricing) Checkout() (decimal.Decimal, error) {
	return parseAmount(p.CheckoutAmount)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.Parse(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", s, err)
	}
	if !d.IsPos() {
		return decimal.Zero, fmt.Errorf("amount %q must be positive", s)
	}
	return d, nil
}

type Store struct {
	OrderTTL         time.Duration `env:"ORDER_TTL"`
	EvictionInterval time.Duration `env:"EVICTION_INTERVAL"`
}

// Recheck controls retries of webhook reconciliations that failed on the
// gateway side.
type Recheck struct {
	Delays    []time.Duration `env:"RECHECK_DELAYS" envSeparator:","`
	Workers   int             `env:"RECHECK_WORKERS"`
	QueueSize int             `env:"RECHECK_QUEUE_SIZE"`
}

var (
	defaultOrigins = []string{
		"https://omelhordetodos.github.io",
	}
	defaultRecheckDelays = []time.Duration{30 * time.Second, 2 * time.Minute, 10 * time.Minute}
)

// NewConfig reads flags, then a .env file if present, then the environment.
// Environment values win over flags.
func NewConfig() (*Config, error) {
	return newConfig(flag.CommandLine, nil)
}

func newConfig(fset *flag.FlagSet, args []string) (*Config, error) {
	var app App
	var http HTTP
	var gw Gateway
	var links Links
	var pricing Pricing
	var store Store
	var recheck Recheck

	fset.StringVar(&http.HostString, "a", `:3000`, "HTTP server endpoint")
	fset.StringVar(&app.LogLevel, "l", `info`, "Log level")
	fset.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	fset.StringVar(&gw.BaseURL, "g", `https://api.mercadopago.com`, "Payment gateway API address")
	fset.DurationVar(&gw.Timeout, "t", 10*time.Second, "Payment gateway call timeout")
	fset.StringVar(&gw.PayerEmail, "payer", `cliente@teste.com`, "Payer email sent with PIX charges")
	fset.StringVar(&links.ServerURL, "s", "", "Public server URL for webhooks")
	fset.StringVar(&links.FrontendURL, "f", "", "Frontend URL for checkout redirects")
	fset.StringVar(&pricing.PixAmount, "pix-amount", "3.99", "PIX charge amount")
	fset.StringVar(&pricing.CheckoutAmount, "checkout-amount", "4.99", "Checkout charge amount")
	fset.StringVar(&pricing.Description, "description", "Resultado Teste de QI Premium", "Charge description")
	fset.DurationVar(&store.OrderTTL, "ttl", 0, "Evict orders idle for longer than this, 0 keeps them forever")
	fset.DurationVar(&store.EvictionInterval, "evict-every", time.Minute, "Eviction sweep interval")
	fset.IntVar(&recheck.Workers, "recheck-workers", 2, "Payment recheck workers")
	fset.IntVar(&recheck.QueueSize, "recheck-queue", 64, "Payment recheck queue size")

	if fset == flag.CommandLine {
		flag.Parse()
	} else if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	// hosting platforms only hand out PORT
	if http.Port != "" && os.Getenv("RUN_ADDRESS") == "" && !isFlagSet(fset, "a") {
		http.HostString = ":" + http.Port
	}
	err = env.Parse(&gw)
	if err != nil {
		return nil, fmt.Errorf("error parsing gateway config: %w", err)
	}
	err = env.Parse(&links)
	if err != nil {
		return nil, fmt.Errorf("error parsing links config: %w", err)
	}
	err = env.Parse(&pricing)
	if err != nil {
		return nil, fmt.Errorf("error parsing pricing config: %w", err)
	}
	err = env.Parse(&store)
	if err != nil {
		return nil, fmt.Errorf("error parsing store config: %w", err)
	}
	err = env.Parse(&recheck)
	if err != nil {
		return nil, fmt.Errorf("error parsing recheck config: %w", err)
	}

	if len(http.AllowedOrigins) == 0 {
		http.AllowedOrigins = defaultOrigins
	}
	if len(recheck.Delays) == 0 {
		recheck.Delays = defaultRecheckDelays
	}
	if gw.AccessToken == "" {
		return nil, errors.New("MP_ACCESS_TOKEN is required")
	}
	if _, err := pricing.Pix(); err != nil {
		return nil, err
	}
	if _, err := pricing.Checkout(); err != nil {
		return nil, err
	}

	config := Config{
		App:     &app,
		HTTP:    &http,
		Gateway: &gw,
		Links:   &links,
		Pricing: &pricing,
		Store:   &store,
		Recheck: &recheck,
	}

	return &config, nil
}

func isFlagSet(fset *flag.FlagSet, name string) bool {
	set := false
	fset.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
