package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/betbot/okxflow/internal/treasury"
	"github.com/betbot/okxflow/internal/tui"
	"github.com/betbot/okxflow/internal/workflow"
	"github.com/betbot/okxflow/pkg/config"
	"github.com/betbot/okxflow/pkg/logger"
	"github.com/betbot/okxflow/pkg/okx"
)

// prompter adapts the tui package to the workflow prompt surface.
type prompter struct{}

func (prompter) Select(title string, options []string) (int, error) {
	return tui.Select(title, options)
}

func (prompter) Confirm(prompt string) (bool, error) {
	return tui.Confirm(prompt)
}

func buildExchange(cfg *config.Config) func(proxyAddr string) (*workflow.Exchange, error) {
	return func(proxyAddr string) (*workflow.Exchange, error) {
		client := okx.NewClient(okx.Credentials{
			APIKey:     cfg.OKX.APIKey,
			SecretKey:  cfg.OKX.SecretKey,
			Passphrase: cfg.OKX.Passphrase,
		}, okx.WithProxy(proxyAddr))

		return &workflow.Exchange{
			Aggregator: treasury.NewAggregator(client.Funding, client.Account, client.Sub, client.Market),
			Router:     treasury.NewRouter(client.Funding, client.Account, client.Sub),
			Withdrawer: treasury.NewWithdrawer(client.Funding),
			Funding:    client.Funding,
		}, nil
	}
}

func main() {
	configFile := flag.String("config", "config.yml", "path to configuration file")
	flag.Parse()

	// Credentials may live in .env instead of the config file.
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config %s: %v\n", *configFile, err)
		os.Exit(1)
	}

	if err := logger.InitDefault(cfg.Log.Level, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	logger.Infof("config %s read successfully", *configFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	o := workflow.New(cfg, prompter{}, buildExchange(cfg))
	if err := o.Run(ctx); err != nil {
		logger.Errorf("run failed: %v", err)
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Done.")
}
