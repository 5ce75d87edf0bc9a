// Package server wires configuration into the running web server.
package server

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/zeecrowd/zeecrowd/internal/campaign/action"
	"github.com/zeecrowd/zeecrowd/internal/campaign/projection"
	"github.com/zeecrowd/zeecrowd/internal/campaign/repository"
	"github.com/zeecrowd/zeecrowd/internal/chain"
	"github.com/zeecrowd/zeecrowd/internal/notify"
	"github.com/zeecrowd/zeecrowd/internal/platform/config"
	"github.com/zeecrowd/zeecrowd/internal/platform/otel"
	"github.com/zeecrowd/zeecrowd/internal/web"
)

const serviceName = "zeecrowd-web"

// feedLimit bounds how many notices queue up between page loads.
const feedLimit = 16

// ParseConfig loads configuration from the environment, then lets flags
// override individual values.
func ParseConfig(fs *flag.FlagSet, args []string) (config.Server, error) {
	var cfg config.Server
	if err := config.ParseEnv(&cfg); err != nil {
		return config.Server{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.RPCEndpoint, "rpc-endpoint", cfg.RPCEndpoint, "Ethereum node JSON-RPC endpoint")
	fs.StringVar(&cfg.ContractAddress, "contract-address", cfg.ContractAddress, "Crowdfunding contract address")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "display locale for dates and amounts")
	if err := fs.Parse(args); err != nil {
		return config.Server{}, err
	}

	if err := cfg.Validate(); err != nil {
		return config.Server{}, err
	}
	return cfg, nil
}

// Run connects to the chain and serves the campaign UI until the context ends.
func Run(ctx context.Context, cfg config.Server) error {
	shutdownTracing, err := otel.Setup(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	client, err := chain.Dial(ctx, chain.Config{
		RPCEndpoint:     cfg.RPCEndpoint,
		ContractAddress: common.HexToAddress(cfg.ContractAddress),
		ConfirmInterval: time.Duration(cfg.ConfirmIntervalMS) * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("dial chain: %w", err)
	}
	defer client.Close()

	// Pick up an account the node wallet already authorized, if any. The UI
	// offers an explicit connect action otherwise.
	if accounts, err := client.Accounts(ctx); err != nil {
		log.Printf("read wallet accounts: %v", err)
	} else if len(accounts) > 0 {
		client.UseAccount(accounts[0])
		log.Printf("wallet account %s", accounts[0].Hex())
	}

	feed := notify.NewFeed(feedLimit, log.Default())
	repo := repository.New(client)
	if err := repo.Refresh(ctx); err != nil {
		log.Printf("initial campaign load: %v", err)
	}

	coordinator := action.NewCoordinator(client, repo, feed)
	projector := projection.New(cfg.Locale, time.Local)
	handler := web.NewHandler(repo, coordinator, client, projector, feed)

	server, err := web.NewServer(web.Config{HTTPAddr: cfg.HTTPAddr}, handler)
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve web: %w", err)
	}
	return nil
}
