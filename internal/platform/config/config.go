// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Server holds the configuration for the web server binary.
//
// The contract address and RPC endpoint are injected here rather than living as
// package-level constants; every component that talks to the chain receives them
// at construction time.
type Server struct {
	// HTTPAddr is the listen address for the web server.
	HTTPAddr string `env:"ZEECROWD_HTTP_ADDR" envDefault:":8080"`
	// RPCEndpoint is the JSON-RPC endpoint of the Ethereum node.
	RPCEndpoint string `env:"ZEECROWD_RPC_ENDPOINT" envDefault:"http://localhost:8545"`
	// ContractAddress is the deployed Crowdfunding contract address.
	ContractAddress string `env:"ZEECROWD_CONTRACT_ADDRESS"`
	// Locale selects the display locale for dates and amounts.
	Locale string `env:"ZEECROWD_LOCALE" envDefault:"en-US"`
	// ConfirmInterval is the polling interval, in milliseconds, while waiting
	// for transaction confirmation.
	ConfirmIntervalMS int `env:"ZEECROWD_CONFIRM_INTERVAL_MS" envDefault:"500"`
}

// Validate checks fields that have no usable zero value.
func (s Server) Validate() error {
	if strings.TrimSpace(s.ContractAddress) == "" {
		return fmt.Errorf("ZEECROWD_CONTRACT_ADDRESS is required")
	}
	if strings.TrimSpace(s.RPCEndpoint) == "" {
		return fmt.Errorf("ZEECROWD_RPC_ENDPOINT is required")
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
