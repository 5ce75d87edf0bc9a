package server

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("ZEECROWD_CONTRACT_ADDRESS", "0x5FbDB2315678afecb367f032d93F642f64180aa3")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("http addr = %q", cfg.HTTPAddr)
	}
	if cfg.RPCEndpoint != "http://localhost:8545" {
		t.Fatalf("rpc endpoint = %q", cfg.RPCEndpoint)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("locale = %q", cfg.Locale)
	}
	if cfg.ConfirmIntervalMS != 500 {
		t.Fatalf("confirm interval = %d", cfg.ConfirmIntervalMS)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("ZEECROWD_CONTRACT_ADDRESS", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	t.Setenv("ZEECROWD_HTTP_ADDR", ":9999")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", ":3000", "-locale", "pt-BR"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}

	if cfg.HTTPAddr != ":3000" {
		t.Fatalf("http addr = %q, want flag override", cfg.HTTPAddr)
	}
	if cfg.Locale != "pt-BR" {
		t.Fatalf("locale = %q", cfg.Locale)
	}
}

func TestParseConfigRequiresContractAddress(t *testing.T) {
	t.Setenv("ZEECROWD_CONTRACT_ADDRESS", "")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected missing contract address error")
	}
}
