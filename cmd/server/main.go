// Package main starts the browser-facing crowdfunding web server.
//
// This process owns the chain connection and route wiring so campaign state is
// translated consistently for browsers.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeecrowd/zeecrowd/internal/platform/config"

	servercmd "github.com/zeecrowd/zeecrowd/internal/cmd/server"
)

func main() {
	cfg, err := servercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	log.SetPrefix("[WEB] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := servercmd.Run(ctx, cfg); err != nil {
		config.Exitf("Error: %v", err)
	}
}
