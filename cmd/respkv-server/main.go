// Command respkv-server runs the RESP key/value server.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"respkv/internal/config"
	"respkv/internal/server"
	"respkv/internal/server/debug"
)

func main() {
	var (
		cfgPath   string
		addr      string
		debugAddr string
	)
	flag.StringVar(&cfgPath, "config", "", "path to YAML config file (optional)")
	flag.StringVar(&addr, "addr", "", "RESP listen address, overrides config")
	flag.StringVar(&debugAddr, "debug-addr", "", "debug HTTP listen address, overrides config")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if addr != "" {
		cfg.Listen.Addr = addr
	}
	if debugAddr != "" {
		cfg.Listen.DebugAddr = debugAddr
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := server.New(cfg.Store.Shards)
	if cfg.Accept.RatePerSecond > 0 {
		srv.AcceptLimiter = rate.NewLimiter(rate.Limit(cfg.Accept.RatePerSecond), cfg.Accept.Burst)
	}

	if cfg.Listen.DebugAddr != "" {
		dbg := debug.NewServer(srv.Store)
		go func() {
			if err := dbg.ListenAndServe(ctx, cfg.Listen.DebugAddr); err != nil {
				log.Printf("debug server stopped: %v", err)
			}
		}()
		log.Printf("debug endpoint listening on %s", cfg.Listen.DebugAddr)
	}

	ln, err := net.Listen("tcp", cfg.Listen.Addr)
	if err != nil {
		log.Fatalf("listen %s: %v", cfg.Listen.Addr, err)
	}
	log.Printf("respkv listening on %s", cfg.Listen.Addr)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Printf("shutting down...")
		cancel()
		_ = ln.Close()
	}()

	if err := srv.Serve(ctx, ln); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
