// Command waitforstore blocks until the configured key-value backend accepts
// connections. Compose and CI run it before the server or integration tests.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"mangabook/catalog-api/internal/config"
	"mangabook/catalog-api/internal/kvstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}

	timeout := 60 * time.Second
	if raw := os.Getenv("WAIT_FOR_STORE_TIMEOUT_SEC"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			fmt.Fprintf(os.Stderr, "invalid WAIT_FOR_STORE_TIMEOUT_SEC: %q\n", raw)
			os.Exit(2)
		}
		timeout = time.Duration(secs) * time.Second
	}

	deadline := time.Now().Add(timeout)
	for {
		err := tryStore(cfg.Store)
		if err == nil {
			fmt.Printf("%s store ready\n", cfg.Store.Backend)
			return
		}
		if time.Now().After(deadline) {
			fmt.Fprintf(os.Stderr, "%s store not ready within %s: %v\n", cfg.Store.Backend, timeout, err)
			os.Exit(1)
		}
		time.Sleep(2 * time.Second)
	}
}

func tryStore(cfg config.StoreConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := kvstore.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if p, ok := s.(kvstore.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
