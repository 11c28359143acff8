// Package daemon assembles the process: configuration, SQLite store,
// credential cipher, service layer and the HTTP admin API, with ordered
// shutdown on signal or request.
package daemon

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LukePamlerr/ptero-discord-bot/internal/bot"
	"github.com/LukePamlerr/ptero-discord-bot/internal/config"
	"github.com/LukePamlerr/ptero-discord-bot/internal/config/store"
	"github.com/LukePamlerr/ptero-discord-bot/internal/server"
	"github.com/LukePamlerr/ptero-discord-bot/internal/vault"
)

const shutdownTimeout = 10 * time.Second

// Daemon owns the process lifecycle.
type Daemon struct {
	cfg    config.Config
	store  *store.Store
	api    *server.APIServer
	sigs   chan os.Signal
	errors chan error
}

// New wires the components together from a validated configuration.
// Nothing is listening yet; Run starts the server.
func New(cfg config.Config) (*Daemon, error) {
	st, err := store.Open(store.Options{Path: cfg.DatabasePath})
	if err != nil {
		return nil, fmt.Errorf("daemon: open store: %w", err)
	}

	cipher, err := vault.New(cfg.VaultSecret)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("daemon: init credential cipher: %w", err)
	}

	service := bot.New(st, cipher, bot.WithPrivatePanels(cfg.AllowPrivatePanels))
	api := server.New(service, cfg.ListenAddr, cfg.AdminToken)

	return &Daemon{
		cfg:    cfg,
		store:  st,
		api:    api,
		sigs:   make(chan os.Signal, 1),
		errors: make(chan error, 1),
	}, nil
}

// Run serves until SIGINT/SIGTERM or a server failure, then shuts down in
// order: listener first, store last.
func (d *Daemon) Run() error {
	signal.Notify(d.sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(d.sigs)

	go func() {
		if err := d.api.Start(); err != nil {
			d.errors <- err
		}
	}()

	var runErr error
	select {
	case sig := <-d.sigs:
		log.Printf("[Daemon] received %s, shutting down", sig)
	case runErr = <-d.errors:
		log.Printf("[Daemon] server failed: %v", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := d.api.Shutdown(ctx); err != nil {
		log.Printf("[Daemon] server shutdown: %v", err)
	}
	if err := d.store.Close(); err != nil {
		log.Printf("[Daemon] store close: %v", err)
	}
	return runErr
}
