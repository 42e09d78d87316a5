// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableForge Authors

package netmon

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/fableforge/fable-sync/internal/config"
	"github.com/fableforge/fable-sync/internal/logger"
)

// PingMonitor probes the remote health endpoint on a fixed interval and
// reports reachability as a ConnectivityMonitor. A process starts as
// offline until the first successful probe.
type PingMonitor struct {
	client   *resty.Client
	path     string
	interval time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	stateMu sync.RWMutex
	online  bool
	subs    map[string]func(online bool)
}

// NewPingMonitor constructs a PingMonitor from the adapter configuration.
// The monitor is idle until Start is called.
func NewPingMonitor(cfg config.SyncAdapter, log *logger.Logger) (*PingMonitor, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("ping monitor requires a base URL")
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.RequestTimeout)

	interval := cfg.PingInterval
	if interval <= 0 {
		interval = config.DefaultPingInterval
	}
	path := cfg.HealthPath
	if path == "" {
		path = config.DefaultHealthPath
	}

	return &PingMonitor{
		client:   client,
		path:     path,
		interval: interval,
		log:      log,
		subs:     make(map[string]func(online bool)),
	}, nil
}

// Start stops any previous probe loop, probes once immediately, then keeps
// probing every interval. The goroutine exits when ctx is cancelled or
// Stop is called.
func (m *PingMonitor) Start(ctx context.Context) {
	m.Stop()

	m.mu.Lock()
	probeCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()

		m.probe(probeCtx)

		t := time.NewTicker(m.interval)
		defer t.Stop()

		for {
			select {
			case <-probeCtx.Done():
				return
			case <-t.C:
				m.probe(probeCtx)
			}
		}
	}()
}

// Stop cancels the probe loop and blocks until it exits. Safe to call
// when the monitor is not running.
func (m *PingMonitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

func (m *PingMonitor) probe(ctx context.Context) {
	resp, err := m.client.R().SetContext(ctx).Get(m.path)
	online := err == nil && resp.StatusCode() == http.StatusOK
	m.setOnline(online)
}

// IsOnline implements ConnectivityMonitor.
func (m *PingMonitor) IsOnline() bool {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.online
}

// OnChange implements ConnectivityMonitor.
func (m *PingMonitor) OnChange(callback func(online bool)) func() {
	token := uuid.NewString()

	m.stateMu.Lock()
	m.subs[token] = callback
	m.stateMu.Unlock()

	return func() {
		m.stateMu.Lock()
		delete(m.subs, token)
		m.stateMu.Unlock()
	}
}

func (m *PingMonitor) setOnline(online bool) {
	m.stateMu.Lock()
	if m.online == online {
		m.stateMu.Unlock()
		return
	}
	m.online = online
	callbacks := make([]func(bool), 0, len(m.subs))
	for _, cb := range m.subs {
		callbacks = append(callbacks, cb)
	}
	m.stateMu.Unlock()

	m.log.Info().Bool("online", online).Msg("connectivity changed")
	for _, cb := range callbacks {
		cb(online)
	}
}
